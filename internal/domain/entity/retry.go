package entity

import (
	"errors"
	"fmt"
	"time"
)

type RetryPolicy struct {
	MaxAttempts int
	Timeout     time.Duration
	Backoff     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Timeout:     10 * time.Second,
		Backoff:     time.Second,
	}
}

func (p RetryPolicy) Validate() error {
	var errs []error
	if p.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("max attempts must be >= 1, got %d", p.MaxAttempts))
	}
	if p.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout per attempt must be > 0, got %s", p.Timeout))
	}
	if p.Backoff < 0 {
		errs = append(errs, fmt.Errorf("backoff must be >= 0, got %s", p.Backoff))
	}
	return errors.Join(errs...)
}

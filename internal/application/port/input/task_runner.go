package input

import (
	"context"
	"time"

	"browser-task/internal/domain/entity"
)

type RunRequest struct {
	Goal    string
	Product string
}

type RunResult struct {
	RunID    string
	Goal     string
	Product  string
	Result   entity.PriceResult
	Duration time.Duration
}

// TaskRunner runs the price check once, in its own browser session.
type TaskRunner interface {
	Run(ctx context.Context, req RunRequest) *RunResult
}

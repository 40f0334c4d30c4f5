package driver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"browser-task/internal/application/port/output"
	"browser-task/internal/domain/entity"
)

func classify(err error) entity.ErrorKind {
	switch {
	case err == nil:
		return entity.KindUnknown
	case errors.Is(err, output.ErrElementNotFound):
		return entity.KindElementNotFound
	case errors.Is(err, output.ErrNavigation):
		return entity.KindNavigationError
	case errors.Is(err, output.ErrNotVisible), errors.Is(err, context.DeadlineExceeded):
		return entity.KindTimeout
	default:
		return entity.KindUnknown
	}
}

func validateSelector(selector string) error {
	if strings.TrimSpace(selector) == "" {
		return errors.New("selector must not be empty")
	}
	return nil
}

func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("url must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("malformed url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url has no host")
	}
	return nil
}

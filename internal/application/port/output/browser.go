package output

import (
	"context"
	"errors"

	"browser-task/internal/domain/entity"
)

// Failure signals reported by a BrowserPort. Implementations wrap them so the
// driver can classify errors with errors.Is. A context deadline is reported as
// context.DeadlineExceeded.
var (
	ErrElementNotFound = errors.New("element not found")
	ErrNotVisible      = errors.New("element not visible")
	ErrNavigation      = errors.New("navigation failed")
	ErrSessionClosed   = errors.New("browser session closed")
)

// BrowserPort is one opened browser session.
type BrowserPort interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, text string) error
	Text(ctx context.Context, selector string) (string, error)

	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	HTML(ctx context.Context) (string, error)

	CurrentURL() string
	Close() error
}

// BrowserFactory opens independent sessions. Sessions are never shared.
type BrowserFactory interface {
	Open(ctx context.Context) (BrowserPort, error)
}

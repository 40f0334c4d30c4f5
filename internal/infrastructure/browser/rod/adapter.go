package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"browser-task/internal/application/port/output"
	"browser-task/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var (
	_ output.BrowserPort    = (*BrowserAdapter)(nil)
	_ output.BrowserFactory = (*Factory)(nil)
)

const (
	defaultScreenshotMaxWidth = 1024
	defaultScreenshotQuality  = 80
	presenceCheckTimeout      = 2 * time.Second
)

type BrowserConfig struct {
	Headless           bool
	Bin                string
	NoSandbox          bool
	SlowMotion         time.Duration
	Trace              bool
	ScreenshotMaxWidth int
	ScreenshotQuality  int
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:           true,
		NoSandbox:          false,
		ScreenshotMaxWidth: defaultScreenshotMaxWidth,
		ScreenshotQuality:  defaultScreenshotQuality,
	}
}

// Factory launches a dedicated browser process per session.
type Factory struct {
	cfg BrowserConfig
}

func NewFactory(cfg BrowserConfig) *Factory {
	return &Factory{cfg: cfg}
}

func (f *Factory) Open(ctx context.Context) (output.BrowserPort, error) {
	return NewBrowserAdapter(ctx, f.cfg)
}

type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	cfg      BrowserConfig

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg.ScreenshotMaxWidth <= 0 {
		cfg.ScreenshotMaxWidth = defaultScreenshotMaxWidth
	}
	if cfg.ScreenshotQuality <= 0 || cfg.ScreenshotQuality > 100 {
		cfg.ScreenshotQuality = defaultScreenshotQuality
	}

	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(controlURL).
		Trace(cfg.Trace).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		cfg:      cfg,
	}, nil
}

// Navigate waits for the load event and treats HTTP status >= 400 as a
// navigation failure.
func (b *BrowserAdapter) Navigate(ctx context.Context, url string) error {
	if b.closed.Load() {
		return output.ErrSessionClosed
	}

	page := b.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		var navErr *rod.NavigationError
		if errors.As(err, &navErr) {
			return fmt.Errorf("%w: %s", output.ErrNavigation, navErr.Reason)
		}
		return fmt.Errorf("navigate %s: %w", url, err)
	}

	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}

	status, err := responseStatus(page)
	if err == nil && status >= 400 {
		return fmt.Errorf("%w: HTTP %d at %s", output.ErrNavigation, status, url)
	}
	return nil
}

func (b *BrowserAdapter) Click(ctx context.Context, selector string) error {
	el, err := b.visibleElement(ctx, selector)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

func (b *BrowserAdapter) Fill(ctx context.Context, selector, text string) error {
	el, err := b.visibleElement(ctx, selector)
	if err != nil {
		return err
	}

	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}

	if err := el.Input(text); err != nil {
		return fmt.Errorf("input %s: %w", selector, err)
	}
	return nil
}

// Text returns the displayed text, or the value for input and textarea.
func (b *BrowserAdapter) Text(ctx context.Context, selector string) (string, error) {
	el, err := b.visibleElement(ctx, selector)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("read text %s: %w", selector, err)
	}
	return text, nil
}

func (b *BrowserAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	if b.closed.Load() {
		return nil, output.ErrSessionClosed
	}

	imgBytes, err := b.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(b.cfg.ScreenshotQuality),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > b.cfg.ScreenshotMaxWidth {
		img = imaging.Resize(img, b.cfg.ScreenshotMaxWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: b.cfg.ScreenshotQuality}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (b *BrowserAdapter) HTML(ctx context.Context) (string, error) {
	if b.closed.Load() {
		return "", output.ErrSessionClosed
	}
	html, err := b.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return html, nil
}

func (b *BrowserAdapter) CurrentURL() string {
	if b.closed.Load() {
		return ""
	}
	info, err := b.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// Close shuts the browser down and kills its process. Safe to call twice.
func (b *BrowserAdapter) Close() error {
	b.closeOnce.Do(func() {
		b.closed.Store(true)
		if b.browser != nil {
			b.closeErr = b.browser.Close()
		}
		if b.launcher != nil {
			b.launcher.Kill()
			b.launcher.Cleanup()
		}
	})
	return b.closeErr
}

func (b *BrowserAdapter) visibleElement(ctx context.Context, selector string) (*rod.Element, error) {
	el, err := b.element(ctx, selector)
	if err != nil {
		return nil, err
	}
	if err := el.WaitVisible(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", output.ErrNotVisible, selector, err)
	}
	return el, nil
}

// element waits for selector until ctx expires. When the wait times out it
// checks once more without waiting, so an absent element is reported as
// ErrElementNotFound rather than a bare deadline.
func (b *BrowserAdapter) element(ctx context.Context, selector string) (*rod.Element, error) {
	if b.closed.Load() {
		return nil, output.ErrSessionClosed
	}

	page := b.page.Context(ctx)

	var (
		el  *rod.Element
		err error
	)
	if isXPath(selector) {
		el, err = page.ElementX(selector)
	} else {
		el, err = page.Element(selector)
	}
	if err == nil {
		return el, nil
	}

	if ctx.Err() != nil {
		if present, perr := b.has(selector); perr == nil && !present {
			return nil, fmt.Errorf("%w: %s: %w", output.ErrElementNotFound, selector, err)
		}
	}
	return nil, fmt.Errorf("query %s: %w", selector, err)
}

func (b *BrowserAdapter) has(selector string) (bool, error) {
	page := b.page.Timeout(presenceCheckTimeout)
	defer page.CancelTimeout()

	var (
		present bool
		err     error
	)
	if isXPath(selector) {
		present, _, err = page.HasX(selector)
	} else {
		present, _, err = page.Has(selector)
	}
	return present, err
}

func isXPath(selector string) bool {
	return strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(")
}

func responseStatus(page *rod.Page) (int, error) {
	res, err := page.Eval(`() => {
		const entry = performance.getEntriesByType('navigation')[0];
		return entry && entry.responseStatus ? entry.responseStatus : 0;
	}`)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

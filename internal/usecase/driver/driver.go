package driver

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"browser-task/internal/application/port/output"
	"browser-task/internal/domain/entity"
)

const (
	diagnosticsTimeout = 10 * time.Second
	// An operation that outlives its attempt deadline gets this long to report
	// its own failure signal before the attempt is abandoned as a timeout.
	abandonGrace = 2 * time.Second
	// Close waits at most this long for abandoned operations to return.
	closeDrain = 5 * time.Second
)

type Deps struct {
	Artifacts output.ArtifactStore
	Logger    output.LoggerPort
	Metrics   output.MetricsPort
}

// Driver wraps one browser session with retrying, diagnosable actions.
// It owns the session: Close releases it exactly once, and every action on a
// closed Driver fails without reaching the browser.
type Driver struct {
	browser   output.BrowserPort
	policy    entity.RetryPolicy
	artifacts output.ArtifactStore
	logger    output.LoggerPort
	metrics   output.MetricsPort
	grace     time.Duration
	drain     time.Duration

	opsMu   sync.Mutex
	ops     int
	opsIdle chan struct{}

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Open acquires a new session from factory. Callers must defer Close.
func Open(ctx context.Context, factory output.BrowserFactory, policy entity.RetryPolicy, deps Deps) (*Driver, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retry policy: %w", err)
	}

	browser, err := factory.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open browser session: %w", err)
	}

	return New(browser, policy, deps), nil
}

func New(browser output.BrowserPort, policy entity.RetryPolicy, deps Deps) *Driver {
	return &Driver{
		browser:   browser,
		policy:    policy,
		artifacts: deps.Artifacts,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		grace:     abandonGrace,
		drain:     closeDrain,
	}
}

func (d *Driver) Close() error {
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		if !d.waitIdle(d.drain) {
			d.logger.Warn("Closing browser with operations still running", "waited", d.drain)
		}
		d.closeErr = d.browser.Close()
		if d.closeErr != nil {
			d.logger.Warn("Browser session close failed", "error", d.closeErr)
			return
		}
		d.logger.Debug("Browser session closed")
	})
	return d.closeErr
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := validateURL(url); err != nil {
		return d.invalid(entity.ActionNavigate, url, err)
	}
	_, err := d.run(ctx, entity.ActionNavigate, url, func(ctx context.Context) (string, error) {
		return "", d.browser.Navigate(ctx, url)
	})
	return err
}

func (d *Driver) Click(ctx context.Context, selector string) error {
	if err := validateSelector(selector); err != nil {
		return d.invalid(entity.ActionClick, selector, err)
	}
	_, err := d.run(ctx, entity.ActionClick, selector, func(ctx context.Context) (string, error) {
		return "", d.browser.Click(ctx, selector)
	})
	return err
}

func (d *Driver) TypeText(ctx context.Context, selector, text string) error {
	if err := validateSelector(selector); err != nil {
		return d.invalid(entity.ActionTypeText, selector, err)
	}
	_, err := d.run(ctx, entity.ActionTypeText, selector, func(ctx context.Context) (string, error) {
		return "", d.browser.Fill(ctx, selector, text)
	})
	return err
}

func (d *Driver) ReadText(ctx context.Context, selector string) (string, error) {
	if err := validateSelector(selector); err != nil {
		return "", d.invalid(entity.ActionReadText, selector, err)
	}
	return d.run(ctx, entity.ActionReadText, selector, func(ctx context.Context) (string, error) {
		return d.browser.Text(ctx, selector)
	})
}

// CurrentURL reports where the session is, or "" once the driver is closed.
func (d *Driver) CurrentURL() string {
	if d.closed.Load() {
		return ""
	}
	return d.browser.CurrentURL()
}

func (d *Driver) invalid(action entity.Action, target string, cause error) error {
	d.observe(action, entity.KindInvalidInput.String())
	d.logger.Warn("Action rejected", "action", action.String(), "target", target, "error", cause)
	return entity.NewActionError(entity.KindInvalidInput, fmt.Sprintf("%s %q: %v", action, target, cause), cause)
}

func (d *Driver) run(ctx context.Context, action entity.Action, target string, op func(context.Context) (string, error)) (string, error) {
	if d.closed.Load() {
		return "", entity.NewActionError(entity.KindUnknown, fmt.Sprintf("%s %q", action, target), output.ErrSessionClosed)
	}

	log := d.logger.WithFields(map[string]any{
		"action": action.String(),
		"target": target,
	})

	maxAttempts := max(d.policy.MaxAttempts, 1)
	var (
		lastErr error
		made    int
	)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		made = attempt
		start := time.Now()

		value, err := d.attempt(ctx, op)
		if err == nil {
			d.observe(action, entity.OutcomeSuccess)
			log.Debug("Action succeeded", "attempt", attempt, "duration_ms", time.Since(start).Milliseconds())
			return value, nil
		}

		lastErr = err
		kind := classify(err)
		d.observe(action, kind.String())
		log.Warn("Action attempt failed",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"kind", kind.String(),
			"error", err,
		)

		if ctx.Err() != nil || attempt == maxAttempts {
			break
		}
		if err := sleep(ctx, d.policy.Backoff); err != nil {
			break
		}
	}

	actionErr := entity.NewActionError(
		classify(lastErr),
		fmt.Sprintf("%s %q failed after %d attempt(s)", action, target, made),
		lastErr,
	)
	if path := d.captureDiagnostics(ctx, action, target); path != "" {
		actionErr = actionErr.WithArtifact(path)
	}

	log.Error("Action failed", "kind", actionErr.Kind.String(), "attempts", made, "artifact", actionErr.Artifact, "error", lastErr)
	return "", actionErr
}

type attemptResult struct {
	value string
	err   error
}

// attempt bounds op by the per-attempt timeout even if op ignores its context.
// An abandoned op keeps running on the session until it returns, possibly
// alongside the next attempt or the failure diagnostics. Close waits for such
// ops, up to the drain timeout, before releasing the session.
func (d *Driver) attempt(ctx context.Context, op func(context.Context) (string, error)) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, d.policy.Timeout)
	defer cancel()

	done := make(chan attemptResult, 1)
	finished := d.track()
	go func() {
		defer finished()
		defer func() {
			if r := recover(); r != nil {
				done <- attemptResult{err: fmt.Errorf("browser operation panicked: %v", r)}
			}
		}()
		value, err := op(attemptCtx)
		done <- attemptResult{value: value, err: err}
	}()

	select {
	case res := <-done:
		return res.value, res.err
	case <-attemptCtx.Done():
	}

	grace := time.NewTimer(d.grace)
	defer grace.Stop()
	select {
	case res := <-done:
		return res.value, res.err
	case <-grace.C:
		return "", fmt.Errorf("attempt abandoned: %w", attemptCtx.Err())
	}
}

// track counts a running browser operation; the returned func marks it done.
func (d *Driver) track() func() {
	d.opsMu.Lock()
	d.ops++
	d.opsMu.Unlock()

	return func() {
		d.opsMu.Lock()
		defer d.opsMu.Unlock()
		d.ops--
		if d.ops == 0 && d.opsIdle != nil {
			close(d.opsIdle)
			d.opsIdle = nil
		}
	}
}

// waitIdle reports whether all tracked operations returned within timeout.
func (d *Driver) waitIdle(timeout time.Duration) bool {
	d.opsMu.Lock()
	if d.ops == 0 {
		d.opsMu.Unlock()
		return true
	}
	if d.opsIdle == nil {
		d.opsIdle = make(chan struct{})
	}
	idle := d.opsIdle
	d.opsMu.Unlock()

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-idle:
		return true
	case <-t.C:
		return false
	}
}

func (d *Driver) captureDiagnostics(ctx context.Context, action entity.Action, target string) string {
	if d.artifacts == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), diagnosticsTimeout)
	defer cancel()

	name := fmt.Sprintf("%s_error_%s", action, target)

	var path string
	shot, err := d.browser.Screenshot(ctx)
	if err != nil {
		d.logger.Warn("Screenshot capture failed", "action", action.String(), "error", err)
	} else if path, err = d.artifacts.SaveScreenshot(name, shot); err != nil {
		d.logger.Warn("Screenshot write failed", "action", action.String(), "error", err)
		path = ""
	} else {
		d.logger.Info("Saved screenshot", "path", path)
	}

	html, err := d.browser.HTML(ctx)
	if err != nil {
		d.logger.Debug("DOM snapshot unavailable", "error", err)
		return path
	}
	if snapshot, err := d.artifacts.SaveSnapshot(name, html); err != nil {
		d.logger.Warn("DOM snapshot write failed", "error", err)
	} else {
		d.logger.Debug("Saved DOM snapshot", "path", snapshot)
	}

	return path
}

func (d *Driver) observe(action entity.Action, outcome string) {
	if d.metrics != nil {
		d.metrics.ObserveAttempt(action.String(), outcome)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package driver

import (
	"context"
	"errors"
	"sync"
	"time"

	"browser-task/internal/application/port/output"
	"browser-task/internal/domain/entity"
)

type fakeBrowser struct {
	mu sync.Mutex

	navigate func(ctx context.Context, url string) error
	click    func(ctx context.Context, selector string) error

	fields     map[string]string
	url        string
	calls      map[string]int
	closeCalls int
	shotErr    error
	htmlErr    error
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{
		fields: make(map[string]string),
		calls:  make(map[string]int),
	}
}

func (f *fakeBrowser) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeBrowser) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBrowser) Navigate(ctx context.Context, url string) error {
	f.count("navigate")
	if f.navigate != nil {
		if err := f.navigate(ctx, url); err != nil {
			return err
		}
	}
	f.mu.Lock()
	f.url = url
	f.mu.Unlock()
	return nil
}

func (f *fakeBrowser) Click(ctx context.Context, selector string) error {
	f.count("click")
	if f.click != nil {
		return f.click(ctx, selector)
	}
	return nil
}

func (f *fakeBrowser) Fill(ctx context.Context, selector, text string) error {
	f.count("fill")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields[selector] = text
	return nil
}

func (f *fakeBrowser) Text(ctx context.Context, selector string) (string, error) {
	f.count("text")
	f.mu.Lock()
	defer f.mu.Unlock()
	text, ok := f.fields[selector]
	if !ok {
		return "", output.ErrElementNotFound
	}
	return text, nil
}

func (f *fakeBrowser) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	f.count("screenshot")
	if f.shotErr != nil {
		return nil, f.shotErr
	}
	return &entity.Screenshot{Data: []byte{0xff}, Format: "png", Width: 1, Height: 1}, nil
}

func (f *fakeBrowser) HTML(ctx context.Context) (string, error) {
	f.count("html")
	if f.htmlErr != nil {
		return "", f.htmlErr
	}
	return "<html><body>page</body></html>", nil
}

func (f *fakeBrowser) CurrentURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.url
}

func (f *fakeBrowser) CloseCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeCalls
}

func (f *fakeBrowser) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCalls++
	return nil
}

type fakeFactory struct {
	browser *fakeBrowser
	err     error
}

func (f *fakeFactory) Open(ctx context.Context) (output.BrowserPort, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.browser, nil
}

type fakeArtifacts struct {
	mu          sync.Mutex
	screenshots []string
	snapshots   []string
	err         error
}

func (a *fakeArtifacts) SaveScreenshot(name string, shot *entity.Screenshot) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return "", a.err
	}
	path := "screenshots/" + name + ".png"
	a.screenshots = append(a.screenshots, path)
	return path, nil
}

func (a *fakeArtifacts) SaveSnapshot(name string, html string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return "", a.err
	}
	path := "screenshots/" + name + ".html"
	a.snapshots = append(a.snapshots, path)
	return path, nil
}

type fakeMetrics struct {
	mu       sync.Mutex
	attempts map[string]int
}

func (m *fakeMetrics) ObserveAttempt(action, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attempts == nil {
		m.attempts = make(map[string]int)
	}
	m.attempts[action+"/"+outcome]++
}

func (m *fakeMetrics) ObserveRun(outcome string, duration time.Duration) {}

func (m *fakeMetrics) Count(action, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts[action+"/"+outcome]
}

var errBoom = errors.New("boom")

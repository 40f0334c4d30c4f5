package httpapi

import (
	"context"
	"sync"

	"browser-task/internal/application/port/input"
	"browser-task/internal/domain/entity"

	"github.com/shopspring/decimal"
)

type fakeRunner struct {
	mu      sync.Mutex
	calls   []input.RunRequest
	started chan struct{}
	release chan struct{}
	result  entity.PriceResult
}

func newFakeRunner(result entity.PriceResult) *fakeRunner {
	return &fakeRunner{
		started: make(chan struct{}, 16),
		result:  result,
	}
}

func (f *fakeRunner) Run(ctx context.Context, req input.RunRequest) *input.RunResult {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	f.started <- struct{}{}

	result := f.result
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			result = entity.Failure[decimal.Decimal](entity.NewActionError(entity.KindTimeout, "run cancelled", ctx.Err()))
		}
	}

	return &input.RunResult{
		RunID:   "run-1",
		Goal:    req.Goal,
		Product: req.Product,
		Result:  result,
	}
}

func (f *fakeRunner) Calls() []input.RunRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]input.RunRequest(nil), f.calls...)
}

func successResult(price string) entity.PriceResult {
	return entity.Success(decimal.RequireFromString(price))
}

func failureResult(kind entity.ErrorKind, message string) entity.PriceResult {
	return entity.Failure[decimal.Decimal](entity.NewActionError(kind, message, nil))
}

var runRequestFixture = input.RunRequest{Goal: "fixture"}

package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"browser-task/internal/domain/entity"
	"browser-task/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, runner *fakeRunner, metrics http.Handler) (*httptest.Server, *RunQueue) {
	t.Helper()
	q := NewRunQueue(runner, 1, 2, logger.NewNop())
	require.NoError(t, q.Start())

	srv := httptest.NewServer(NewRouter(NewHandlers(q, logger.NewNop()), metrics))
	t.Cleanup(func() {
		srv.Close()
		q.Stop(context.Background())
	})
	return srv, q
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url+"/run", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	return resp, decoded
}

func TestHandlers_Run_Success(t *testing.T) {
	runner := newFakeRunner(successResult("29.99"))
	srv, _ := newTestServer(t, runner, nil)

	resp, body := post(t, srv.URL, `{"goal":"find the backpack price","product":"Sauce Labs Backpack"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 29.99, body["price"])
	assert.Equal(t, "find the backpack price", body["goal"])
	assert.Equal(t, "Sauce Labs Backpack", body["product"])
	assert.NotContains(t, body, "error")

	require.Len(t, runner.Calls(), 1)
	assert.Equal(t, "Sauce Labs Backpack", runner.Calls()[0].Product)
}

func TestHandlers_Run_EmptyBody(t *testing.T) {
	runner := newFakeRunner(successResult("29.99"))
	srv, _ := newTestServer(t, runner, nil)

	resp, body := post(t, srv.URL, "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
}

func TestHandlers_Run_Failures(t *testing.T) {
	tests := []struct {
		kind   entity.ErrorKind
		status int
	}{
		{entity.KindInvalidInput, http.StatusBadRequest},
		{entity.KindElementNotFound, http.StatusBadGateway},
		{entity.KindNavigationError, http.StatusBadGateway},
		{entity.KindParseError, http.StatusBadGateway},
		{entity.KindTimeout, http.StatusGatewayTimeout},
		{entity.KindUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			srv, _ := newTestServer(t, newFakeRunner(failureResult(tt.kind, "step failed")), nil)

			resp, body := post(t, srv.URL, `{"goal":"g"}`)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, false, body["success"])
			assert.NotContains(t, body, "price")
			require.IsType(t, map[string]any{}, body["error"])
			errBody := body["error"].(map[string]any)
			assert.Equal(t, tt.kind.String(), errBody["kind"])
			assert.Equal(t, "step failed", errBody["message"])
		})
	}
}

func TestHandlers_Run_MalformedBody(t *testing.T) {
	runner := newFakeRunner(successResult("29.99"))
	srv, _ := newTestServer(t, runner, nil)

	for _, body := range []string{`{"goal":`, `{"goal": 5}`, `{"unknown": true}`} {
		resp, decoded := post(t, srv.URL, body)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Equal(t, false, decoded["success"])
		assert.Equal(t, "InvalidInput", decoded["error"].(map[string]any)["kind"])
	}
	assert.Empty(t, runner.Calls())
}

func TestHandlers_Run_QueueFull(t *testing.T) {
	runner := newFakeRunner(successResult("29.99"))
	runner.release = make(chan struct{})
	srv, q := newTestServer(t, runner, nil)
	defer close(runner.release)

	// One running, two buffered.
	_, err := q.Submit(context.Background(), runRequestFixture)
	require.NoError(t, err)
	waitStarted(t, runner)
	for i := 0; i < 2; i++ {
		_, err := q.Submit(context.Background(), runRequestFixture)
		require.NoError(t, err)
	}

	resp, body := post(t, srv.URL, `{}`)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestHandlers_Health(t *testing.T) {
	srv, q := newTestServer(t, newFakeRunner(successResult("1")), nil)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, q.Stop(context.Background()))

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRouter_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "browser_task_runs_total 0\n")
	})
	srv, _ := newTestServer(t, newFakeRunner(successResult("1")), metrics)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "browser_task_runs_total")

	resp, err = http.Get(srv.URL + "/run")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"browser-task/internal/application/port/input"
	"browser-task/internal/application/port/output"
	"browser-task/internal/domain/entity"
)

const maxBodyBytes = 1 << 16

type Handlers struct {
	queue  *RunQueue
	logger output.LoggerPort
}

func NewHandlers(queue *RunQueue, logger output.LoggerPort) *Handlers {
	return &Handlers{queue: queue, logger: logger}
}

// Run handles POST /run. The body is optional; an empty body runs the
// configured product.
func (h *Handlers) Run(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse(entity.KindInvalidInput, fmt.Sprintf("invalid request body: %v", err)))
		return
	}

	results, err := h.queue.Submit(r.Context(), input.RunRequest{Goal: body.Goal, Product: body.Product})
	if err != nil {
		h.logger.Warn("Run rejected", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse(entity.KindUnknown, err.Error()))
		return
	}

	select {
	case res := <-results:
		writeJSON(w, statusFor(res), newRunResponse(res))
	case <-r.Context().Done():
		h.logger.Info("Client went away before run completed", "error", r.Context().Err())
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	state := "ok"
	if !h.queue.IsRunning() {
		status = http.StatusServiceUnavailable
		state = "stopping"
	}
	writeJSON(w, status, map[string]any{
		"status": state,
		"queued": h.queue.Len(),
	})
}

func statusFor(res *input.RunResult) int {
	if res.Result.OK() {
		return http.StatusOK
	}
	switch res.Result.Err().Kind {
	case entity.KindInvalidInput:
		return http.StatusBadRequest
	case entity.KindElementNotFound, entity.KindNavigationError, entity.KindParseError:
		return http.StatusBadGateway
	case entity.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

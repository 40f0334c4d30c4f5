package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"browser-task/internal/application/port/output"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

type Server struct {
	server *http.Server
	queue  *RunQueue
	logger output.LoggerPort
}

// NewServer wires the routes. metrics may be nil, in which case /metrics is
// not served.
func NewServer(addr string, queue *RunQueue, metrics http.Handler, logger output.LoggerPort) *Server {
	s := &Server{
		queue:  queue,
		logger: logger,
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           NewRouter(NewHandlers(queue, logger), metrics),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func NewRouter(h *Handlers, metrics http.Handler) http.Handler {
	accessLog := httplog.NewLogger("browser-task", httplog.Options{
		JSON:    true,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(accessLog))
	r.Use(middleware.Recoverer)

	r.Post("/run", h.Run)
	r.Get("/healthz", h.Health)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
	return r
}

// Start runs the queue and blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	if err := s.queue.Start(); err != nil {
		return fmt.Errorf("failed to start run queue: %w", err)
	}

	s.logger.Info("HTTP server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections, then drains the run queue.
func (s *Server) Shutdown(ctx context.Context) error {
	httpErr := s.server.Shutdown(ctx)
	queueErr := s.queue.Stop(ctx)
	if errors.Is(queueErr, ErrQueueNotRunning) {
		queueErr = nil
	}
	return errors.Join(httpErr, queueErr)
}

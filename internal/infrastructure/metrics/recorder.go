package metrics

import (
	"net/http"
	"time"

	"browser-task/internal/application/port/output"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "browser_task"

var _ output.MetricsPort = (*Recorder)(nil)

// Recorder exports driver attempts and task runs to Prometheus.
type Recorder struct {
	registry *prometheus.Registry
	attempts *prometheus.CounterVec
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "action_attempts_total",
			Help:      "Browser action attempts by action and outcome.",
		}, []string{"action", "outcome"}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed task runs by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a task run, browser launch included.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}),
	}
}

func (r *Recorder) ObserveAttempt(action, outcome string) {
	r.attempts.WithLabelValues(action, outcome).Inc()
}

func (r *Recorder) ObserveRun(outcome string, d time.Duration) {
	r.runs.WithLabelValues(outcome).Inc()
	r.duration.Observe(d.Seconds())
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

package output

import "time"

type MetricsPort interface {
	ObserveAttempt(action, outcome string)
	ObserveRun(outcome string, duration time.Duration)
}

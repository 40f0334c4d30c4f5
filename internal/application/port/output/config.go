package output

import "time"

type ConfigPort interface {
	Get(key string) string
	Lookup(key string) (string, bool)
	GetBool(key string, defaultValue bool) bool
	GetInt(key string, defaultValue int) int
	GetDuration(key string, defaultValue time.Duration) time.Duration
}

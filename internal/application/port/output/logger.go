package output

// LoggerPort is a structured logger. args are alternating key/value pairs:
//
//	logger.Info("Saved screenshot", "path", path)
type LoggerPort interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	WithField(key string, value any) LoggerPort
	WithFields(fields map[string]any) LoggerPort

	// Close flushes buffered entries and releases the log file, if any.
	Close() error
}

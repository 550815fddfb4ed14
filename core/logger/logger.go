package logger

// Logger exposes logging methods for common severity levels. The scheduler and
// the infra adapters receive it by injection so tests can swap in a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

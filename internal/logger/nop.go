package logger

// NoOpLogger is a logger that discards all log messages. It is useful in
// tests and as a safe default before the real logger is constructed.
type NoOpLogger struct{}

// NewNop returns a no-op Logger.
func NewNop() Logger {
	return &NoOpLogger{}
}

// Debug implements Logger.
func (n *NoOpLogger) Debug(msg string, fields ...Field) {}

// Info implements Logger.
func (n *NoOpLogger) Info(msg string, fields ...Field) {}

// Warn implements Logger.
func (n *NoOpLogger) Warn(msg string, fields ...Field) {}

// Error implements Logger.
func (n *NoOpLogger) Error(msg string, fields ...Field) {}

// Fatal implements Logger.
func (n *NoOpLogger) Fatal(msg string, fields ...Field) {}

// With implements Logger.
func (n *NoOpLogger) With(fields ...Field) Logger { return n }

// Sync implements Logger.
func (n *NoOpLogger) Sync() error { return nil }

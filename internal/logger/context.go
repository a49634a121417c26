package logger

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// loggerKey is the context key for request-scoped loggers. Unexported type
// so other packages cannot collide with it.
type loggerKey struct{}

// fallback is the shared logger handed out when a context carries none:
// warn-level, stderr, built on first use.
var fallback = sync.OnceValue(func() Logger {
	l, err := New(Config{Level: "warn", OutputPaths: []string{"stderr"}})
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to create fallback logger: %v\n", err)
		return NewNop()
	}
	return l
})

// WithContext stores l in ctx for retrieval by FromContext.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger carried by ctx. When none is present it
// returns the shared warn-level stderr logger, so dropped errors still
// reach an operator. Background goroutines and startup code should be
// handed a logger explicitly instead of relying on this.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return l
	}
	return fallback()
}

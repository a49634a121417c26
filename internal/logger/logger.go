// Package logger is the service-wide structured logging layer: a small
// interface over zap so call sites never import the backend directly.
package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface the rest of the service programs against.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// Fatal logs and then exits the process.
	Fatal(msg string, fields ...Field)
	// With returns a child logger that attaches fields to every entry.
	With(fields ...Field) Logger
	// Sync flushes buffered entries; call it before process exit.
	Sync() error
}

// Field is an alias for zap.Field so call sites only import this package.
type Field = zap.Field

// Sampling bounds for the production core, mirroring zap's defaults.
const (
	sampleFirst      = 100
	sampleThereafter = 100
)

type zapLogger struct {
	z *zap.Logger
}

// New builds a Logger from cfg. A zero Config yields an info-level JSON
// logger writing to stdout.
func New(cfg Config) (Logger, error) {
	cfg.SetDefaults()

	sink, _, err := zap.Open(cfg.OutputPaths...)
	if err != nil {
		return nil, fmt.Errorf("open log outputs: %w", err)
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), sink, parseLevel(cfg.Level))
	if !cfg.Development {
		// Sample repeated entries in production so a hot loop cannot
		// flood the sink; development keeps every entry.
		core = zapcore.NewSamplerWithOptions(core, time.Second, sampleFirst, sampleThereafter)
	}

	z := zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1), // report the call site, not this wrapper
		zap.AddStacktrace(zapcore.ErrorLevel),
	)

	return &zapLogger{z: z}, nil
}

// Must builds a Logger or exits. For process startup, where running without
// logging is worse than not running.
func Must(cfg Config) Logger {
	l, err := New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return l
}

func newEncoder(format string) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder

	if format == FormatConsole {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encCfg)
	}
	return zapcore.NewJSONEncoder(encCfg)
}

func parseLevel(level string) zapcore.Level {
	s := strings.ToLower(level)
	if s == "warning" {
		s = "warn"
	}
	parsed, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return parsed
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, fields...) }
func (l *zapLogger) Fatal(msg string, fields ...Field) { l.z.Fatal(msg, fields...) }

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{z: l.z.With(fields...)}
}

func (l *zapLogger) Sync() error {
	return l.z.Sync()
}

// Typed field constructors, re-exported so call sites stay backend-free.

// String constructs a string-valued field.
func String(key, val string) Field { return zap.String(key, val) }

// Strings constructs a string-slice field.
func Strings(key string, val []string) Field { return zap.Strings(key, val) }

// Int constructs an int field.
func Int(key string, val int) Field { return zap.Int(key, val) }

// Int64 constructs an int64 field.
func Int64(key string, val int64) Field { return zap.Int64(key, val) }

// Float64 constructs a float64 field.
func Float64(key string, val float64) Field { return zap.Float64(key, val) }

// Bool constructs a bool field.
func Bool(key string, val bool) Field { return zap.Bool(key, val) }

// Duration constructs a duration field.
func Duration(key string, val time.Duration) Field { return zap.Duration(key, val) }

// Time constructs a time field.
func Time(key string, val time.Time) Field { return zap.Time(key, val) }

// Error constructs a field holding err under the "error" key.
func Error(err error) Field { return zap.Error(err) }

// Any constructs a field holding an arbitrary value.
func Any(key string, val any) Field { return zap.Any(key, val) }

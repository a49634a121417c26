package logger

// Output formats.
const (
	// FormatJSON emits one JSON object per log entry.
	FormatJSON = "json"
	// FormatConsole emits human-readable colored output for local development.
	FormatConsole = "console"
)

// Config selects level, encoding and sinks for a logger.
type Config struct {
	// Level names the minimum severity to emit: debug, info, warn, error
	// or fatal. Unknown values fall back to info.
	Level string `env:"LOG_LEVEL" yaml:"level"`
	// Format picks the encoding, FormatJSON or FormatConsole.
	Format string `env:"LOG_FORMAT" yaml:"format"`
	// Development disables sampling so every entry is written.
	Development bool `yaml:"development"`
	// OutputPaths lists zap sink URLs; file paths and "stdout"/"stderr"
	// work as-is.
	OutputPaths []string `yaml:"output_paths"`
}

const (
	DefaultLevel  = "info"
	DefaultFormat = FormatJSON
)

var DefaultOutputPaths = []string{"stdout"}

// SetDefaults fills unset fields with production defaults.
func (c *Config) SetDefaults() {
	if c.Level == "" {
		c.Level = DefaultLevel
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if len(c.OutputPaths) == 0 {
		c.OutputPaths = DefaultOutputPaths
	}
}

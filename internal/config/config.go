package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultServiceName        = "analyzer"
	defaultServiceVersion     = "1.0.0"
	defaultServicePort        = 8080
	defaultConcurrency        = 10
	defaultBatchLimit         = 100
	defaultInferenceProvider  = "sidecar"
	defaultSidecarURL         = "http://sentiment-ml:8090"
	defaultInferenceTimeoutMS = 5000
	defaultMaxInputChars      = 512
	defaultInferenceRPS       = 10
	defaultInferenceBurst     = 20
	defaultAnthropicModel     = "claude-3-5-haiku-latest"
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBUser             = "postgres"
	defaultDBName             = "analyzer"
	defaultDBSSLMode          = "disable"
	defaultDBMaxConns         = 25
	defaultDBMaxIdleConns     = 5
	defaultESURL              = "http://localhost:9200"
	defaultESMaxRetries       = 3
	defaultESTimeoutSec       = 30
	defaultESIndex            = "analysis_results"
	defaultRedisURL           = "localhost:6379"
	defaultRedisMaxRetries    = 3
	defaultRedisTimeoutSec    = 5
	defaultShareTTLHours      = 720
	defaultLogLevel           = "info"
	defaultLogFormat          = "json"
)

// Config holds all configuration for the analyzer service.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	Inference     InferenceConfig     `yaml:"inference"`
	Database      DatabaseConfig      `yaml:"database"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Redis         RedisConfig         `yaml:"redis"`
	Logging       LoggingConfig       `yaml:"logging"`
	Auth          AuthConfig          `yaml:"auth"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Port        int    `env:"PORT"                 yaml:"port"`
	Debug       bool   `env:"APP_DEBUG"            yaml:"debug"`
	Concurrency int    `env:"ANALYZER_CONCURRENCY" yaml:"concurrency"`
	BatchLimit  int    `yaml:"batch_limit"`
	PublicURL   string `env:"PUBLIC_BASE_URL"      yaml:"public_url"`
}

// InferenceConfig holds settings for the model-backed analysis path.
// Provider selects the backend: "sidecar", "anthropic" or "none".
type InferenceConfig struct {
	Provider          string        `env:"INFERENCE_PROVIDER" yaml:"provider"`
	SidecarURL        string        `env:"SENTIMENT_ML_URL"   yaml:"sidecar_url"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxInputChars     int           `yaml:"max_input_chars"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	AnthropicAPIKey   string        `env:"ANTHROPIC_API_KEY"  yaml:"anthropic_api_key"`
	AnthropicModel    string        `env:"ANTHROPIC_MODEL"    yaml:"anthropic_model"`
}

// DatabaseConfig holds database configuration for the history store.
type DatabaseConfig struct {
	Enabled         bool          `env:"POSTGRES_ENABLED"  yaml:"enabled"`
	Host            string        `env:"POSTGRES_HOST"     yaml:"host"`
	Port            int           `env:"POSTGRES_PORT"     yaml:"port"`
	User            string        `env:"POSTGRES_USER"     yaml:"user"`
	Password        string        `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database        string        `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode         string        `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// ElasticsearchConfig holds Elasticsearch configuration for the result archive.
type ElasticsearchConfig struct {
	Enabled    bool          `env:"ELASTICSEARCH_ENABLED" yaml:"enabled"`
	URL        string        `env:"ELASTICSEARCH_URL"     yaml:"url"`
	Username   string        `yaml:"username"`
	Password   string        `yaml:"password"`
	MaxRetries int           `yaml:"max_retries"`
	Timeout    time.Duration `yaml:"timeout"`
	Index      string        `yaml:"index"`
}

// RedisConfig holds Redis configuration for the share-link store.
type RedisConfig struct {
	Enabled    bool          `env:"REDIS_ENABLED"  yaml:"enabled"`
	URL        string        `env:"REDIS_URL"      yaml:"url"`
	Password   string        `env:"REDIS_PASSWORD" yaml:"password"`
	Database   int           `yaml:"database"`
	MaxRetries int           `yaml:"max_retries"`
	Timeout    time.Duration `yaml:"timeout"`
	ShareTTL   time.Duration `yaml:"share_ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
	Output string `yaml:"output"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
}

// SetDefaults applies default values to the config.
func SetDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setInferenceDefaults(&cfg.Inference)
	setDatabaseDefaults(&cfg.Database)
	setElasticsearchDefaults(&cfg.Elasticsearch)
	setRedisDefaults(&cfg.Redis)
	setLoggingDefaults(&cfg.Logging)
	// Auth defaults are handled by env tags - no explicit defaults needed
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.Concurrency == 0 {
		s.Concurrency = defaultConcurrency
	}
	if s.BatchLimit == 0 {
		s.BatchLimit = defaultBatchLimit
	}
	if s.PublicURL == "" {
		s.PublicURL = fmt.Sprintf("http://localhost:%d", s.Port)
	}
}

func setInferenceDefaults(i *InferenceConfig) {
	if i.Provider == "" {
		i.Provider = defaultInferenceProvider
	}
	if i.SidecarURL == "" {
		i.SidecarURL = defaultSidecarURL
	}
	if i.Timeout == 0 {
		i.Timeout = defaultInferenceTimeoutMS * time.Millisecond
	}
	if i.MaxInputChars == 0 {
		i.MaxInputChars = defaultMaxInputChars
	}
	if i.RequestsPerSecond == 0 {
		i.RequestsPerSecond = defaultInferenceRPS
	}
	if i.Burst == 0 {
		i.Burst = defaultInferenceBurst
	}
	if i.AnthropicModel == "" {
		i.AnthropicModel = defaultAnthropicModel
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == 0 {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = time.Hour
	}
}

func setElasticsearchDefaults(e *ElasticsearchConfig) {
	if e.URL == "" {
		e.URL = defaultESURL
	}
	if e.MaxRetries == 0 {
		e.MaxRetries = defaultESMaxRetries
	}
	if e.Timeout == 0 {
		e.Timeout = defaultESTimeoutSec * time.Second
	}
	if e.Index == "" {
		e.Index = defaultESIndex
	}
}

func setRedisDefaults(r *RedisConfig) {
	if r.URL == "" {
		r.URL = defaultRedisURL
	}
	if r.MaxRetries == 0 {
		r.MaxRetries = defaultRedisMaxRetries
	}
	if r.Timeout == 0 {
		r.Timeout = defaultRedisTimeoutSec * time.Second
	}
	if r.ShareTTL == 0 {
		r.ShareTTL = defaultShareTTLHours * time.Hour
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

package config

import (
	"errors"
	"fmt"
	"time"

	infraconfig "github.com/jonesrussell/north-cloud/negative-keywords/infrastructure/config"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/exporter"
)

const (
	defaultServerPort       = 8095
	defaultServerTimeout    = 30
	defaultLogLevel         = "info"
	defaultThreshold        = 80
	defaultMinThreshold     = 50
	defaultMaxThreshold     = 100
	defaultMaxUploadBytes   = 10 << 20
	defaultPreviewLimit     = 20
	defaultRedisAddress     = "localhost:6379"
	defaultRedisStream      = "negative-keyword-events"
	defaultConfigPath       = "config.yml"
	absoluteScoreLowerBound = 0
	absoluteScoreUpperBound = 100
)

type Config struct {
	Debug   bool          `env:"APP_DEBUG" yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Scoring ScoringConfig `yaml:"scoring"`
	Metrics MetricsConfig `yaml:"metrics"`
	Redis   RedisConfig   `yaml:"redis"`
}

type ServerConfig struct {
	Host         string        `env:"SERVER_HOST"  yaml:"host"`
	Port         int           `env:"SERVER_PORT"  yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" yaml:"level"`
}

// ScoringConfig bounds what operators may ask of a run.
type ScoringConfig struct {
	DefaultThreshold float64 `env:"SCORING_DEFAULT_THRESHOLD" yaml:"default_threshold"`
	MinThreshold     float64 `env:"SCORING_MIN_THRESHOLD"     yaml:"min_threshold"`
	MaxThreshold     float64 `env:"SCORING_MAX_THRESHOLD"     yaml:"max_threshold"`
	DefaultFormat    string  `env:"SCORING_DEFAULT_FORMAT"    yaml:"default_format"`
	MaxUploadBytes   int64   `env:"SCORING_MAX_UPLOAD_BYTES"  yaml:"max_upload_bytes"`
	// PreviewLimit caps the negatives echoed in API and CLI previews.
	PreviewLimit int `env:"SCORING_PREVIEW_LIMIT" yaml:"preview_limit"`
}

type MetricsConfig struct {
	Enabled bool `env:"METRICS_ENABLED" yaml:"enabled"`
}

// RedisConfig holds Redis connection configuration for run events.
type RedisConfig struct {
	Address  string `env:"REDIS_ADDRESS"        yaml:"address"`
	Password string `env:"REDIS_PASSWORD"       yaml:"password"`
	DB       int    `env:"REDIS_DB"             yaml:"db"`
	Enabled  bool   `env:"REDIS_EVENTS_ENABLED" yaml:"enabled"`
	Stream   string `env:"REDIS_EVENTS_STREAM"  yaml:"stream"`
}

// Format returns the parsed default output format.
func (s ScoringConfig) Format() exporter.Format {
	f, err := exporter.ParseFormat(s.DefaultFormat)
	if err != nil {
		return exporter.DefaultFormat
	}
	return f
}

func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host is required")
	}
	if err := infraconfig.ValidatePort("server.port", c.Server.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	if err := c.Scoring.validate(); err != nil {
		return err
	}
	if c.Redis.Enabled && c.Redis.Address == "" {
		return errors.New("redis.address is required when redis.enabled is set")
	}
	return nil
}

func (s ScoringConfig) validate() error {
	if err := infraconfig.ValidateRange("scoring.min_threshold", s.MinThreshold,
		absoluteScoreLowerBound, absoluteScoreUpperBound); err != nil {
		return err
	}
	if err := infraconfig.ValidateRange("scoring.max_threshold", s.MaxThreshold,
		s.MinThreshold, absoluteScoreUpperBound); err != nil {
		return err
	}
	if err := infraconfig.ValidateRange("scoring.default_threshold", s.DefaultThreshold,
		s.MinThreshold, s.MaxThreshold); err != nil {
		return err
	}
	if _, err := exporter.ParseFormat(s.DefaultFormat); err != nil {
		return &infraconfig.ValidationError{Field: "scoring.default_format", Message: err.Error()}
	}
	if s.MaxUploadBytes <= 0 {
		return &infraconfig.ValidationError{Field: "scoring.max_upload_bytes", Message: "must be positive"}
	}
	return nil
}

// Load reads path (or CONFIG_PATH), applies defaults and validates.
func Load(path string) (*Config, error) {
	if path == "" {
		path = infraconfig.GetConfigPath(defaultConfigPath)
	}

	cfg, err := infraconfig.LoadWithDefaults(path, SetDefaults)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	SetDefaults(cfg)
	return cfg
}

// SetDefaults fills unset fields.
func SetDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultServerTimeout * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultServerTimeout * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
	setScoringDefaults(&cfg.Scoring)
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	if cfg.Redis.Stream == "" {
		cfg.Redis.Stream = defaultRedisStream
	}
	// Redis.Enabled stays false unless set: events are opt-in.
}

func setScoringDefaults(s *ScoringConfig) {
	if s.MinThreshold == 0 {
		s.MinThreshold = defaultMinThreshold
	}
	if s.MaxThreshold == 0 {
		s.MaxThreshold = defaultMaxThreshold
	}
	if s.DefaultThreshold == 0 {
		s.DefaultThreshold = defaultThreshold
	}
	if s.DefaultFormat == "" {
		s.DefaultFormat = exporter.DefaultFormat.Extension()
	}
	if s.MaxUploadBytes == 0 {
		s.MaxUploadBytes = defaultMaxUploadBytes
	}
	if s.PreviewLimit == 0 {
		s.PreviewLimit = defaultPreviewLimit
	}
}

// Package config provides configuration loading and validation for docsight.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the docsight configuration. Every field is optional; ApplyDefaults fills the gaps
// and CLI flags override what the file sets.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Encoder   EncoderConfig   `yaml:"encoder"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Segmenter SegmenterConfig `yaml:"segmenter"`
	Database  DatabaseConfig  `yaml:"database"`
	Server    ServerConfig    `yaml:"server"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Env   string `yaml:"env"`   // prod, dev, local (default: local)
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// EncoderConfig selects the text encoder used for semantic similarity.
type EncoderConfig struct {
	Provider        string      `yaml:"provider"` // lexical, openai, gemini (default: lexical)
	Model           string      `yaml:"model"`
	BaseURL         string      `yaml:"base_url"`
	APIKey          string      `yaml:"api_key"`
	Dimensions      int         `yaml:"dimensions"`
	ProbeTimeoutSec int         `yaml:"probe_timeout_sec"`
	Cache           CacheConfig `yaml:"cache"`
}

// CacheConfig holds the Redis embedding cache settings. No addresses disables the cache.
type CacheConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLSec   int      `yaml:"ttl_sec"`
}

// AnalysisConfig bounds persona-mode requests.
type AnalysisConfig struct {
	MaxDocuments           int `yaml:"max_documents"`
	MaxPages               int `yaml:"max_pages"`
	MaxSectionsPerDocument int `yaml:"max_sections_per_document"`
	TopSections            int `yaml:"top_sections"`
	TopSubsections         int `yaml:"top_subsections"`
	DocumentTimeoutSec     int `yaml:"document_timeout_sec"` // 0 = no per-document deadline
	Workers                int `yaml:"workers"`
}

// SegmenterConfig tunes section boundary detection.
type SegmenterConfig struct {
	InstructionalMarkers []string `yaml:"instructional_markers"`
}

// DatabaseConfig holds the optional PostgreSQL connection.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"` // empty disables bearer auth
}

// Default returns a configuration with every default applied.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// LoadConfig reads a YAML configuration file, expanding ${VAR} and ${VAR:-default},
// then applies defaults and validates.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Logging.Env == "" {
		c.Logging.Env = "local"
	}
	if c.Encoder.Provider == "" {
		c.Encoder.Provider = "lexical"
	}
	if c.Encoder.ProbeTimeoutSec <= 0 {
		c.Encoder.ProbeTimeoutSec = 10
	}
	if c.Analysis.MaxDocuments <= 0 {
		c.Analysis.MaxDocuments = 50
	}
	if c.Analysis.MaxPages <= 0 {
		c.Analysis.MaxPages = 5
	}
	if c.Analysis.MaxSectionsPerDocument <= 0 {
		c.Analysis.MaxSectionsPerDocument = 10
	}
	if c.Analysis.TopSections <= 0 {
		c.Analysis.TopSections = 20
	}
	if c.Analysis.TopSubsections <= 0 {
		c.Analysis.TopSubsections = 10
	}
	if c.Analysis.Workers <= 0 {
		c.Analysis.Workers = 4
	}
	if len(c.Segmenter.InstructionalMarkers) == 0 {
		c.Segmenter.InstructionalMarkers = []string{"You can"}
	}
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch c.Logging.Env {
	case "", "prod", "dev", "local":
	default:
		return fmt.Errorf("config error: 'logging.env' must be prod, dev or local, got %q", c.Logging.Env)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config error: 'logging.level' must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Encoder.Provider {
	case "", "lexical", "openai", "gemini":
	default:
		return fmt.Errorf("config error: 'encoder.provider' must be lexical, openai or gemini, got %q", c.Encoder.Provider)
	}

	if c.Encoder.Dimensions < 0 {
		return fmt.Errorf("config error: 'encoder.dimensions' must be non-negative")
	}
	if c.Encoder.Cache.TTLSec < 0 {
		return fmt.Errorf("config error: 'encoder.cache.ttl_sec' must be non-negative")
	}
	if c.Analysis.DocumentTimeoutSec < 0 {
		return fmt.Errorf("config error: 'analysis.document_timeout_sec' must be non-negative")
	}
	if c.Analysis.TopSubsections > c.Analysis.TopSections && c.Analysis.TopSections > 0 {
		return fmt.Errorf("config error: 'analysis.top_subsections' (%d) exceeds 'analysis.top_sections' (%d)",
			c.Analysis.TopSubsections, c.Analysis.TopSections)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535, got %d", c.Server.Port)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Logging.Env == "" {
		result.Logging.Env = defaults.Logging.Env
	}
	if result.Logging.Level == "" {
		result.Logging.Level = defaults.Logging.Level
	}

	if result.Encoder.Provider == "" {
		result.Encoder.Provider = defaults.Encoder.Provider
	}
	if result.Encoder.Model == "" {
		result.Encoder.Model = defaults.Encoder.Model
	}
	if result.Encoder.BaseURL == "" {
		result.Encoder.BaseURL = defaults.Encoder.BaseURL
	}
	if result.Encoder.APIKey == "" {
		result.Encoder.APIKey = defaults.Encoder.APIKey
	}
	if result.Encoder.Dimensions == 0 {
		result.Encoder.Dimensions = defaults.Encoder.Dimensions
	}
	if result.Encoder.ProbeTimeoutSec == 0 {
		result.Encoder.ProbeTimeoutSec = defaults.Encoder.ProbeTimeoutSec
	}
	if len(result.Encoder.Cache.Addrs) == 0 {
		result.Encoder.Cache = defaults.Encoder.Cache
	}

	if result.Analysis.MaxDocuments == 0 {
		result.Analysis.MaxDocuments = defaults.Analysis.MaxDocuments
	}
	if result.Analysis.MaxPages == 0 {
		result.Analysis.MaxPages = defaults.Analysis.MaxPages
	}
	if result.Analysis.MaxSectionsPerDocument == 0 {
		result.Analysis.MaxSectionsPerDocument = defaults.Analysis.MaxSectionsPerDocument
	}
	if result.Analysis.TopSections == 0 {
		result.Analysis.TopSections = defaults.Analysis.TopSections
	}
	if result.Analysis.TopSubsections == 0 {
		result.Analysis.TopSubsections = defaults.Analysis.TopSubsections
	}
	if result.Analysis.DocumentTimeoutSec == 0 {
		result.Analysis.DocumentTimeoutSec = defaults.Analysis.DocumentTimeoutSec
	}
	if result.Analysis.Workers == 0 {
		result.Analysis.Workers = defaults.Analysis.Workers
	}

	if len(result.Segmenter.InstructionalMarkers) == 0 {
		result.Segmenter.InstructionalMarkers = defaults.Segmenter.InstructionalMarkers
	}
	if result.Database.URL == "" {
		result.Database.URL = defaults.Database.URL
	}
	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if result.Server.JWTSecret == "" {
		result.Server.JWTSecret = defaults.Server.JWTSecret
	}

	return result
}

// ProbeTimeout returns the encoder probe deadline.
func (e EncoderConfig) ProbeTimeout() time.Duration {
	return time.Duration(e.ProbeTimeoutSec) * time.Second
}

// TTL returns the cache entry lifetime; zero means no expiry.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSec) * time.Second
}

// DocumentTimeout returns the per-document deadline; zero means none.
func (a AnalysisConfig) DocumentTimeout() time.Duration {
	return time.Duration(a.DocumentTimeoutSec) * time.Second
}

// envVarRegex matches ${VAR} and ${VAR:-default}.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

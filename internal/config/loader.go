package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Defaults used when neither the config file, the environment, nor flags set a value.
const (
	DefaultAddr                   = ":8001"
	DefaultBackendURL             = "http://localhost:11434"
	DefaultModel                  = "qwen2.5:3b"
	DefaultGenerateTimeoutSeconds = 60
	DefaultStatusTimeoutSeconds   = 5
	DefaultMaxBodyBytes           = 1 << 20
	DefaultLogLevel               = "info"
	DefaultLogFormat              = "json"
)

// DefaultRecommendedModels are advertised by / and /models.
var DefaultRecommendedModels = []string{
	"qwen2.5:3b",
	"qwen:7b",
	"llama3.2:3b",
	"llama3.1:8b",
	"mistral:7b",
	"gemma:2b",
	"phi3:mini",
	"tinyllama:1.1b",
}

// Config holds runtime parameters for the service.
// Zero values mean "unspecified"; Merge and WithDefaults fill them in.
type Config struct {
	Addr                   string   `json:"addr" yaml:"addr" toml:"addr"`
	BackendURL             string   `json:"backend_url" yaml:"backend_url" toml:"backend_url"`
	DefaultModel           string   `json:"default_model" yaml:"default_model" toml:"default_model"`
	RecommendedModels      []string `json:"recommended_models" yaml:"recommended_models" toml:"recommended_models"`
	GenerateTimeoutSeconds int      `json:"generate_timeout_seconds" yaml:"generate_timeout_seconds" toml:"generate_timeout_seconds"`
	StatusTimeoutSeconds   int      `json:"status_timeout_seconds" yaml:"status_timeout_seconds" toml:"status_timeout_seconds"`
	MaxBodyBytes           int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	LogLevel               string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat              string   `json:"log_format" yaml:"log_format" toml:"log_format"`
	CORS                   CORS     `json:"cors" yaml:"cors" toml:"cors"`
}

// CORS configures cross-origin access. A nil Enabled means "default" (on).
type CORS struct {
	Enabled        *bool    `json:"enabled" yaml:"enabled" toml:"enabled"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods" yaml:"allowed_methods" toml:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers" yaml:"allowed_headers" toml:"allowed_headers"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml. A leading ~ is expanded.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	path, err := expandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Merge returns c with every non-zero field of o applied on top.
func (c Config) Merge(o Config) Config {
	if o.Addr != "" {
		c.Addr = o.Addr
	}
	if o.BackendURL != "" {
		c.BackendURL = o.BackendURL
	}
	if o.DefaultModel != "" {
		c.DefaultModel = o.DefaultModel
	}
	if len(o.RecommendedModels) > 0 {
		c.RecommendedModels = append([]string(nil), o.RecommendedModels...)
	}
	if o.GenerateTimeoutSeconds != 0 {
		c.GenerateTimeoutSeconds = o.GenerateTimeoutSeconds
	}
	if o.StatusTimeoutSeconds != 0 {
		c.StatusTimeoutSeconds = o.StatusTimeoutSeconds
	}
	if o.MaxBodyBytes != 0 {
		c.MaxBodyBytes = o.MaxBodyBytes
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		c.LogFormat = o.LogFormat
	}
	if o.CORS.Enabled != nil {
		v := *o.CORS.Enabled
		c.CORS.Enabled = &v
	}
	if len(o.CORS.AllowedOrigins) > 0 {
		c.CORS.AllowedOrigins = append([]string(nil), o.CORS.AllowedOrigins...)
	}
	if len(o.CORS.AllowedMethods) > 0 {
		c.CORS.AllowedMethods = append([]string(nil), o.CORS.AllowedMethods...)
	}
	if len(o.CORS.AllowedHeaders) > 0 {
		c.CORS.AllowedHeaders = append([]string(nil), o.CORS.AllowedHeaders...)
	}
	return c
}

// Default returns the built-in configuration.
func Default() Config {
	enabled := true
	return Config{
		Addr:                   DefaultAddr,
		BackendURL:             DefaultBackendURL,
		DefaultModel:           DefaultModel,
		RecommendedModels:      append([]string(nil), DefaultRecommendedModels...),
		GenerateTimeoutSeconds: DefaultGenerateTimeoutSeconds,
		StatusTimeoutSeconds:   DefaultStatusTimeoutSeconds,
		MaxBodyBytes:           DefaultMaxBodyBytes,
		LogLevel:               DefaultLogLevel,
		LogFormat:              DefaultLogFormat,
		CORS: CORS{
			Enabled:        &enabled,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"*"},
		},
	}
}

// WithDefaults fills unset fields from Default.
func (c Config) WithDefaults() Config {
	return Default().Merge(c)
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if !strings.HasPrefix(c.BackendURL, "http://") && !strings.HasPrefix(c.BackendURL, "https://") {
		return fmt.Errorf("backend_url must be an http(s) URL, got %q", c.BackendURL)
	}
	if c.DefaultModel == "" {
		return fmt.Errorf("default_model is required")
	}
	if c.GenerateTimeoutSeconds < 0 || c.StatusTimeoutSeconds < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("max_body_bytes must not be negative")
	}
	switch c.LogFormat {
	case "", "json", "console":
	default:
		return fmt.Errorf("unsupported log_format %q (json|console)", c.LogFormat)
	}
	return nil
}

// CORSEnabled reports whether CORS middleware should be installed.
func (c Config) CORSEnabled() bool {
	return c.CORS.Enabled == nil || *c.CORS.Enabled
}

// GenerateTimeout returns the generation deadline.
func (c Config) GenerateTimeout() time.Duration {
	return time.Duration(c.GenerateTimeoutSeconds) * time.Second
}

// StatusTimeout returns the deadline for lightweight status calls.
func (c Config) StatusTimeout() time.Duration {
	return time.Duration(c.StatusTimeoutSeconds) * time.Second
}

// Package config provides configuration loading and structs for the colmatch server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Fields    FieldsConfig    `yaml:"fields"`
	Audit     AuditConfig     `yaml:"audit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// EmbeddingConfig holds embedding provider settings.
// Provider selects the backend: "onnx" (local model file), "remote"
// (OpenAI-compatible embeddings endpoint), or "mock" (deterministic, for
// development and tests).
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	ModelPath  string `yaml:"model_path"`
	ModelID    string `yaml:"model_id"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"api_key"`
	// Warmup loads the model at startup instead of on the first request.
	Warmup bool `yaml:"warmup"`
	// Retry backoff for a provider whose load failed. The first retry is
	// allowed after InitRetryBackoff; the window doubles per failure up to
	// InitRetryMaxBackoff.
	InitRetryBackoff    time.Duration `yaml:"init_retry_backoff"`
	InitRetryMaxBackoff time.Duration `yaml:"init_retry_max_backoff"`
}

// FieldsConfig holds the canonical-field dictionary settings.
// An empty DictionaryPath disables the /fields endpoint.
type FieldsConfig struct {
	DictionaryPath string `yaml:"dictionary_path"`
	Watch          bool   `yaml:"watch"`
}

// AuditConfig holds the optional scoring-request audit log settings.
type AuditConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
}

// Load reads and parses the config file at path, applies defaults, and
// expands relative paths. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	if cfg.Fields.DictionaryPath != "" {
		cfg.Fields.DictionaryPath = expandPath(cfg.Fields.DictionaryPath, configDir)
	}
	if cfg.Audit.DatabasePath != "" {
		cfg.Audit.DatabasePath = expandPath(cfg.Audit.DatabasePath, configDir)
	}

	return &cfg, nil
}

// Default returns a config with all defaults applied, without reading a file.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// expandPath converts a path to absolute. Paths starting with "./" are relative
// to configDir; other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

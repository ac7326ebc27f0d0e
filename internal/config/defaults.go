package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3009
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "onnx"
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/colmatch/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.ModelID == "" {
		cfg.Embedding.ModelID = "all-MiniLM-L6-v2"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 64
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 4096
	}
	if cfg.Embedding.InitRetryBackoff == 0 {
		cfg.Embedding.InitRetryBackoff = 5 * time.Second
	}
	if cfg.Embedding.InitRetryMaxBackoff == 0 {
		cfg.Embedding.InitRetryMaxBackoff = 5 * time.Minute
	}
	if cfg.Audit.Enabled && cfg.Audit.DatabasePath == "" {
		cfg.Audit.DatabasePath = "/usr/local/var/colmatch/audit.db"
	}
}

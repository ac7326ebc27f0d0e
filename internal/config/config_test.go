package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9100
embedding:
  provider: mock
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("port: got %d, want 9100", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("host default: got %q", cfg.Server.Host)
	}
	if cfg.Embedding.Provider != "mock" {
		t.Errorf("provider: got %q", cfg.Embedding.Provider)
	}
	if cfg.Embedding.ModelID != "all-MiniLM-L6-v2" {
		t.Errorf("model id default: got %q", cfg.Embedding.ModelID)
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("dimensions default: got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Embedding.InitRetryBackoff != 5*time.Second {
		t.Errorf("retry backoff default: got %v", cfg.Embedding.InitRetryBackoff)
	}
}

func TestLoadExpandsRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
embedding:
  model_path: ./models/model.onnx
fields:
  dictionary_path: ./fields.yaml
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := filepath.Join(dir, "models/model.onnx")
	if cfg.Embedding.ModelPath != want {
		t.Errorf("model path: got %q, want %q", cfg.Embedding.ModelPath, want)
	}
	if cfg.Fields.DictionaryPath != filepath.Join(dir, "fields.yaml") {
		t.Errorf("dictionary path: got %q", cfg.Fields.DictionaryPath)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 3009 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Embedding.Provider != "onnx" {
		t.Errorf("default provider: got %q", cfg.Embedding.Provider)
	}
	if cfg.Audit.Enabled {
		t.Error("audit should default to disabled")
	}
}

func TestAuditDefaultPathOnlyWhenEnabled(t *testing.T) {
	var cfg Config
	cfg.Audit.Enabled = true
	ApplyDefaults(&cfg)
	if cfg.Audit.DatabasePath == "" {
		t.Error("enabled audit should get a default database path")
	}
}

package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load(New())

	if cfg.DocsDir != "docs" || cfg.Output != "data/chunks.json" {
		t.Errorf("unexpected paths: %q %q", cfg.DocsDir, cfg.Output)
	}
	if !slices.Equal(cfg.Extensions, []string{".md"}) {
		t.Errorf("expected [.md], got %v", cfg.Extensions)
	}
	if cfg.MinTokens != 400 || cfg.MaxTokens != 600 || cfg.MinContentChars != 10 {
		t.Errorf("unexpected chunk bounds: %+v", cfg)
	}
	if cfg.Store.DSN != "sqlite:data/chunks.db" || cfg.Store.BatchSize != 10 {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Server.Port != "8090" || cfg.Server.JobTTL != time.Hour {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("DOCCHUNK_DOCS_DIR", "content")
	t.Setenv("DOCCHUNK_MAX_TOKENS", "800")
	t.Setenv("DOCCHUNK_STORE_DSN", "postgres://localhost/chunks")
	t.Setenv("DOCCHUNK_EXTENSIONS", "md, TXT")

	cfg := Load(New())

	if cfg.DocsDir != "content" {
		t.Errorf("expected docs_dir from env, got %q", cfg.DocsDir)
	}
	if cfg.MaxTokens != 800 {
		t.Errorf("expected max_tokens 800, got %d", cfg.MaxTokens)
	}
	if cfg.Store.DSN != "postgres://localhost/chunks" {
		t.Errorf("expected store.dsn from env, got %q", cfg.Store.DSN)
	}
	if !slices.Equal(cfg.Extensions, []string{".md", ".txt"}) {
		t.Errorf("expected [.md .txt], got %v", cfg.Extensions)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docchunk.yaml")
	content := "docs_dir: handbook\nmin_tokens: 100\nmax_tokens: 200\nstore:\n  batch_size: 50\nlog:\n  format: text\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v := New()
	if err := ReadFile(v, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := Load(v)

	if cfg.DocsDir != "handbook" || cfg.MinTokens != 100 || cfg.MaxTokens != 200 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Store.BatchSize != 50 || cfg.Log.Format != "text" {
		t.Errorf("nested file values not applied: %+v %+v", cfg.Store, cfg.Log)
	}
	if cfg.Output != "data/chunks.json" {
		t.Errorf("expected default output to survive, got %q", cfg.Output)
	}

	if err := ReadFile(New(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	base := Load(New())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"min tokens", func(c *Config) { c.MinTokens = 0 }, "min_tokens"},
		{"max below min", func(c *Config) { c.MaxTokens = c.MinTokens - 1 }, "max_tokens"},
		{"docs dir", func(c *Config) { c.DocsDir = "" }, "docs_dir"},
		{"output", func(c *Config) { c.Output = "" }, "output"},
		{"extension", func(c *Config) { c.Extensions = []string{".png"} }, "unsupported extension"},
		{"batch size", func(c *Config) { c.Store.BatchSize = 0 }, "batch_size"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.Extensions = slices.Clone(base.Extensions)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

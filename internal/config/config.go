package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgallion1/docchunk/internal/parser"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. DOCCHUNK_DOCS_DIR.
const EnvPrefix = "DOCCHUNK"

type Config struct {
	DocsDir    string
	Output     string
	Extensions []string

	// Chunking bounds
	MinTokens       int
	MaxTokens       int
	MinContentChars int

	Store  StoreConfig
	Server ServerConfig
	Log    LogConfig
}

type StoreConfig struct {
	DSN       string
	BatchSize int
}

type ServerConfig struct {
	Port         string
	APIKey       string
	JobTTL       time.Duration
	MaxBodyBytes int64
}

type LogConfig struct {
	Level  string
	Format string
}

// New returns a viper instance with defaults and environment binding set up.
// Nested keys map to env vars with dots replaced, e.g. store.dsn -> DOCCHUNK_STORE_DSN.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("docs_dir", "docs")
	v.SetDefault("output", "data/chunks.json")
	v.SetDefault("extensions", []string{".md"})
	v.SetDefault("min_tokens", 400)
	v.SetDefault("max_tokens", 600)
	v.SetDefault("min_content_chars", 10)
	v.SetDefault("store.dsn", "sqlite:data/chunks.db")
	v.SetDefault("store.batch_size", 10)
	v.SetDefault("server.port", "8090")
	v.SetDefault("server.api_key", "")
	v.SetDefault("server.job_ttl", time.Hour)
	v.SetDefault("server.max_body_bytes", int64(10<<20))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// ReadFile merges a config file into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Load reads the effective configuration out of v.
func Load(v *viper.Viper) Config {
	cfg := Config{
		DocsDir:    v.GetString("docs_dir"),
		Output:     v.GetString("output"),
		Extensions: normalizeExtensions(v.GetStringSlice("extensions")),

		MinTokens:       v.GetInt("min_tokens"),
		MaxTokens:       v.GetInt("max_tokens"),
		MinContentChars: v.GetInt("min_content_chars"),

		Store: StoreConfig{
			DSN:       v.GetString("store.dsn"),
			BatchSize: v.GetInt("store.batch_size"),
		},
		Server: ServerConfig{
			Port:         v.GetString("server.port"),
			APIKey:       v.GetString("server.api_key"),
			JobTTL:       v.GetDuration("server.job_ttl"),
			MaxBodyBytes: v.GetInt64("server.max_body_bytes"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
	}

	if cfg.Server.JobTTL <= 0 {
		cfg.Server.JobTTL = time.Hour
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		cfg.Server.MaxBodyBytes = 10 << 20
	}

	return cfg
}

func (c Config) Validate() error {
	var errs []error
	if c.DocsDir == "" {
		errs = append(errs, errors.New("docs_dir is required"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output is required"))
	}
	if len(c.Extensions) == 0 {
		errs = append(errs, errors.New("extensions must not be empty"))
	}
	for _, ext := range c.Extensions {
		if !parser.IsSupportedExtension(ext) {
			errs = append(errs, fmt.Errorf("unsupported extension %q", ext))
		}
	}
	if c.MinTokens <= 0 {
		errs = append(errs, fmt.Errorf("min_tokens must be positive, got %d", c.MinTokens))
	}
	if c.MaxTokens < c.MinTokens {
		errs = append(errs, fmt.Errorf("max_tokens (%d) must be >= min_tokens (%d)", c.MaxTokens, c.MinTokens))
	}
	if c.MinContentChars < 0 {
		errs = append(errs, fmt.Errorf("min_content_chars must not be negative, got %d", c.MinContentChars))
	}
	if c.Store.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("store.batch_size must be positive, got %d", c.Store.BatchSize))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// normalizeExtensions lower-cases extensions and ensures a leading dot.
// Viper yields a single comma-separated string from env vars; those are split.
func normalizeExtensions(raw []string) []string {
	var exts []string
	for _, r := range raw {
		for _, ext := range strings.Split(r, ",") {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			exts = append(exts, ext)
		}
	}
	return exts
}

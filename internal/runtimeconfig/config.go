package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var ErrServerAddrRequired = errors.New("blog config: server address is required")
var ErrStorageProviderUnknown = errors.New("blog config: storage provider is invalid")
var ErrStorageDSNRequired = errors.New("blog config: storage dsn is required for sql providers")

// ErrCacheTTLInvalid ensures an enabled read cache has a positive lifetime.
var ErrCacheTTLInvalid = errors.New("blog config: cache ttl must be positive when cache is enabled")
var ErrClientBaseURLInvalid = errors.New("blog config: client base url must be an absolute http(s) url")
var ErrClientSiteURLInvalid = errors.New("blog config: client site url must be an absolute http(s) url")
var ErrAdminTokenRequiresAdmin = errors.New("blog config: admin token configured while admin routes are disabled")
var ErrLoggingProviderRequired = errors.New("blog config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("blog config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("blog config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("blog config: logging format is invalid")

// Config aggregates the settings shared by the API server, the reader and the importer.
type Config struct {
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Storage  StorageConfig  `yaml:"storage" toml:"storage"`
	Cache    CacheConfig    `yaml:"cache" toml:"cache"`
	Client   ClientConfig   `yaml:"client" toml:"client"`
	Markdown MarkdownConfig `yaml:"markdown" toml:"markdown"`
	Admin    AdminConfig    `yaml:"admin" toml:"admin"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Features Features       `yaml:"features" toml:"features"`
}

// ServerConfig controls the HTTP listener of the posts API.
type ServerConfig struct {
	Addr            string        `yaml:"addr" toml:"addr" env:"BLOG_SERVER_ADDR"`
	ReadTimeout     time.Duration `yaml:"read_timeout" toml:"read_timeout" env:"BLOG_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" toml:"write_timeout" env:"BLOG_SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout" env:"BLOG_SERVER_SHUTDOWN_TIMEOUT"`
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	// Provider is one of memory, sqlite or postgres.
	Provider string `yaml:"provider" toml:"provider" env:"BLOG_STORAGE_PROVIDER"`
	DSN      string `yaml:"dsn" toml:"dsn" env:"BLOG_STORAGE_DSN"`
	// SeedFallback writes the bundled posts into an empty store on startup.
	SeedFallback bool `yaml:"seed_fallback" toml:"seed_fallback" env:"BLOG_STORAGE_SEED_FALLBACK"`
}

// CacheConfig captures the read cache placed in front of SQL storage.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" toml:"enabled" env:"BLOG_CACHE_ENABLED"`
	TTL     time.Duration `yaml:"ttl" toml:"ttl" env:"BLOG_CACHE_TTL"`
}

// ClientConfig points the reader at a running API.
type ClientConfig struct {
	BaseURL string        `yaml:"base_url" toml:"base_url" env:"BLOG_CLIENT_BASE_URL"`
	Token   string        `yaml:"token" toml:"token" env:"BLOG_CLIENT_TOKEN"`
	Timeout time.Duration `yaml:"timeout" toml:"timeout" env:"BLOG_CLIENT_TIMEOUT"`
	// SiteURL is where readers open the blog; permalinks are built from it.
	// Empty means the API host also serves the reader.
	SiteURL string `yaml:"site_url" toml:"site_url" env:"BLOG_CLIENT_SITE_URL"`
}

// PermalinkBase returns the URL article permalinks hang off, with a trailing slash.
func (c ClientConfig) PermalinkBase() string {
	base := strings.TrimSpace(c.SiteURL)
	if base == "" {
		base = strings.TrimSpace(c.BaseURL)
	}
	return strings.TrimRight(base, "/") + "/"
}

// MarkdownConfig mirrors interfaces.RenderOptions plus the import directory.
type MarkdownConfig struct {
	ContentDir string   `yaml:"content_dir" toml:"content_dir" env:"BLOG_MARKDOWN_CONTENT_DIR"`
	Pattern    string   `yaml:"pattern" toml:"pattern" env:"BLOG_MARKDOWN_PATTERN"`
	Extensions []string `yaml:"extensions" toml:"extensions" env:"BLOG_MARKDOWN_EXTENSIONS"`
	HardWraps  bool     `yaml:"hard_wraps" toml:"hard_wraps" env:"BLOG_MARKDOWN_HARD_WRAPS"`
	Sanitize   bool     `yaml:"sanitize" toml:"sanitize" env:"BLOG_MARKDOWN_SANITIZE"`
	Highlight  bool     `yaml:"highlight" toml:"highlight" env:"BLOG_MARKDOWN_HIGHLIGHT"`
	// HighlightStyle names a chroma style; empty selects github.
	HighlightStyle string `yaml:"highlight_style" toml:"highlight_style" env:"BLOG_MARKDOWN_HIGHLIGHT_STYLE"`
}

// AdminConfig gates the mutating routes.
type AdminConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled" env:"BLOG_ADMIN_ENABLED"`
	Token   string `yaml:"token" toml:"token" env:"BLOG_ADMIN_TOKEN"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider" toml:"provider" env:"BLOG_LOGGING_PROVIDER"`
	Level     string   `yaml:"level" toml:"level" env:"BLOG_LOGGING_LEVEL"`
	Format    string   `yaml:"format" toml:"format" env:"BLOG_LOGGING_FORMAT"`
	AddSource bool     `yaml:"add_source" toml:"add_source" env:"BLOG_LOGGING_ADD_SOURCE"`
	Focus     []string `yaml:"focus" toml:"focus" env:"BLOG_LOGGING_FOCUS"`
}

// Features toggles optional functionality.
type Features struct {
	Logger     bool `yaml:"logger" toml:"logger" env:"BLOG_FEATURES_LOGGER"`
	RenderHTML bool `yaml:"render_html" toml:"render_html" env:"BLOG_FEATURES_RENDER_HTML"`
}

// DefaultConfig returns defaults suitable for a local single-author blog.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8787",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Storage: StorageConfig{
			Provider:     "sqlite",
			DSN:          "file:blog.db?cache=shared&_fk=1",
			SeedFallback: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Minute,
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:8787",
			Timeout: 10 * time.Second,
		},
		Markdown: MarkdownConfig{
			ContentDir: "content",
			Pattern:    "*.md",
			Extensions: []string{"gfm"},
			Sanitize:   true,
			Highlight:  true,
		},
		Admin: AdminConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Features: Features{
			Logger:     true,
			RenderHTML: true,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}
	switch provider := NormalizeProvider(cfg.Storage.Provider); provider {
	case "memory":
	case "sqlite", "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, provider)
		}
	default:
		return fmt.Errorf("%w: %q", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if cfg.Cache.Enabled && cfg.Cache.TTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if base := strings.TrimSpace(cfg.Client.BaseURL); base != "" {
		if !isAbsoluteHTTP(base) {
			return fmt.Errorf("%w: %q", ErrClientBaseURLInvalid, base)
		}
	}
	if site := strings.TrimSpace(cfg.Client.SiteURL); site != "" && !isAbsoluteHTTP(site) {
		return fmt.Errorf("%w: %q", ErrClientSiteURLInvalid, site)
	}
	if !cfg.Admin.Enabled && strings.TrimSpace(cfg.Admin.Token) != "" {
		return ErrAdminTokenRequiresAdmin
	}
	if cfg.Features.Logger {
		provider := NormalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedLoggingProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// NormalizeProvider lowercases and trims provider identifiers.
func NormalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedLoggingProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

func isAbsoluteHTTP(raw string) bool {
	parsed, err := url.Parse(raw)
	return err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

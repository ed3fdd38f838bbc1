package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

var (
	ErrServerAddrRequired      = runtimeconfig.ErrServerAddrRequired
	ErrStorageProviderUnknown  = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid         = runtimeconfig.ErrCacheTTLInvalid
	ErrClientBaseURLInvalid    = runtimeconfig.ErrClientBaseURLInvalid
	ErrClientSiteURLInvalid    = runtimeconfig.ErrClientSiteURLInvalid
	ErrAdminTokenRequiresAdmin = runtimeconfig.ErrAdminTokenRequiresAdmin
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrConfigFormatUnknown     = runtimeconfig.ErrConfigFormatUnknown
)

type (
	Config         = runtimeconfig.Config
	ServerConfig   = runtimeconfig.ServerConfig
	StorageConfig  = runtimeconfig.StorageConfig
	CacheConfig    = runtimeconfig.CacheConfig
	ClientConfig   = runtimeconfig.ClientConfig
	MarkdownConfig = runtimeconfig.MarkdownConfig
	AdminConfig    = runtimeconfig.AdminConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
	Features       = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML or TOML file over the defaults and applies BLOG_*
// environment overrides. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}

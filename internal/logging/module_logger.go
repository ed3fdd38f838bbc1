package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	rootModule     = "blog"
	postsModule    = "blog.posts"
	storeModule    = "blog.kv"
	httpModule     = "blog.http"
	clientModule   = "blog.client"
	resolverModule = "blog.resolver"
	routeModule    = "blog.route"
	markdownModule = "blog.markdown"
)

const (
	fieldPostID      = "post_id"
	fieldRequestID   = "request_id"
	fieldMarkdownSrc = "markdown_path"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// PostsLogger returns the logger namespace reserved for the post service.
func PostsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, postsModule)
}

// StoreLogger returns the logger namespace reserved for key-value stores.
func StoreLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storeModule)
}

// HTTPLogger returns the logger namespace reserved for the API server.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// ClientLogger returns the logger namespace reserved for the API client.
func ClientLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, clientModule)
}

// ResolverLogger returns the logger namespace reserved for content resolvers.
func ResolverLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, resolverModule)
}

// RouteLogger returns the logger namespace reserved for fragment routing.
func RouteLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, routeModule)
}

// MarkdownLogger returns the logger namespace reserved for markdown workflows.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// WithPost enriches the logger with the post identifier. Empty ids are ignored.
func WithPost(logger interfaces.Logger, id string) interfaces.Logger {
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		return WithFields(logger, map[string]any{fieldPostID: trimmed})
	}
	return logger
}

// WithRequest enriches the logger with the request identifier.
func WithRequest(logger interfaces.Logger, requestID string) interfaces.Logger {
	if trimmed := strings.TrimSpace(requestID); trimmed != "" {
		return WithFields(logger, map[string]any{fieldRequestID: trimmed})
	}
	return logger
}

// WithMarkdownSource enriches the logger with the markdown file being processed.
func WithMarkdownSource(logger interfaces.Logger, path string) interfaces.Logger {
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		return WithFields(logger, map[string]any{fieldMarkdownSrc: trimmed})
	}
	return logger
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}

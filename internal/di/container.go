// Package di wires the blog runtime from configuration: logging, storage,
// the post service, the markdown renderer and the HTTP API.
package di

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	blogapi "github.com/goliatone/go-blog/internal/http"
	"github.com/goliatone/go-blog/internal/kv"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/internal/storage"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Container owns the services built from a Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	store          kv.Store
	handle         *storage.Handle
	clock          func() time.Time

	postSvc  posts.Service
	renderer interfaces.MarkdownRenderer
	api      *blogapi.PostsAPI
}

// Option mutates the container before services are built.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Logging.Provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithStore skips storage.Open and uses store directly.
func WithStore(store kv.Store) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithClock sets the clock the post service assigns ids from.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithPostService replaces the post service.
func WithPostService(svc posts.Service) Option {
	return func(c *Container) {
		c.postSvc = svc
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogger(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(ctx); err != nil {
		return nil, err
	}
	c.configurePosts()
	if err := c.seedFallback(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.configureAPI()

	return c, nil
}

func (c *Container) configureLogger() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		return nil
	}

	logCfg := c.Config.Logging
	switch runtimeconfig.NormalizeProvider(logCfg.Provider) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{Writer: os.Stderr}
		if level, ok := console.ParseLevel(logCfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	if c.store != nil {
		return nil
	}
	handle, err := storage.Open(ctx, c.Config.Storage, c.Config.Cache, logging.StoreLogger(c.loggerProvider))
	if err != nil {
		return err
	}
	c.handle = handle
	c.store = handle.Store
	return nil
}

func (c *Container) configurePosts() {
	if c.postSvc != nil {
		return
	}
	opts := []posts.ServiceOption{posts.WithLogger(logging.PostsLogger(c.loggerProvider))}
	if c.clock != nil {
		opts = append(opts, posts.WithClock(c.clock))
	}
	c.postSvc = posts.NewService(c.store, opts...)
}

func (c *Container) seedFallback(ctx context.Context) error {
	if !c.Config.Storage.SeedFallback {
		return nil
	}
	written, err := c.postSvc.Seed(ctx, markdown.FallbackPosts())
	if err != nil {
		return fmt.Errorf("di: seed fallback posts: %w", err)
	}
	logging.PostsLogger(c.loggerProvider).Info("posts.seeded", "written", written)
	return nil
}

func (c *Container) configureAPI() {
	opts := []blogapi.Option{
		blogapi.WithPostService(c.postSvc),
		blogapi.WithLogger(logging.HTTPLogger(c.loggerProvider)),
		blogapi.WithAdmin(c.Config.Admin),
	}
	if c.Config.Features.RenderHTML {
		c.renderer = markdown.NewRenderer(interfaces.RenderOptions{
			Extensions:     c.Config.Markdown.Extensions,
			HardWraps:      c.Config.Markdown.HardWraps,
			Sanitize:       c.Config.Markdown.Sanitize,
			Highlight:      c.Config.Markdown.Highlight,
			HighlightStyle: c.Config.Markdown.HighlightStyle,
		})
		opts = append(opts, blogapi.WithRenderer(c.renderer))
	}
	c.api = blogapi.NewPostsAPI(opts...)
}

// LoggerProvider returns the configured provider. It is nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Store returns the key-value store.
func (c *Container) Store() kv.Store {
	return c.store
}

// PostService returns the post service.
func (c *Container) PostService() posts.Service {
	return c.postSvc
}

// Renderer returns the markdown renderer, or nil when HTML rendering is off.
func (c *Container) Renderer() interfaces.MarkdownRenderer {
	return c.renderer
}

// Handler returns the HTTP API with its middleware.
func (c *Container) Handler() (http.Handler, error) {
	return c.api.Handler()
}

// Close releases storage resources.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	return c.handle.Close()
}

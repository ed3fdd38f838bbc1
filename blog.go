// Package blog is the public entry point of the blog runtime. It builds the
// post service and HTTP API from a Config.
package blog

import (
	"context"
	"net/http"

	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// PostService exports the post service contract.
type PostService = posts.Service

type (
	Post              = posts.Post
	Summary           = posts.Summary
	CreatePostRequest = posts.CreatePostRequest
	UpdatePostRequest = posts.UpdatePostRequest
)

// Module is the assembled runtime.
type Module struct {
	container *di.Container
}

// New constructs the runtime. Storage is opened and fallback posts are
// seeded when the configuration asks for it.
func New(ctx context.Context, cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Posts returns the post service.
func (m *Module) Posts() PostService {
	return m.container.PostService()
}

// Markdown returns the HTML renderer, or nil when rendering is disabled.
func (m *Module) Markdown() interfaces.MarkdownRenderer {
	return m.container.Renderer()
}

// Handler returns the HTTP API.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.Handler()
}

// Close releases storage resources.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Package app wires the route resolver to the content resolvers and
// assembles the view model a renderer draws.
package app

import (
	"context"
	"sync"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/resolver"
	"github.com/goliatone/go-blog/internal/route"
	"github.com/goliatone/go-blog/internal/views"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ViewModel is everything a renderer needs for one frame.
type ViewModel struct {
	Route          route.State
	Posts          []posts.Post
	ListLoading    bool
	ListFetched    bool
	Article        *posts.Post
	ArticleLoading bool
	ArticleError   string
	Archives       []views.YearGroup
	Tags           []views.TagCount
	Categories     []views.CategoryCount
	// Filtered holds the posts of the tagged and category views.
	Filtered []posts.Post
}

// Shell binds routes to data.
type Shell struct {
	routes *route.Resolver
	list   *resolver.PostList
	loader *resolver.PostLoader
	editor Editor
	logger interfaces.Logger

	mu    sync.Mutex
	state route.State
}

// Option configures a Shell.
type Option func(*Shell)

// WithEditor enables the admin operations.
func WithEditor(editor Editor) Option {
	return func(s *Shell) {
		s.editor = editor
	}
}

// WithLogger sets the shell logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Shell) {
		s.logger = logging.Or(logger)
	}
}

// NewShell builds a shell positioned at the home view.
func NewShell(routes *route.Resolver, list *resolver.PostList, loader *resolver.PostLoader, opts ...Option) *Shell {
	s := &Shell{
		routes: routes,
		list:   list,
		loader: loader,
		logger: logging.NoOp(),
		state:  route.Home(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Route returns the state the shell last applied.
func (s *Shell) Route() route.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply makes state current and tells the loader whether the article needs
// a fetch. A post already in the list with its body is never fetched.
func (s *Shell) Apply(ctx context.Context, state route.State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	if state.View != route.ViewArticle {
		s.loader.Load(ctx, "", false)
		return
	}
	hasContent := views.HasContent(s.list.Snapshot().Posts, state.ArticleID)
	s.loader.Load(ctx, state.ArticleID, !hasContent)
}

// View assembles the current view model.
func (s *Shell) View() ViewModel {
	state := s.Route()
	list := s.list.Snapshot()
	article := s.loader.Snapshot()

	vm := ViewModel{
		Route:       state,
		Posts:       list.Posts,
		ListLoading: list.Loading,
		ListFetched: list.Fetched,
		Archives:    views.Archives(list.Posts),
		Tags:        views.TagCounts(list.Posts),
		Categories:  views.CategoryCounts(list.Posts),
	}

	switch state.View {
	case route.ViewArticle:
		if local, ok := views.Find(list.Posts, state.ArticleID); ok && local.HasContent() {
			vm.Article = &local
			break
		}
		if article.ID != state.ArticleID {
			// the loader has not picked up this route yet
			vm.ArticleLoading = true
			break
		}
		vm.Article = article.Post
		vm.ArticleLoading = article.Loading
		vm.ArticleError = article.Err
	case route.ViewTagged:
		vm.Filtered = views.Tagged(list.Posts, state.Tag)
	case route.ViewCategory:
		vm.Filtered = views.InCategory(list.Posts, state.Category)
	}
	return vm
}

// Run applies the current route, starts the list fetch and publishes a view
// model after every route or data change until ctx is done.
func (s *Shell) Run(ctx context.Context, publish func(ViewModel)) error {
	listChanges, err := s.list.Subscribe(ctx)
	if err != nil {
		return err
	}
	postChanges, err := s.loader.Subscribe(ctx)
	if err != nil {
		return err
	}
	states, err := s.routes.Watch(ctx)
	if err != nil {
		return err
	}

	s.list.Start(ctx)
	s.Apply(ctx, s.routes.Current())
	publish(s.View())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case state, ok := <-states:
			if !ok {
				return ctx.Err()
			}
			s.logger.Debug("app.route", "view", state.View, "param", state.Param())
			s.Apply(ctx, state)
		case _, ok := <-listChanges:
			if !ok {
				return ctx.Err()
			}
			// the list may have gained or lost the current article's body
			s.Apply(ctx, s.Route())
		case _, ok := <-postChanges:
			if !ok {
				return ctx.Err()
			}
		}
		publish(s.View())
	}
}

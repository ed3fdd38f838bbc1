package resolver

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/atomic"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/notify"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ListSnapshot is a consistent view of a PostList. Posts must be treated as
// read-only.
type ListSnapshot struct {
	Posts   []posts.Post
	Loading bool
	// Fetched reports whether at least one fetch has settled, successfully or not.
	Fetched bool
}

// Option configures resolvers.
type Option func(*options)

type options struct {
	logger interfaces.Logger
}

// WithLogger sets the resolver logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *options) {
		o.logger = logging.Or(logger)
	}
}

func collectOptions(opts []Option) options {
	cfg := options{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

type flight struct {
	done chan struct{}
	err  error
}

// PostList holds the post collection. At most one list fetch is in flight
// at a time; only that fetch writes the collection.
type PostList struct {
	fetcher ListFetcher
	logger  interfaces.Logger

	mu      sync.Mutex
	posts   []posts.Post
	fetched bool
	lastErr error
	pending *flight

	started  atomic.Bool
	requests atomic.Int64
	changes  *notify.Broadcaster
}

// NewPostList seeds a collection with fallback. No fetch happens until
// Start or Refresh.
func NewPostList(fetcher ListFetcher, fallback []posts.Post, opts ...Option) *PostList {
	cfg := collectOptions(opts)
	return &PostList{
		fetcher: fetcher,
		logger:  cfg.logger,
		posts:   dedupe(fallback),
		changes: notify.NewBroadcaster(),
	}
}

// Start begins the initial fetch in the background. Later calls do nothing.
func (l *PostList) Start(ctx context.Context) {
	if !l.started.CompareAndSwap(false, true) {
		return
	}
	f, leader := l.join()
	if !leader {
		return
	}
	go l.run(ctx, f)
}

// Refresh fetches the list again. Callers arriving while a fetch is in
// flight wait for that fetch instead of issuing another one. The returned
// error is the fetch outcome; the collection is kept on failure either way.
func (l *PostList) Refresh(ctx context.Context) error {
	f, leader := l.join()
	if leader {
		l.run(ctx, f)
	}
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the current collection and loading flags.
func (l *PostList) Snapshot() ListSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ListSnapshot{
		Posts:   slices.Clone(l.posts),
		Loading: l.pending != nil,
		Fetched: l.fetched,
	}
}

// LastError returns the error of the most recent settled fetch, or nil.
func (l *PostList) LastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// Requests returns how many list fetches were issued.
func (l *PostList) Requests() int64 {
	return l.requests.Load()
}

// Subscribe signals after every snapshot change.
func (l *PostList) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	return l.changes.Subscribe(ctx)
}

func (l *PostList) join() (*flight, bool) {
	l.mu.Lock()
	if l.pending != nil {
		f := l.pending
		l.mu.Unlock()
		return f, false
	}
	f := &flight{done: make(chan struct{})}
	l.pending = f
	l.mu.Unlock()

	l.changes.Broadcast()
	return f, true
}

func (l *PostList) run(ctx context.Context, f *flight) {
	l.requests.Inc()
	fetched, err := l.fetcher.ListPosts(ctx)

	l.mu.Lock()
	switch {
	case err != nil:
		l.logger.Warn("resolver.list.fetch_failed", "error", err, "kept", len(l.posts))
	case len(fetched) == 0:
		l.logger.Info("resolver.list.empty", "kept", len(l.posts))
	default:
		l.posts = dedupe(fetched)
		l.logger.Debug("resolver.list.replaced", "count", len(l.posts))
	}
	l.lastErr = err
	l.fetched = true
	l.pending = nil
	f.err = err
	l.mu.Unlock()

	close(f.done)
	l.changes.Broadcast()
}

// dedupe keeps the first occurrence of every id.
func dedupe(list []posts.Post) []posts.Post {
	seen := make(map[string]struct{}, len(list))
	out := make([]posts.Post, 0, len(list))
	for _, post := range list {
		if _, ok := seen[post.ID]; ok {
			continue
		}
		seen[post.ID] = struct{}{}
		out = append(out, post)
	}
	return out
}

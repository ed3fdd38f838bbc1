package resolver

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/atomic"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/notify"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const msgUnknownError = "An error occurred"

// PostSnapshot is the tri-state result of a PostLoader. At most one of Post
// and Err is set, and neither is set while Loading.
type PostSnapshot struct {
	ID      string
	Post    *posts.Post
	Loading bool
	Err     string
}

type loadKey struct {
	id      string
	enabled bool
}

type cycle struct {
	seq    uint64
	key    loadKey
	done   chan struct{}
	closed bool
}

func (c *cycle) settle() {
	if !c.closed {
		c.closed = true
		close(c.done)
	}
}

// PostLoader resolves one post at a time. Every Load with new arguments
// starts a cycle; a cycle's result is applied only while it is the latest.
type PostLoader struct {
	fetcher PostFetcher
	logger  interfaces.Logger

	mu      sync.Mutex
	current *cycle
	state   PostSnapshot

	seq      atomic.Uint64
	requests atomic.Int64
	changes  *notify.Broadcaster
}

// NewPostLoader builds an idle loader.
func NewPostLoader(fetcher PostFetcher, opts ...Option) *PostLoader {
	cfg := collectOptions(opts)
	return &PostLoader{
		fetcher: fetcher,
		logger:  cfg.logger,
		changes: notify.NewBroadcaster(),
	}
}

// Load resolves id. With an empty id or enabled false the loader resets to
// the empty state and performs no fetch. The id is opaque and kept as given.
// The caller decides whether a fetch is needed. Repeating the current arguments is a no-op. The fetch runs in
// the background with ctx and is never cancelled when superseded.
func (p *PostLoader) Load(ctx context.Context, id string, enabled bool) {
	p.start(ctx, loadKey{id: id, enabled: enabled}, false)
}

// Reload starts a new cycle with the current arguments, for example after
// the post was edited.
func (p *PostLoader) Reload(ctx context.Context) {
	p.mu.Lock()
	var key loadKey
	if p.current != nil {
		key = p.current.key
	}
	p.mu.Unlock()
	p.start(ctx, key, true)
}

func (p *PostLoader) start(ctx context.Context, key loadKey, force bool) {
	p.mu.Lock()
	if !force && p.current != nil && p.current.key == key {
		p.mu.Unlock()
		return
	}
	if p.current != nil {
		p.current.settle()
	}
	c := &cycle{seq: p.seq.Inc(), key: key, done: make(chan struct{})}
	p.current = c

	if key.id == "" || !key.enabled {
		p.state = PostSnapshot{}
		c.settle()
		p.mu.Unlock()
		p.changes.Broadcast()
		return
	}

	p.state = PostSnapshot{ID: key.id, Loading: true}
	p.mu.Unlock()
	p.changes.Broadcast()

	go p.fetch(ctx, c)
}

// Snapshot returns the current state.
func (p *PostLoader) Snapshot() PostSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Wait blocks until the latest cycle settles or ctx is done.
func (p *PostLoader) Wait(ctx context.Context) (PostSnapshot, error) {
	for {
		p.mu.Lock()
		snap := p.state
		var done chan struct{}
		if p.current != nil {
			done = p.current.done
		}
		p.mu.Unlock()

		if !snap.Loading || done == nil {
			return snap, nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return snap, ctx.Err()
		}
	}
}

// Requests returns how many post fetches were issued.
func (p *PostLoader) Requests() int64 {
	return p.requests.Load()
}

// Subscribe signals after every snapshot change.
func (p *PostLoader) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	return p.changes.Subscribe(ctx)
}

func (p *PostLoader) fetch(ctx context.Context, c *cycle) {
	p.requests.Inc()
	logger := logging.WithPost(p.logger, c.key.id)
	post, err := p.fetcher.GetPost(ctx, c.key.id)

	p.mu.Lock()
	if p.current != c {
		p.mu.Unlock()
		logger.Debug("resolver.post.stale", "seq", c.seq, "latest", p.seq.Load())
		return
	}
	if err != nil {
		p.state = PostSnapshot{ID: c.key.id, Err: errorMessage(err)}
	} else {
		p.state = PostSnapshot{ID: c.key.id, Post: &post}
	}
	c.settle()
	p.mu.Unlock()

	if err != nil {
		logger.Warn("resolver.post.fetch_failed", "error", err)
	}
	p.changes.Broadcast()
}

func errorMessage(err error) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return msgUnknownError
}

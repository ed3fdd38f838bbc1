// Package notify fans out change signals to subscribers. Signals carry no
// payload and coalesce: a subscriber that has not drained its channel sees one
// pending signal no matter how many broadcasts happened.
package notify

import (
	"context"
	"sync"
)

// Broadcaster delivers change signals to every live subscription.
type Broadcaster struct {
	mu       sync.Mutex
	watchers map[uint64]chan struct{}
	nextID   uint64
}

// NewBroadcaster returns an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		watchers: make(map[uint64]chan struct{}),
	}
}

// Subscribe returns a channel that receives a signal after each Broadcast.
// The channel is closed once ctx is done.
func (b *Broadcaster) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		ch := make(chan struct{})
		close(ch)
		return ch, nil
	}
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.watchers[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.watchers, id)
		close(ch)
		b.mu.Unlock()
	}()

	return ch, nil
}

// Broadcast signals every subscriber without blocking.
func (b *Broadcaster) Broadcast() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers reports the number of live subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.watchers)
}

package route

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-blog/internal/notify"
)

// Location is the ambient holder of the current fragment, the equivalent of
// a browser's location hash.
type Location interface {
	Fragment() string
	// Subscribe signals after every fragment change until ctx is done.
	Subscribe(ctx context.Context) (<-chan struct{}, error)
}

// Navigator is implemented by locations that accept new fragments.
type Navigator interface {
	Push(fragment string)
}

// MemoryLocation is an in-process Location with a browser-like history.
type MemoryLocation struct {
	mu      sync.Mutex
	history []string
	index   int
	changes *notify.Broadcaster
}

// NewMemoryLocation starts a history at initial.
func NewMemoryLocation(initial string) *MemoryLocation {
	return &MemoryLocation{
		history: []string{normalizeFragment(initial)},
		changes: notify.NewBroadcaster(),
	}
}

// Fragment returns the current fragment.
func (l *MemoryLocation) Fragment() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.history[l.index]
}

// Subscribe implements Location.
func (l *MemoryLocation) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	return l.changes.Subscribe(ctx)
}

// Push navigates to fragment, dropping any forward history. Pushing the
// current fragment is a no-op and does not notify.
func (l *MemoryLocation) Push(fragment string) {
	fragment = normalizeFragment(fragment)

	l.mu.Lock()
	if l.history[l.index] == fragment {
		l.mu.Unlock()
		return
	}
	l.history = append(l.history[:l.index+1], fragment)
	l.index++
	l.mu.Unlock()

	l.changes.Broadcast()
}

// Back moves one entry back. It reports false at the start of the history.
func (l *MemoryLocation) Back() bool {
	return l.step(-1)
}

// Forward moves one entry forward. It reports false at the end of the history.
func (l *MemoryLocation) Forward() bool {
	return l.step(1)
}

// Len returns the number of history entries.
func (l *MemoryLocation) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.history)
}

func (l *MemoryLocation) step(delta int) bool {
	l.mu.Lock()
	next := l.index + delta
	if next < 0 || next >= len(l.history) {
		l.mu.Unlock()
		return false
	}
	changed := l.history[next] != l.history[l.index]
	l.index = next
	l.mu.Unlock()

	if changed {
		l.changes.Broadcast()
	}
	return true
}

func normalizeFragment(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if !strings.HasPrefix(fragment, "#") {
		fragment = "#" + fragment
	}
	return fragment
}

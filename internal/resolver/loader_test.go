package resolver

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/posts"
)

type pendingCall struct {
	id     string
	result chan error
}

// scriptedPosts holds every fetch until the test answers it.
type scriptedPosts struct {
	mu    sync.Mutex
	calls []string
	queue chan pendingCall
}

func newScriptedPosts() *scriptedPosts {
	return &scriptedPosts{queue: make(chan pendingCall, 16)}
}

func (s *scriptedPosts) GetPost(_ context.Context, id string) (posts.Post, error) {
	s.mu.Lock()
	s.calls = append(s.calls, id)
	s.mu.Unlock()

	call := pendingCall{id: id, result: make(chan error)}
	s.queue <- call
	if err := <-call.result; err != nil {
		return posts.Post{}, err
	}
	return post(id, "content of "+id), nil
}

func (s *scriptedPosts) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *scriptedPosts) next(t *testing.T) pendingCall {
	t.Helper()
	select {
	case call := <-s.queue:
		return call
	case <-time.After(time.Second):
		t.Fatal("expected a fetch")
	}
	return pendingCall{}
}

func waitSettled(t *testing.T, loader *PostLoader) PostSnapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	snap, err := loader.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	return snap
}

func TestPostLoaderEmptyIDDoesNotFetch(t *testing.T) {
	fetcher := newScriptedPosts()
	loader := NewPostLoader(fetcher)

	loader.Load(context.Background(), "", true)
	snap := loader.Snapshot()
	if snap.Post != nil || snap.Loading || snap.Err != "" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if len(fetcher.Calls()) != 0 || loader.Requests() != 0 {
		t.Fatalf("expected no request, got %v", fetcher.Calls())
	}
}

func TestPostLoaderDisabledNeverLoads(t *testing.T) {
	fetcher := newScriptedPosts()
	loader := NewPostLoader(fetcher)

	loader.Load(context.Background(), "3", false)
	if snap := loader.Snapshot(); snap.Loading || snap.Post != nil || snap.Err != "" {
		t.Fatalf("disabled load should stay idle, got %+v", snap)
	}
	time.Sleep(10 * time.Millisecond)
	if len(fetcher.Calls()) != 0 {
		t.Fatalf("expected no request, got %v", fetcher.Calls())
	}
}

func TestPostLoaderSuccess(t *testing.T) {
	fetcher := newScriptedPosts()
	loader := NewPostLoader(fetcher)

	loader.Load(context.Background(), "2", true)
	if snap := loader.Snapshot(); !snap.Loading || snap.ID != "2" {
		t.Fatalf("expected loading snapshot, got %+v", snap)
	}
	fetcher.next(t).result <- nil

	snap := waitSettled(t, loader)
	if snap.Loading || snap.Err != "" || snap.Post == nil || snap.Post.Content != "content of 2" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestPostLoaderReportsErrors(t *testing.T) {
	fetcher := newScriptedPosts()
	loader := NewPostLoader(fetcher)

	loader.Load(context.Background(), "404", true)
	fetcher.next(t).result <- errors.New("Post not found")

	snap := waitSettled(t, loader)
	if snap.Post != nil || snap.Loading || snap.Err != "Post not found" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestPostLoaderSuppressesStaleResponses(t *testing.T) {
	fetcher := newScriptedPosts()
	loader := NewPostLoader(fetcher)
	ctx := context.Background()

	loader.Load(ctx, "A", true)
	first := fetcher.next(t)
	loader.Load(ctx, "B", true)
	second := fetcher.next(t)

	// B lands first, then the superseded A.
	second.result <- nil
	snap := waitSettled(t, loader)
	if snap.Post == nil || snap.Post.ID != "B" {
		t.Fatalf("expected B, got %+v", snap)
	}

	first.result <- nil
	time.Sleep(20 * time.Millisecond)
	if snap := loader.Snapshot(); snap.Post == nil || snap.Post.ID != "B" {
		t.Fatalf("stale response overwrote state: %+v", snap)
	}
}

func TestPostLoaderSuppressesStaleAfterReset(t *testing.T) {
	fetcher := newScriptedPosts()
	loader := NewPostLoader(fetcher)
	ctx := context.Background()

	loader.Load(ctx, "A", true)
	pending := fetcher.next(t)
	loader.Load(ctx, "", false)

	pending.result <- errors.New("late failure")
	time.Sleep(20 * time.Millisecond)
	if snap := loader.Snapshot(); snap.Err != "" || snap.Loading || snap.Post != nil {
		t.Fatalf("expected idle state, got %+v", snap)
	}
}

func TestPostLoaderRepeatedArgumentsAndReload(t *testing.T) {
	fetcher := newScriptedPosts()
	loader := NewPostLoader(fetcher)
	ctx := context.Background()

	loader.Load(ctx, "7", true)
	fetcher.next(t).result <- nil
	waitSettled(t, loader)

	loader.Load(ctx, "7", true)
	if got := len(fetcher.Calls()); got != 1 {
		t.Fatalf("repeated arguments should not refetch, calls=%d", got)
	}

	loader.Reload(ctx)
	fetcher.next(t).result <- nil
	waitSettled(t, loader)
	if got := loader.Requests(); got != 2 {
		t.Fatalf("expected reload to refetch, requests=%d", got)
	}
}

func TestPostLoaderWaitFollowsSupersedingCycle(t *testing.T) {
	fetcher := newScriptedPosts()
	loader := NewPostLoader(fetcher)
	ctx := context.Background()

	loader.Load(ctx, "A", true)
	first := fetcher.next(t)

	result := make(chan PostSnapshot, 1)
	go func() {
		snap, _ := loader.Wait(ctx)
		result <- snap
	}()

	loader.Load(ctx, "B", true)
	second := fetcher.next(t)
	second.result <- nil

	select {
	case snap := <-result:
		if snap.Post == nil || snap.Post.ID != "B" {
			t.Fatalf("Wait returned %+v", snap)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return")
	}
	first.result <- nil
}

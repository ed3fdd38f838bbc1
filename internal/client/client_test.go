package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/client"
	blogapi "github.com/goliatone/go-blog/internal/http"
	"github.com/goliatone/go-blog/internal/kv"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

func newAPIServer(t *testing.T, admin runtimeconfig.AdminConfig) *httptest.Server {
	t.Helper()
	clock := time.UnixMilli(1700000000000)
	svc := posts.NewService(kv.NewMemoryStore(), posts.WithClock(func() time.Time { return clock }))
	if _, err := svc.Seed(context.Background(), markdown.FallbackPosts()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	api := blogapi.NewPostsAPI(
		blogapi.WithPostService(svc),
		blogapi.WithAdmin(admin),
		blogapi.WithRenderer(markdown.NewRenderer(interfaces.RenderOptions{Sanitize: true})),
	)
	handler, err := api.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8787", "ftp://example.com", "http://"} {
		if _, err := client.New(raw); !errors.Is(err, client.ErrBaseURLInvalid) {
			t.Fatalf("New(%q) error = %v, want ErrBaseURLInvalid", raw, err)
		}
	}
}

func TestClientRoundTrip(t *testing.T) {
	server := newAPIServer(t, runtimeconfig.AdminConfig{Enabled: true, Token: "token"})
	c, err := client.New(server.URL+"/", client.WithToken("token"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	list, err := c.ListPosts(ctx)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(list) != 4 || list[0].ID != "1" {
		t.Fatalf("unexpected list %+v", list)
	}
	for _, p := range list {
		if p.HasContent() {
			t.Fatalf("list entry %s should not carry content", p.ID)
		}
	}

	created, err := c.CreatePost(ctx, posts.CreatePostRequest{
		Title:   "Go generics",
		Date:    "2026-03-01",
		Author:  "Yuan Wang",
		Excerpt: "Type parameters in practice",
		Content: "Body",
		Tags:    []string{"Go"},
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if created.ID != "1700000000000" || created.Category != posts.DefaultCategory {
		t.Fatalf("unexpected created post %+v", created)
	}

	title := "Go generics, revisited"
	updated, err := c.UpdatePost(ctx, created.ID, posts.UpdatePostRequest{Title: &title})
	if err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if updated.Title != title || updated.Content != "Body" {
		t.Fatalf("unexpected update %+v", updated)
	}

	fetched, err := c.GetPost(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if fetched.Title != title {
		t.Fatalf("expected updated title, got %q", fetched.Title)
	}

	html, err := c.RenderPost(ctx, created.ID)
	if err != nil || html != "<p>Body</p>\n" {
		t.Fatalf("RenderPost = %q, %v", html, err)
	}

	if err := c.DeletePost(ctx, created.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	_, err = c.GetPost(ctx, created.ID)
	if !client.IsNotFound(err) || err.Error() != "Post not found" {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestClientReportsValidationAndAuth(t *testing.T) {
	server := newAPIServer(t, runtimeconfig.AdminConfig{Enabled: true, Token: "token"})
	ctx := context.Background()

	anonymous, _ := client.New(server.URL)
	err := anonymous.DeletePost(ctx, "1")
	var apiErr *client.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 error, got %v", err)
	}
	if err.Error() != "Failed to fetch post: 401" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	authed, _ := client.New(server.URL, client.WithToken("token"))
	_, err = authed.CreatePost(ctx, posts.CreatePostRequest{Title: "only"})
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 error, got %v", err)
	}
	if err.Error() != "Missing required fields: title, date, author, excerpt, content" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestClientClassifiesFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer anon" {
			t.Errorf("missing bearer token")
		}
		switch r.URL.Path {
		case "/posts":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"success":false,"error":"boom"}`))
		case "/posts/empty":
			_, _ = w.Write([]byte(`{"success":false}`))
		case "/posts/garbage":
			_, _ = w.Write([]byte(`<html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c, err := client.New(server.URL, client.WithToken("anon"), client.WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	_, err = c.ListPosts(ctx)
	if !client.IsNetworkFailure(err) || err.Error() != "Failed to fetch posts: 500" {
		t.Fatalf("expected network failure, got %v", err)
	}

	_, err = c.GetPost(ctx, "empty")
	if !client.IsNotFound(err) || err.Error() != "Post not found" {
		t.Fatalf("expected not found for unsuccessful body, got %v", err)
	}

	_, err = c.GetPost(ctx, "garbage")
	if !client.IsNetworkFailure(err) {
		t.Fatalf("expected network failure for undecodable body, got %v", err)
	}

	_, err = c.GetPost(ctx, "missing")
	if !client.IsNotFound(err) {
		t.Fatalf("expected not found for 404, got %v", err)
	}

	if _, err := c.GetPost(ctx, "  "); !errors.Is(err, client.ErrIDRequired) {
		t.Fatalf("expected ErrIDRequired, got %v", err)
	}
	if got := calls.Load(); got != 4 {
		t.Fatalf("expected 4 requests, got %d", got)
	}
}

func TestClientSendsReservedCharactersInIDsOnce(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	record := func(id string) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, id)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		record(id)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"post":    posts.Post{Summary: posts.Summary{ID: id, Title: "Echo"}},
		})
	})
	mux.HandleFunc("DELETE /posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		record(r.PathValue("id"))
		_, _ = w.Write([]byte(`{"success":true,"message":"Post deleted successfully"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, err := client.New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	for _, id := range []string{"hello world", "50%+off"} {
		post, err := c.GetPost(ctx, id)
		if err != nil {
			t.Fatalf("GetPost(%q): %v", id, err)
		}
		if post.ID != id {
			t.Fatalf("GetPost(%q) returned id %q", id, post.ID)
		}
	}
	if err := c.DeletePost(ctx, "hello world"); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"hello world", "50%+off", "hello world"}
	if len(seen) != len(want) {
		t.Fatalf("expected %d requests, got %v", len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("request %d: server saw id %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestClientTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c, _ := client.New(url)
	_, err := c.ListPosts(context.Background())
	if !client.IsNetworkFailure(err) {
		t.Fatalf("expected network failure, got %v", err)
	}
}

package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	blogapi "github.com/goliatone/go-blog/internal/http"
	"github.com/goliatone/go-blog/internal/kv"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/posts"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := posts.NewService(kv.NewMemoryStore())
	if _, err := svc.Seed(context.Background(), markdown.FallbackPosts()[:2]); err != nil {
		t.Fatalf("seed: %v", err)
	}
	handler, err := blogapi.NewPostsAPI(blogapi.WithPostService(svc)).Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestReaderNavigatesAgainstAPI(t *testing.T) {
	server := newServer(t)

	input := strings.Join([]string{
		"#/tags",
		"/article/2",
		"share",
		"back",
		"#/category/Best%20Practices",
		"bogus",
		"quit",
	}, "\n")
	var out bytes.Buffer
	if err := runReader(context.Background(), []string{"-base-url", server.URL}, strings.NewReader(input), &out); err != nil {
		t.Fatalf("runReader() error = %v", err)
	}
	got := out.String()

	for _, want := range []string{
		"Building Scalable Systems",
		"development (1)  #/tag/development",
		"The Art of Code Review",
		"## The Purpose of Code Reviews",
		server.URL + "/#/article/2",
		`Category "Best Practices"`,
		`unknown command "bogus"`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Why TypeScript Matters") {
		t.Fatalf("remote list should replace the fallback posts:\n%s", got)
	}
}

func TestReaderSharesSiteURL(t *testing.T) {
	server := newServer(t)

	var out bytes.Buffer
	args := []string{"-base-url", server.URL, "-site-url", "https://blog.example.com", "-fragment", "#/article/1"}
	if err := runReader(context.Background(), args, strings.NewReader("share\nquit\n"), &out); err != nil {
		t.Fatalf("runReader() error = %v", err)
	}
	if got := out.String(); !strings.Contains(got, "https://blog.example.com/#/article/1") {
		t.Fatalf("expected permalink on the site url:\n%s", got)
	}
}

func TestReaderOfflineUsesFallback(t *testing.T) {
	var out bytes.Buffer
	input := "#/article/3\nforward\nquit\n"
	if err := runReader(context.Background(), []string{"-offline", "-base-url", "http://127.0.0.1:1"}, strings.NewReader(input), &out); err != nil {
		t.Fatalf("runReader() error = %v", err)
	}
	got := out.String()
	for _, want := range []string{"Optimizing Database Queries", "Why TypeScript Matters", "(no later page)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

package markdown_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-blog/internal/kv"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

func TestRendererRendersGFM(t *testing.T) {
	r := markdown.NewRenderer(interfaces.RenderOptions{})
	out, err := r.Render([]byte("## Load Balancing\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~"))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := string(out)
	for _, want := range []string{`<h2 id="load-balancing">`, "<table>", "<del>gone</del>"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
}

func TestRendererDropsRawHTMLByDefault(t *testing.T) {
	r := markdown.NewRenderer(interfaces.RenderOptions{})
	out, err := r.Render([]byte("hello <b>bold</b>"))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(string(out), "<b>") {
		t.Fatalf("expected raw html to be omitted, got %s", out)
	}
}

func TestRendererSanitizesScripts(t *testing.T) {
	r := markdown.NewRenderer(interfaces.RenderOptions{Sanitize: true})
	out, err := r.Render([]byte("safe <b>bold</b>\n\n<script>alert(1)</script>"))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := string(out)
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected script to be stripped, got %s", html)
	}
	if !strings.Contains(html, "<b>bold</b>") {
		t.Fatalf("expected benign inline html to survive, got %s", html)
	}
}

func TestRendererHighlightsFencedCode(t *testing.T) {
	source := []byte("```go\nfunc main() {}\n```\n")

	r := markdown.NewRenderer(interfaces.RenderOptions{Sanitize: true, Highlight: true})
	out, err := r.Render(source)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := string(out)
	for _, want := range []string{`class="chroma"`, `<span class="kd">func</span>`, `class="ln"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in highlighted output:\n%s", want, html)
		}
	}

	plain, err := markdown.NewRenderer(interfaces.RenderOptions{Sanitize: true}).Render(source)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(string(plain), "chroma") {
		t.Fatalf("expected plain code block without highlight, got %s", plain)
	}
}

func TestParseDocument(t *testing.T) {
	source := []byte(`---
id: "9"
title: "Hello"
date: "2025-01-02"
tags:
  - go
  - blog
---

Body text here.
`)
	doc, err := markdown.ParseDocument(source)
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	post := doc.Post()
	if post.ID != "9" || post.Title != "Hello" || post.Date != "2025-01-02" {
		t.Fatalf("unexpected post %+v", post.Summary)
	}
	if len(post.Tags) != 2 || post.Tags[1] != "blog" {
		t.Fatalf("unexpected tags %v", post.Tags)
	}
	if post.Content != "Body text here." {
		t.Fatalf("unexpected body %q", post.Content)
	}
	if post.ReadTime != "1 min read" {
		t.Fatalf("expected estimated read time, got %q", post.ReadTime)
	}
}

func TestReadTime(t *testing.T) {
	body := strings.Repeat("word ", 401)
	if got := markdown.ReadTime(body); got != "3 min read" {
		t.Fatalf("expected 3 min read, got %q", got)
	}
}

func TestImporterDerivesMissingFields(t *testing.T) {
	fsys := fstest.MapFS{
		"notes/hello-world.md": {Data: []byte("---\ndate: \"2025-02-01\"\nexcerpt: \"hi\"\n---\nbody")},
		"notes/skip.txt":       {Data: []byte("ignored")},
	}
	imp := markdown.NewImporter(fsys, markdown.ImporterConfig{Author: "Yuan Wang"}, nil)

	loaded, err := imp.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected one post, got %d", len(loaded))
	}
	post := loaded[0]
	if post.ID != "hello-world" {
		t.Fatalf("expected slug id, got %q", post.ID)
	}
	if post.Title != "Hello World" {
		t.Fatalf("expected derived title, got %q", post.Title)
	}
	if post.Author != "Yuan Wang" {
		t.Fatalf("expected default author, got %q", post.Author)
	}
}

func TestImporterEmptyDirectory(t *testing.T) {
	imp := markdown.NewImporter(fstest.MapFS{}, markdown.ImporterConfig{}, nil)
	if _, err := imp.Load(context.Background()); !errors.Is(err, markdown.ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
}

func TestImporterImportRespectsOverwrite(t *testing.T) {
	ctx := context.Background()
	fsys := fstest.MapFS{
		"a.md": {Data: []byte("---\nid: \"a\"\ntitle: \"New\"\ndate: \"2025-01-01\"\nauthor: \"x\"\nexcerpt: \"e\"\n---\nbody")},
	}
	svc := posts.NewService(kv.NewMemoryStore())
	if _, err := svc.Save(ctx, posts.Post{
		Summary: posts.Summary{ID: "a", Title: "Old", Date: "2025-01-01", Author: "x", Excerpt: "e"},
		Content: "old",
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	imp := markdown.NewImporter(fsys, markdown.ImporterConfig{}, nil)
	result, err := imp.Import(ctx, svc, false)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if result.Written != 0 || result.Skipped != 1 {
		t.Fatalf("unexpected result %+v", result)
	}

	result, err = imp.Import(ctx, svc, true)
	if err != nil {
		t.Fatalf("Import(overwrite) error = %v", err)
	}
	if result.Written != 1 {
		t.Fatalf("unexpected overwrite result %+v", result)
	}
	stored, err := svc.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Title != "New" {
		t.Fatalf("expected overwritten title, got %q", stored.Title)
	}
}

func TestFallbackPosts(t *testing.T) {
	fallback := markdown.FallbackPosts()
	if len(fallback) != 4 {
		t.Fatalf("expected 4 fallback posts, got %d", len(fallback))
	}
	wantIDs := []string{"1", "2", "3", "4"}
	for i, post := range fallback {
		if post.ID != wantIDs[i] {
			t.Fatalf("position %d: expected id %s, got %s", i, wantIDs[i], post.ID)
		}
		if !post.HasContent() {
			t.Fatalf("fallback post %s has no content", post.ID)
		}
		if post.Author != "Yuan Wang" {
			t.Fatalf("fallback post %s has author %q", post.ID, post.Author)
		}
	}
	if fallback[0].Title != "Building Scalable Systems" || fallback[0].Category != "Engineering" {
		t.Fatalf("unexpected first fallback post %+v", fallback[0].Summary)
	}
	if fallback[3].ReadTime != "7 min read" {
		t.Fatalf("expected frontmatter read time, got %q", fallback[3].ReadTime)
	}
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-blog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blog.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRunServerServesAndShutsDown(t *testing.T) {
	path := writeConfig(t, "[storage]\nprovider = \"memory\"\n\n[features]\nlogger = false\nrender_html = true\n")

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan error, 1)
	var out bytes.Buffer
	go func() {
		done <- runServer(ctx, []string{"-config", path, "-addr", "127.0.0.1:0"}, &out, ready)
	}()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("runServer exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/posts")
	if err != nil {
		t.Fatalf("GET /posts: %v", err)
	}
	defer resp.Body.Close()
	var payload struct {
		Success bool             `json:"success"`
		Posts   []map[string]any `json:"posts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.Success || len(payload.Posts) != 4 {
		t.Fatalf("expected seeded posts, got %+v", payload)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runServer() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunServerReportsConfigErrors(t *testing.T) {
	path := writeConfig(t, "[storage]\nprovider = \"redis\"\n")
	err := runServer(context.Background(), []string{"-config", path}, &bytes.Buffer{}, nil)
	if !errors.Is(err, blog.ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}
}

func TestRunServerReportsBuildErrors(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()
	boom := errors.New("boom")
	moduleBuilder = func(context.Context, blog.Config) (*blog.Module, error) {
		return nil, boom
	}

	path := writeConfig(t, "[storage]\nprovider = \"memory\"\n")
	if err := runServer(context.Background(), []string{"-config", path}, &bytes.Buffer{}, nil); !errors.Is(err, boom) {
		t.Fatalf("expected builder error, got %v", err)
	}
}

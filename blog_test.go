package blog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/kv"
)

func TestConfigValidateAdminTokenRequiresAdmin(t *testing.T) {
	cfg := blog.DefaultConfig()
	cfg.Admin.Enabled = false
	cfg.Admin.Token = "secret"
	if err := cfg.Validate(); !errors.Is(err, blog.ErrAdminTokenRequiresAdmin) {
		t.Fatalf("expected ErrAdminTokenRequiresAdmin, got %v", err)
	}
}

func TestConfigValidateStorageProviderUnknown(t *testing.T) {
	cfg := blog.DefaultConfig()
	cfg.Storage.Provider = "redis"
	if err := cfg.Validate(); !errors.Is(err, blog.ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  provider: memory\nadmin:\n  enabled: false\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := blog.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Storage.Provider != "memory" || cfg.Admin.Enabled {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestModuleServesPosts(t *testing.T) {
	cfg := blog.DefaultConfig()
	cfg.Storage.Provider = "memory"
	cfg.Features.Logger = false

	module, err := blog.New(context.Background(), cfg, di.WithStore(kv.NewMemoryStore()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer module.Close()

	post, err := module.Posts().Get(context.Background(), "2")
	if err != nil || post.Category != "Best Practices" {
		t.Fatalf("Get(2) = %+v, %v", post, err)
	}
	if module.Markdown() == nil {
		t.Fatal("expected markdown renderer")
	}

	handler, err := module.Handler()
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected health status %d", rec.Code)
	}
}

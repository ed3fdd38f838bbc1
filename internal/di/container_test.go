package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/kv"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

func memoryConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "memory"
	cfg.Storage.DSN = ""
	return cfg
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.Server.Addr = ""
	if _, err := NewContainer(context.Background(), cfg); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestContainerSeedsFallbackAndServes(t *testing.T) {
	cfg := memoryConfig()
	container, err := NewContainer(context.Background(), cfg, WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer() error = %v", err)
	}
	defer container.Close()

	summaries, err := container.PostService().List(context.Background())
	if err != nil || len(summaries) != 4 {
		t.Fatalf("expected 4 fallback posts, got %d (%v)", len(summaries), err)
	}

	handler, err := container.Handler()
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts/1/html", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected html route enabled, got %d", rec.Code)
	}
}

func TestContainerLogsThroughProvider(t *testing.T) {
	rec := newRecordingProvider()
	container, err := NewContainer(context.Background(), memoryConfig(), WithLoggerProvider(rec))
	if err != nil {
		t.Fatalf("NewContainer() error = %v", err)
	}
	defer container.Close()

	entry := rec.find("posts.seeded")
	if entry == nil {
		t.Fatalf("expected posts.seeded entry, got %#v", rec.entries)
	}
	if entry.fields["module"] != "blog.posts" || entry.fields["written"] != 4 {
		t.Fatalf("unexpected fields %#v", entry.fields)
	}
}

func TestContainerHonoursFeatureToggles(t *testing.T) {
	cfg := memoryConfig()
	cfg.Features.RenderHTML = false
	cfg.Features.Logger = false
	cfg.Storage.SeedFallback = false

	container, err := NewContainer(context.Background(), cfg, WithStore(kv.NewMemoryStore()), WithClock(func() time.Time {
		return time.UnixMilli(42)
	}))
	if err != nil {
		t.Fatalf("NewContainer() error = %v", err)
	}
	if container.Renderer() != nil || container.LoggerProvider() != nil {
		t.Fatal("expected renderer and logger to be disabled")
	}
	summaries, _ := container.PostService().List(context.Background())
	if len(summaries) != 0 {
		t.Fatalf("expected no seeded posts, got %d", len(summaries))
	}

	handler, _ := container.Handler()
	rec := httptest.NewRecorder()
	body := `{"title":"t","date":"2024-01-01","author":"a","excerpt":"e","content":"c"}`
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(body)))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"id":"42"`) {
		t.Fatalf("unexpected create response %d %s", rec.Code, rec.Body.String())
	}
}

func TestContainerUsesGoLoggerAdapter(t *testing.T) {
	cfg := memoryConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container, err := NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewContainer() error = %v", err)
	}
	if _, ok := container.LoggerProvider().(*gologger.Provider); !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}
}

func TestContainerOpensSQLite(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.DSN = "file:di_container_test?mode=memory&cache=shared&_fk=1"

	container, err := NewContainer(context.Background(), cfg, WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer() error = %v", err)
	}
	defer container.Close()

	post, err := container.PostService().Get(context.Background(), "3")
	if err != nil || post.Title != "Why TypeScript Matters" {
		t.Fatalf("Get(3) = %+v, %v", post, err)
	}
}

type recordingProvider struct {
	mu      sync.Mutex
	entries []recordedEntry
}

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]any
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{}
}

func (p *recordingProvider) GetLogger(string) interfaces.Logger {
	return &recordingLogger{provider: p, fields: map[string]any{}}
}

func (p *recordingProvider) record(level, msg string, fields map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, recordedEntry{level: level, msg: msg, fields: fields})
}

func (p *recordingProvider) find(msg string) *recordedEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.entries {
		if p.entries[i].msg == msg {
			return &p.entries[i]
		}
	}
	return nil
}

type recordingLogger struct {
	provider *recordingProvider
	fields   map[string]any
}

func (l *recordingLogger) log(level, msg string, args ...any) {
	fields := make(map[string]any, len(l.fields)+len(args)/2)
	for k, v := range l.fields {
		fields[k] = v
	}
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	l.provider.record(level, msg, fields)
}

func (l *recordingLogger) Trace(msg string, args ...any) { l.log("trace", msg, args...) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.log("debug", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.log("info", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.log("warn", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...any) { l.log("error", msg, args...) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.log("fatal", msg, args...) }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &recordingLogger{provider: l.provider, fields: merged}
}

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return l
}

package http

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// PostsAPI serves the posts resource.
type PostsAPI struct {
	posts    posts.Service
	renderer interfaces.MarkdownRenderer
	logger   interfaces.Logger
	admin    runtimeconfig.AdminConfig
}

// Option mutates the PostsAPI configuration.
type Option func(*PostsAPI)

// NewPostsAPI constructs the API. Admin routes are enabled by default.
func NewPostsAPI(opts ...Option) *PostsAPI {
	api := &PostsAPI{
		logger: logging.NoOp(),
		admin:  runtimeconfig.AdminConfig{Enabled: true},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithPostService wires the post service.
func WithPostService(service posts.Service) Option {
	return func(api *PostsAPI) {
		api.posts = service
	}
}

// WithRenderer enables GET /posts/{id}/html.
func WithRenderer(renderer interfaces.MarkdownRenderer) Option {
	return func(api *PostsAPI) {
		api.renderer = renderer
	}
}

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *PostsAPI) {
		api.logger = logging.Or(logger)
	}
}

// WithAdmin configures the gate on mutating routes.
func WithAdmin(cfg runtimeconfig.AdminConfig) Option {
	return func(api *PostsAPI) {
		api.admin = cfg
	}
}

// Register mounts the routes on mux.
func (api *PostsAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil || api.posts == nil {
		return fmt.Errorf("http: posts service is required")
	}

	mux.HandleFunc("GET /health", api.handleHealth)
	mux.HandleFunc("GET /posts", api.handleList)
	mux.HandleFunc("GET /posts/{id}", api.handleGet)
	mux.HandleFunc("POST /posts", api.requireAdmin(api.handleCreate))
	mux.HandleFunc("PUT /posts/{id}", api.requireAdmin(api.handleUpdate))
	mux.HandleFunc("DELETE /posts/{id}", api.requireAdmin(api.handleDelete))
	if api.renderer != nil {
		mux.HandleFunc("GET /posts/{id}/html", api.handleHTML)
	}
	return nil
}

// Handler returns the routes wrapped with CORS and request logging.
func (api *PostsAPI) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		return nil, err
	}
	return withCORS(withRequestLogging(mux, api.logger)), nil
}

func (api *PostsAPI) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (api *PostsAPI) handleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := api.posts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := json.Marshal(listResponse{Success: true, Posts: summaries})
	if err != nil {
		writeError(w, err)
		return
	}
	etag := `"` + identity.Fingerprint(body) + `"`
	w.Header().Set("ETag", etag)
	if matchesETag(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(body, '\n'))
}

func (api *PostsAPI) handleGet(w http.ResponseWriter, r *http.Request) {
	post, err := api.posts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postResponse{Success: true, Post: post})
}

func (api *PostsAPI) handleHTML(w http.ResponseWriter, r *http.Request) {
	post, err := api.posts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	html, err := api.renderer.Render([]byte(post.Content))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, htmlResponse{Success: true, ID: post.ID, HTML: string(html)})
}

func (api *PostsAPI) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req posts.CreatePostRequest
	if !decodePayload(w, r, &req) {
		return
	}
	post, err := api.posts.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postResponse{Success: true, Post: post})
}

func (api *PostsAPI) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req posts.UpdatePostRequest
	if !decodePayload(w, r, &req) {
		return
	}
	post, err := api.posts.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postResponse{Success: true, Post: post})
}

func (api *PostsAPI) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := api.posts.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Post deleted successfully"})
}

// requireAdmin rejects mutating requests when admin routes are disabled or the
// bearer token does not match.
func (api *PostsAPI) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !api.admin.Enabled {
			writeError(w, errAdminDisabled)
			return
		}
		if token := strings.TrimSpace(api.admin.Token); token != "" {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(token)) != 1 {
				writeError(w, errUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func decodePayload(w http.ResponseWriter, r *http.Request, target any) bool {
	doc, raw, err := decodeBody(w, r)
	if err != nil {
		writeError(w, err)
		return false
	}
	if err := postPayloadValidator.Validate(doc); err != nil {
		writeError(w, err)
		return false
	}
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errInvalidJSON, err))
		return false
	}
	return true
}

func matchesETag(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

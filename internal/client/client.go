package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	routeGroup    = "api"
	routePosts    = "posts"
	routePost     = "post"
	routePostHTML = "post_html"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

// Client talks to the posts API.
type Client struct {
	http   *http.Client
	routes *urlkit.Group
	token  string
	logger interfaces.Logger
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the transport. The client's timeout is left as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default transport.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithLogger sets the client logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		c.logger = logging.Or(logger)
	}
}

// New builds a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    routeGroup,
				BaseURL: base,
				Paths: map[string]string{
					routePosts:    "/posts",
					routePost:     "/posts/:id",
					routePostHTML: "/posts/:id/html",
				},
			},
		},
	})

	c := &Client{
		http:   &http.Client{Timeout: defaultTimeout},
		routes: manager.Group(routeGroup),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", ErrBaseURLInvalid
	}
	return strings.TrimRight(raw, "/"), nil
}

type envelope struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	Message string       `json:"message,omitempty"`
	Post    *posts.Post  `json:"post,omitempty"`
	Posts   []posts.Post `json:"posts,omitempty"`
	HTML    string       `json:"html,omitempty"`
}

// ListPosts fetches the post summaries, newest first. Returned posts carry no content.
func (c *Client) ListPosts(ctx context.Context) ([]posts.Post, error) {
	endpoint, err := c.endpoint(routePosts, "")
	if err != nil {
		return nil, err
	}
	env, err := c.do(ctx, http.MethodGet, endpoint, nil, "posts")
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, networkFailure(orMessage(env.Error, "Failed to fetch posts"), http.StatusOK, nil)
	}
	if env.Posts == nil {
		return []posts.Post{}, nil
	}
	return env.Posts, nil
}

// GetPost fetches one post with its content.
func (c *Client) GetPost(ctx context.Context, id string) (posts.Post, error) {
	endpoint, err := c.endpoint(routePost, id)
	if err != nil {
		return posts.Post{}, err
	}
	env, err := c.do(ctx, http.MethodGet, endpoint, nil, "post")
	if err != nil {
		return posts.Post{}, err
	}
	if !env.Success || env.Post == nil {
		return posts.Post{}, notFound(http.StatusOK)
	}
	return *env.Post, nil
}

// RenderPost fetches the server-rendered HTML of a post body.
func (c *Client) RenderPost(ctx context.Context, id string) (string, error) {
	endpoint, err := c.endpoint(routePostHTML, id)
	if err != nil {
		return "", err
	}
	env, err := c.do(ctx, http.MethodGet, endpoint, nil, "post")
	if err != nil {
		return "", err
	}
	if !env.Success {
		return "", notFound(http.StatusOK)
	}
	return env.HTML, nil
}

// CreatePost publishes a new post and returns it with its assigned id.
func (c *Client) CreatePost(ctx context.Context, req posts.CreatePostRequest) (posts.Post, error) {
	endpoint, err := c.endpoint(routePosts, "")
	if err != nil {
		return posts.Post{}, err
	}
	return c.mutate(ctx, http.MethodPost, endpoint, req)
}

// UpdatePost merges req onto the stored post.
func (c *Client) UpdatePost(ctx context.Context, id string, req posts.UpdatePostRequest) (posts.Post, error) {
	endpoint, err := c.endpoint(routePost, id)
	if err != nil {
		return posts.Post{}, err
	}
	return c.mutate(ctx, http.MethodPut, endpoint, req)
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	endpoint, err := c.endpoint(routePost, id)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodDelete, endpoint, nil, "post")
	return err
}

func (c *Client) mutate(ctx context.Context, method, endpoint string, payload any) (posts.Post, error) {
	env, err := c.do(ctx, method, endpoint, payload, "post")
	if err != nil {
		return posts.Post{}, err
	}
	if !env.Success || env.Post == nil {
		return posts.Post{}, networkFailure(orMessage(env.Error, "Failed to save post"), http.StatusOK, nil)
	}
	return *env.Post, nil
}

func (c *Client) endpoint(route, id string) (string, error) {
	builder := c.routes.Builder(route)
	if route != routePosts {
		id = strings.TrimSpace(id)
		if id == "" {
			return "", ErrIDRequired
		}
		builder.WithParam("id", id)
	}
	return builder.Build()
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any, what string) (*envelope, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	requestID := identity.RequestID()
	req.Header.Set("X-Request-ID", requestID)

	logger := logging.WithRequest(c.logger, requestID)
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("client.request.failed", "method", method, "url", endpoint, "error", err)
		return nil, networkFailure(err.Error(), 0, err)
	}
	defer resp.Body.Close()

	logger.Debug("client.request", "method", method, "url", endpoint, "status", resp.StatusCode, "took", time.Since(started))

	var env envelope
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&env)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, notFound(resp.StatusCode)
	case resp.StatusCode == http.StatusBadRequest && decodeErr == nil && env.Error != "":
		return nil, rejected(resp.StatusCode, env.Error)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, statusFailure(what, resp.StatusCode)
	case decodeErr != nil:
		return nil, networkFailure("Invalid response from server", resp.StatusCode, decodeErr)
	}
	return &env, nil
}

func orMessage(msg, fallback string) string {
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}

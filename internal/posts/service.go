package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-blog/internal/kv"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// KeyPrefix namespaces post records in the key-value store.
const KeyPrefix = "post:"

// Service exposes post management use-cases.
type Service interface {
	List(ctx context.Context) ([]Summary, error)
	Get(ctx context.Context, id string) (*Post, error)
	Create(ctx context.Context, req CreatePostRequest) (*Post, error)
	Update(ctx context.Context, id string, req UpdatePostRequest) (*Post, error)
	Delete(ctx context.Context, id string) error
	// Save writes post under its own id, replacing any stored value.
	Save(ctx context.Context, post Post) (*Post, error)
	// Seed saves the posts whose ids are not stored yet and reports how many were written.
	Seed(ctx context.Context, posts []Post) (int, error)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to assign ids.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		s.logger = logging.Or(logger)
	}
}

type service struct {
	store  kv.Store
	now    func() time.Time
	logger interfaces.Logger
	// serialises id assignment
	createMu sync.Mutex
}

// NewService constructs a post service over store.
func NewService(store kv.Store, opts ...ServiceOption) Service {
	s := &service{
		store:  store,
		now:    time.Now,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Key returns the store key for a post id.
func Key(id string) string {
	return KeyPrefix + id
}

func (s *service) List(ctx context.Context) ([]Summary, error) {
	entries, err := s.store.GetByPrefix(ctx, KeyPrefix)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		post, err := decodePost(entry.Value)
		if err != nil {
			s.logger.Warn("posts.list.skip_corrupt", "key", entry.Key, "error", err)
			continue
		}
		summaries = append(summaries, post.Summarize())
	}
	SortNewestFirst(summaries)
	return summaries, nil
}

func (s *service) Get(ctx context.Context, id string) (*Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrPostIDRequired
	}
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *service) Create(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	id, err := s.nextID(ctx)
	if err != nil {
		return nil, err
	}
	post := req.post(id)
	if err := s.put(ctx, post); err != nil {
		return nil, err
	}
	logging.WithPost(s.logger, id).Info("post.created", "title", post.Title)
	return &post, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdatePostRequest) (*Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrPostIDRequired
	}
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := req.apply(existing)
	updated.ID = id
	if err := s.put(ctx, updated); err != nil {
		return nil, err
	}
	logging.WithPost(s.logger, id).Info("post.updated")
	return &updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrPostIDRequired
	}
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.store.Del(ctx, Key(id)); err != nil {
		return err
	}
	logging.WithPost(s.logger, id).Info("post.deleted")
	return nil
}

func (s *service) Save(ctx context.Context, post Post) (*Post, error) {
	post.ID = strings.TrimSpace(post.ID)
	if post.ID == "" {
		return nil, ErrPostIDRequired
	}
	req := CreatePostRequest{
		Title:   post.Title,
		Date:    post.Date,
		Author:  post.Author,
		Excerpt: post.Excerpt,
		Content: post.Content,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	applyDefaults(&post)
	if err := s.put(ctx, post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *service) Seed(ctx context.Context, posts []Post) (int, error) {
	written := 0
	for _, post := range posts {
		_, err := s.store.Get(ctx, Key(post.ID))
		switch {
		case err == nil:
			continue
		case !errors.Is(err, kv.ErrNotFound):
			return written, err
		}
		if _, err := s.Save(ctx, post); err != nil {
			return written, fmt.Errorf("posts: seed %s: %w", post.ID, err)
		}
		written++
	}
	if written > 0 {
		s.logger.Info("posts.seeded", "count", written)
	}
	return written, nil
}

func (s *service) load(ctx context.Context, id string) (Post, error) {
	raw, err := s.store.Get(ctx, Key(id))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return Post{}, ErrPostNotFound
		}
		return Post{}, err
	}
	return decodePost(raw)
}

func (s *service) put(ctx context.Context, post Post) error {
	raw, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("posts: encode %s: %w", post.ID, err)
	}
	return s.store.Set(ctx, Key(post.ID), raw)
}

// nextID derives an id from the clock in milliseconds, bumping it past any
// id already taken.
func (s *service) nextID(ctx context.Context) (string, error) {
	candidate := s.now().UnixMilli()
	for {
		id := strconv.FormatInt(candidate, 10)
		_, err := s.store.Get(ctx, Key(id))
		if errors.Is(err, kv.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
		candidate++
	}
}

func decodePost(raw []byte) (Post, error) {
	var post Post
	if err := json.Unmarshal(raw, &post); err != nil {
		return Post{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return post, nil
}

// SortNewestFirst orders summaries by publication date, newest first. Entries
// with unparseable dates sort last; ties keep their input order.
func SortNewestFirst(summaries []Summary) {
	slices.SortStableFunc(summaries, func(a, b Summary) int {
		ta, okA := ParseDate(a.Date)
		tb, okB := ParseDate(b.Date)
		switch {
		case okA && okB:
			return tb.Compare(ta)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "January 2, 2006"}

// ParseDate reads the date formats posts are written with.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

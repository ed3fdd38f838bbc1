package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	recordNamespace = "kv_entry"
	// defaultPageSize is the number of rows read per query during a prefix scan.
	defaultPageSize = 500
)

// BunStore persists entries in a SQL table through go-repository-bun. When a
// cache service is supplied reads go through a read-through cache that is
// invalidated by prefix after every write.
type BunStore struct {
	db           *bun.DB
	base         repository.Repository[*Record]
	repo         repository.Repository[*Record]
	cacheService cache.CacheService
	cachePrefix  string
	logger       interfaces.Logger
	now          func() time.Time
	pageSize     int
}

// BunStoreOption customises a BunStore.
type BunStoreOption func(*BunStore)

// WithLogger sets the logger used for cache invalidation failures.
func WithLogger(logger interfaces.Logger) BunStoreOption {
	return func(s *BunStore) {
		s.logger = logging.Or(logger)
	}
}

// WithClock overrides the timestamp source for UpdatedAt.
func WithClock(now func() time.Time) BunStoreOption {
	return func(s *BunStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPageSize sets how many rows a prefix scan reads per query. Scans always
// return every matching entry.
func WithPageSize(n int) BunStoreOption {
	return func(s *BunStore) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// NewBunStore creates a store without caching.
func NewBunStore(db *bun.DB, opts ...BunStoreOption) *BunStore {
	return NewBunStoreWithCache(db, nil, nil, opts...)
}

// NewBunStoreWithCache creates a store whose reads are cached.
func NewBunStoreWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer, opts ...BunStoreOption) *BunStore {
	base := NewRecordRepository(db)
	repo := base
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		repo = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	store := &BunStore{
		db:           db,
		base:         base,
		repo:         repo,
		cacheService: svc,
		logger:       logging.NoOp(),
		now:          time.Now,
		pageSize:     defaultPageSize,
	}
	if svc != nil {
		store.cachePrefix = recordNamespace + cache.KeySeparator
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

// CreateSchema creates the backing table when missing.
func (s *BunStore) CreateSchema(ctx context.Context) error {
	if s.db == nil {
		return errors.New("kv: bun store requires a database")
	}
	_, err := s.db.NewCreateTable().Model((*Record)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (s *BunStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	record, err := s.repo.GetByIdentifier(ctx, key)
	if err != nil {
		return nil, mapRepositoryError(err, key)
	}
	return []byte(record.Value), nil
}

func (s *BunStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	record := &Record{
		ID:        identity.EntryUUID(key),
		Key:       key,
		Value:     string(value),
		UpdatedAt: s.now().UTC(),
	}

	_, err := s.base.GetByIdentifier(ctx, key)
	switch {
	case err == nil:
		_, err = s.base.Update(ctx, record)
	case goerrors.IsCategory(err, repository.CategoryDatabaseNotFound):
		_, err = s.base.Create(ctx, record)
	}
	if err != nil {
		return fmt.Errorf("kv: set %s: %w", key, err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *BunStore) Del(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.base.Delete(ctx, &Record{ID: identity.EntryUUID(key)}); err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil
		}
		return fmt.Errorf("kv: del %s: %w", key, err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *BunStore) GetByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	var out []Entry
	for offset := 0; ; offset += s.pageSize {
		records, _, err := s.repo.List(ctx,
			repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
				if prefix != "" {
					q = q.Where("substr(?TableAlias.key, 1, ?) = ?", len(prefix), prefix)
				}
				return q.OrderExpr("?TableAlias.key ASC")
			}),
			repository.SelectPaginate(s.pageSize, offset),
		)
		if err != nil {
			return nil, fmt.Errorf("kv: list %q: %w", prefix, err)
		}
		for _, record := range records {
			out = append(out, Entry{Key: record.Key, Value: []byte(record.Value)})
		}
		if len(records) < s.pageSize {
			break
		}
	}
	if out == nil {
		out = []Entry{}
	}
	return out, nil
}

// InvalidateCache drops every cached read of this store.
func (s *BunStore) InvalidateCache(ctx context.Context) error {
	if s.cacheService == nil || s.cachePrefix == "" {
		return nil
	}
	return s.cacheService.DeleteByPrefix(ctx, s.cachePrefix)
}

func (s *BunStore) invalidate(ctx context.Context) {
	if err := s.InvalidateCache(ctx); err != nil {
		s.logger.Warn("kv.cache.invalidate_failed", "error", err)
	}
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return fmt.Errorf("kv: get %s: %w", key, err)
}

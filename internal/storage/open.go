package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	cache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-blog/internal/kv"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var ErrProviderUnknown = errors.New("storage: unknown provider")

// Handle owns the store selected by configuration and the resources behind it.
type Handle struct {
	Store kv.Store
	DB    *bun.DB
	Cache cache.CacheService
}

// Close releases the database connection, if any.
func (h *Handle) Close() error {
	if h == nil || h.DB == nil {
		return nil
	}
	return h.DB.Close()
}

// Open builds the key-value store described by cfg. SQL providers get their
// schema created and, when caching is enabled, a read-through cache.
func Open(ctx context.Context, cfg runtimeconfig.StorageConfig, cacheCfg runtimeconfig.CacheConfig, logger interfaces.Logger) (*Handle, error) {
	logger = logging.Or(logger)

	provider := runtimeconfig.NormalizeProvider(cfg.Provider)
	if provider == "memory" {
		logger.Info("storage.opened", "provider", provider)
		return &Handle{Store: kv.NewMemoryStore()}, nil
	}

	db, err := openDB(provider, cfg.DSN)
	if err != nil {
		return nil, err
	}

	handle := &Handle{DB: db}
	opts := []kv.BunStoreOption{kv.WithLogger(logger)}

	var store *kv.BunStore
	if cacheCfg.Enabled {
		svcCfg := cache.DefaultConfig()
		if cacheCfg.TTL > 0 {
			svcCfg.TTL = cacheCfg.TTL
		}
		svc, err := cache.NewCacheService(svcCfg)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("storage: cache service: %w", err)
		}
		handle.Cache = svc
		store = kv.NewBunStoreWithCache(db, svc, cache.NewDefaultKeySerializer(), opts...)
	} else {
		store = kv.NewBunStore(db, opts...)
	}

	if err := store.CreateSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: create schema: %w", err)
	}
	handle.Store = store

	logger.Info("storage.opened", "provider", provider, "cache", cacheCfg.Enabled)
	return handle, nil
}

func openDB(provider, dsn string) (*bun.DB, error) {
	switch provider {
	case "sqlite":
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case "postgres":
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrProviderUnknown, provider)
	}
}

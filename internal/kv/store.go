package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("kv: key not found")

// ErrEmptyKey rejects blank keys before they reach a backend.
var ErrEmptyKey = errors.New("kv: key is required")

// Entry is a single stored key and its raw value.
type Entry struct {
	Key   string
	Value []byte
}

// Store is a flat string keyed store. Values are opaque bytes; callers choose
// the encoding. Del of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	// GetByPrefix returns every entry whose key starts with prefix, ordered by key.
	GetByPrefix(ctx context.Context, prefix string) ([]Entry, error)
}

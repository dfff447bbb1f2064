// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("store is closed")

// Store is a string key-value store.
// This abstraction allows swapping storage backends (SQLite, Redis, memory)
// without changing the tracker. Concurrent writes to the same key are not
// coordinated; the last completed write wins.
type Store interface {
	// Get returns the value stored under key.
	// ok is false when the key has never been set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Close releases any resources held by the store.
	Close() error
}

// Package redis provides a Redis-backed implementation of the storage.Store interface.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/TobiasBrasser/aquabalance/internal/config"
	"github.com/TobiasBrasser/aquabalance/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps every key as a plain Redis string, namespaced by a prefix.
type Store struct {
	client *goredis.Client
	prefix string
}

// NewClient creates a Redis client from the configuration.
func NewClient(cfg config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// New connects to Redis and verifies the connection with a PING.
func New(ctx context.Context, cfg config.RedisConfig) (*Store, error) {
	client := NewClient(cfg)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis at %s: %w", cfg.Address, err)
	}
	return &Store{client: client, prefix: cfg.KeyPrefix}, nil
}

// Get retrieves the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key without expiry.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

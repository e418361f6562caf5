// Package kv provides the string key-value stores the task collection is persisted to.
// Every backend treats a key as a single slot: the last write wins.
package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/BuzzLyutic/todo-tasks/internal/config"
)

var (
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrClosed         = errors.New("store is closed")
)

// Store is the get/set primitive the persistence adapter relies on.
// Get reports ok=false when the key has never been written.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

const (
	BackendMemory   = "memory"
	BackendBolt     = "bolt"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Open connects the backend named in cfg.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendBolt:
		store, err = OpenBolt(cfg.BoltPath, cfg.BoltBucket)
	case BackendRedis:
		store, err = OpenRedis(ctx, cfg.RedisURL, cfg.RedisPrefix)
	case BackendPostgres:
		store, err = OpenPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	return store, nil
}

// Package cache provides a small key/value client with in-process and Redis
// backends. The recovery flow uses it as the ledger of consumed token ids.
package cache

import (
	"context"
	"errors"
	"time"
)

// Client is safe for concurrent use.
type Client interface {
	// Get returns ErrNotFound when the key is absent or expired.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value. A zero ttl never expires.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX stores value only when key is absent and reports whether it did.
	// Exactly one of several concurrent callers wins.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

type Config struct {
	Driver   string // "memory" | "redis"
	Addr     string
	Password string
	DB       int
	Prefix   string
}

var ErrNotFound = errors.New("cache: key not found")

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// New builds the client named by cfg.Driver. Unknown drivers fall back to
// memory.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedis(ctx, cfg)
	default:
		return NewMemory(cfg.Prefix), nil
	}
}

func prefixed(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + ":" + key
}

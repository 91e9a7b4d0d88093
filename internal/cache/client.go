package cache

import (
	"context"
	"time"
)

// Client is the narrow boundary the VersionedCache wrapper depends on.
// A Redis client satisfies it directly; tests substitute an in-memory fake.
//
//go:generate mockgen -source=client.go -destination=../../tests/mocks/cache/mock_client.go -package=mocks
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Scan returns keys matching pattern. Implementations MUST NOT block on
	// this — pattern delete is advisory/best-effort per spec §4.6.
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// ErrMiss is returned by Client.Get when no value is stored for a key;
// VersionedCache.Get reports it as hit=false with a nil error.
var ErrMiss = cacheMissError{}

type cacheMissError struct{}

func (cacheMissError) Error() string { return "cache: miss" }

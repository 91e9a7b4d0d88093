package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// VersionedCache is the sole permitted cache entry point (spec §4.6, §9
// "centralize cache key assembly — forbid direct cache-client use"). Every
// key is namespaced {prefix}:{version}:{logical_key}; bumping Version at
// process startup invalidates all prior entries without a blocking flush —
// they simply age out by TTL.
type VersionedCache struct {
	client  Client
	prefix  string
	version int
	log     *logrus.Entry
}

// New builds a VersionedCache. version is read from configuration once at
// startup (spec §4.6); changing it requires a process restart.
func New(client Client, prefix string, version int, log *logrus.Entry) *VersionedCache {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &VersionedCache{client: client, prefix: prefix, version: version, log: log}
}

func (c *VersionedCache) key(logicalKey string) string {
	return c.prefix + ":" + strconv.Itoa(c.version) + ":" + logicalKey
}

// Get unmarshals the cached value for key into dst. Any parse/deserialize
// error, or an absent key, is treated as a cache miss (self-heals per spec).
func (c *VersionedCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, c.key(key))
	if err != nil {
		if errors.Is(err, ErrMiss) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("versioned cache: corrupt entry treated as miss")
		return false, nil
	}
	return true, nil
}

// Set upserts value under key with the given TTL.
func (c *VersionedCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), string(raw), ttl)
}

// Delete removes one exact key (namespaced).
func (c *VersionedCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key))
}

// DeletePattern is best-effort: it scans and deletes matching namespaced
// keys but MUST NOT be relied upon to block callers (spec §4.6). Errors are
// logged, not propagated.
func (c *VersionedCache) DeletePattern(ctx context.Context, pattern string) {
	keys, err := c.client.Scan(ctx, c.key(pattern))
	if err != nil {
		c.log.WithError(err).WithField("pattern", pattern).Warn("versioned cache: pattern delete scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...); err != nil {
		c.log.WithError(err).WithField("pattern", pattern).Warn("versioned cache: pattern delete failed")
	}
}

// Version returns the active cache version, mostly for tests and logging.
func (c *VersionedCache) Version() int { return c.version }

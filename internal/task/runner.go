package task

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"shiftledger/internal/cache"
	"shiftledger/internal/domain"
)

// Default TTLs per spec §4.7 use case.
const (
	TTLAlert           = 24 * time.Hour
	TTLDailyCleanup    = 48 * time.Hour
	TTLPayrollRecompute = 72 * time.Hour
)

// Options configures one IdempotentTaskRunner.Run call.
type Options struct {
	// SkipOnDuplicate, when true (the default), returns the cached result
	// for a duplicate key instead of executing. When false, a duplicate
	// returns ErrDuplicateExecution.
	SkipOnDuplicate bool
	// DateBased appends the current local date to the derived key, so the
	// task runs at most once per calendar day for the same arguments.
	DateBased bool
	// TTL is how long a successful completion suppresses duplicates.
	TTL time.Duration
}

// DefaultOptions returns skip-on-duplicate mode with the payroll-recompute
// TTL, the runner's most common caller.
func DefaultOptions() Options {
	return Options{SkipOnDuplicate: true, TTL: TTLPayrollRecompute}
}

// Runner decorates background task execution so a retried or duplicated
// invocation never repeats its side effects (spec §4.7).
type Runner struct {
	cache *cache.VersionedCache
	log   *logrus.Entry
}

// NewRunner builds a Runner backed by a VersionedCache — the same cache
// TimeCatalog and BulkPayrollService use, so an idempotency key lives under
// the same namespace/version invalidation scheme (spec §4.6).
func NewRunner(vc *cache.VersionedCache, log *logrus.Entry) *Runner {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Runner{cache: vc, log: log}
}

// Run executes fn under the idempotency key derived from (taskName, args),
// populating dst from either the cache hit or the task's own result.
// Failures are never cached — only a successful fn sets the key (spec §4.7
// "Invariants: failures are never cached").
func (r *Runner) Run(ctx context.Context, taskName string, args any, opts Options, dst any, fn func(ctx context.Context) error) error {
	key, err := deriveKey(taskName, args, opts.DateBased)
	if err != nil {
		return fmt.Errorf("task: deriving idempotency key: %w", err)
	}

	if hit, _ := r.cache.Get(ctx, key, dst); hit {
		if !opts.SkipOnDuplicate {
			return domain.ErrDuplicateExecution
		}
		r.log.WithField("task", taskName).WithField("key", key).Debug("task: duplicate suppressed, returning cached result")
		return nil
	}

	if err := fn(ctx); err != nil {
		return err
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = TTLPayrollRecompute
	}
	if err := r.cache.Set(ctx, key, dst, ttl); err != nil {
		r.log.WithError(err).WithField("task", taskName).Warn("task: completed but failed to persist idempotency key")
	}
	return nil
}

// deriveKey builds idempotent:{task_name}:{hash}[:date] (spec §4.7 "Key
// derivation"). args is JSON-marshaled before hashing so callers can pass
// any comparable struct.
func deriveKey(taskName string, args any, dateBased bool) (string, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	hash := hex.EncodeToString(sum[:])[:16]

	key := fmt.Sprintf("idempotent:%s:%s", taskName, hash)
	if dateBased {
		key += ":" + time.Now().Format("2006-01-02")
	}
	return key, nil
}

package retention

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"shiftledger/internal/domain"
	"shiftledger/internal/task"
)

// DefaultRetentionDays is how long a soft-deleted WorkLog survives before
// Sweep permanently removes it (spec §9 "retention sweep, default 365
// days, configurable").
const DefaultRetentionDays = 365

// Config controls one Sweeper.
type Config struct {
	RetentionDays int
	BatchSize     int
}

// DefaultConfig returns the 365-day default at a 500-row batch size.
func DefaultConfig() Config {
	return Config{RetentionDays: DefaultRetentionDays, BatchSize: 500}
}

// Sweeper permanently deletes WorkLog rows that have been soft-deleted
// longer than Config.RetentionDays. It never touches rows with
// deleted_at_soft NULL — those are live, not pending purge.
type Sweeper struct {
	db     *gorm.DB
	runner *task.Runner
	cfg    Config
	log    *logrus.Entry
}

// NewSweeper builds a Sweeper. runner makes one sweep per calendar day
// idempotent even if the scheduler double-fires (spec §4.8).
func NewSweeper(db *gorm.DB, runner *task.Runner, cfg Config, log *logrus.Entry) *Sweeper {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = DefaultRetentionDays
	}
	return &Sweeper{db: db, runner: runner, cfg: cfg, log: log}
}

// Run purges soft-deleted WorkLogs older than the retention window, in
// batches, behind IdempotentTaskRunner's date-based key so at most one
// sweep executes per day regardless of how many times it's triggered.
func (s *Sweeper) Run(ctx context.Context) error {
	name := "retention_sweep"
	args := map[string]any{"retention_days": s.cfg.RetentionDays}

	opts := task.DefaultOptions()
	opts.DateBased = true
	opts.TTL = task.TTLDailyCleanup

	var result struct{ Purged int }
	err := s.runner.Run(ctx, name, args, opts, &result, func(ctx context.Context) error {
		cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
		total := 0
		for {
			res := s.db.WithContext(ctx).
				Unscoped().
				Where("is_deleted = ? AND deleted_at_soft IS NOT NULL AND deleted_at_soft < ?", true, cutoff).
				Limit(s.cfg.BatchSize).
				Delete(&domain.WorkLog{})
			if res.Error != nil {
				return res.Error
			}
			total += int(res.RowsAffected)
			if res.RowsAffected < int64(s.cfg.BatchSize) {
				break
			}
		}
		result.Purged = total
		s.log.WithField("purged", total).WithField("cutoff", cutoff).Info("retention: sweep complete")
		return nil
	})
	return err
}

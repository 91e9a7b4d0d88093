package signals

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"shiftledger/internal/task"
	"shiftledger/internal/timecatalog"
)

// HolidayWarmer refreshes the upcoming year's holiday catalog once a day,
// idempotent per calendar day so a process restart mid-day doesn't refetch
// (spec §4.8 "24-hour holiday cache warm path").
type HolidayWarmer struct {
	catalog *timecatalog.TimeCatalog
	runner  *task.Runner
	log     *logrus.Entry
}

// NewHolidayWarmer builds a HolidayWarmer over an existing TimeCatalog.
func NewHolidayWarmer(catalog *timecatalog.TimeCatalog, runner *task.Runner, log *logrus.Entry) *HolidayWarmer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &HolidayWarmer{catalog: catalog, runner: runner, log: log}
}

// Warm refreshes the holiday list for year and year+1, so the catalog never
// falls back to estimated Shabbat-only classification for next January's
// first week purely because the refresh hadn't run yet.
func (w *HolidayWarmer) Warm(ctx context.Context, year int) error {
	name := "warm_holidays"
	args := map[string]any{"year": year}

	var dst struct{}
	opts := task.DefaultOptions()
	opts.DateBased = true
	opts.TTL = task.TTLAlert

	return w.runner.Run(ctx, name, args, opts, &dst, func(ctx context.Context) error {
		for _, y := range []int{year, year + 1} {
			if err := w.catalog.RefreshHolidays(ctx, y); err != nil {
				w.log.WithError(err).WithField("year", y).Warn("signals: holiday refresh failed")
				return err
			}
		}
		return nil
	})
}

// RunDaily blocks, calling Warm once every interval until ctx is canceled.
// Callers normally run this in its own goroutine at process startup.
func (w *HolidayWarmer) RunDaily(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := w.Warm(ctx, time.Now().Year()); err != nil {
		w.log.WithError(err).Warn("signals: initial holiday warm failed")
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Warm(ctx, time.Now().Year()); err != nil {
				w.log.WithError(err).Warn("signals: scheduled holiday warm failed")
			}
		}
	}
}

package signals_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftledger/internal/domain"
	"shiftledger/internal/signals"
	"shiftledger/internal/task"
	"shiftledger/internal/timecatalog"
)

type fakeHolidaySource struct {
	mu    sync.Mutex
	calls []int
}

func (f *fakeHolidaySource) FetchHolidays(_ context.Context, year int) ([]domain.Holiday, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, year)
	return nil, nil
}

type fakeHolidayRepo struct{}

func (f *fakeHolidayRepo) GetByDate(time.Time) (*domain.Holiday, error) { return nil, nil }
func (f *fakeHolidayRepo) GetRange(time.Time, time.Time) ([]domain.Holiday, error) {
	return nil, nil
}
func (f *fakeHolidayRepo) Replace(int, []domain.Holiday) error { return nil }

type fakeSunSource struct{}

func (fakeSunSource) FetchSun(context.Context, time.Time, float64, float64) (time.Time, time.Time, error) {
	return time.Time{}, time.Time{}, nil
}

func TestHolidayWarmer_WarmFetchesCurrentAndNextYear(t *testing.T) {
	src := &fakeHolidaySource{}
	catalog := timecatalog.New(&fakeHolidayRepo{}, src, fakeSunSource{}, noopCache(t), timecatalog.DefaultConfig(), nil)
	runner := task.NewRunner(noopCache(t), nil)
	warmer := signals.NewHolidayWarmer(catalog, runner, nil)

	require.NoError(t, warmer.Warm(context.Background(), 2026))

	src.mu.Lock()
	defer src.mu.Unlock()
	assert.ElementsMatch(t, []int{2026, 2027}, src.calls)
}

func TestHolidayWarmer_SecondCallSameDaySkips(t *testing.T) {
	src := &fakeHolidaySource{}
	catalog := timecatalog.New(&fakeHolidayRepo{}, src, fakeSunSource{}, noopCache(t), timecatalog.DefaultConfig(), nil)
	vc := noopCache(t)
	runner := task.NewRunner(vc, nil)
	warmer := signals.NewHolidayWarmer(catalog, runner, nil)

	require.NoError(t, warmer.Warm(context.Background(), 2026))
	require.NoError(t, warmer.Warm(context.Background(), 2026))

	src.mu.Lock()
	defer src.mu.Unlock()
	assert.Len(t, src.calls, 2, "second Warm call the same day must be suppressed by the idempotent runner")
}

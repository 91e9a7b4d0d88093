package timecatalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftledger/internal/cache"
	"shiftledger/internal/domain"
	"shiftledger/internal/timecatalog"
)

type fakeCacheClient struct{ store map[string]string }

func newFakeCacheClient() *fakeCacheClient { return &fakeCacheClient{store: map[string]string{}} }

func (f *fakeCacheClient) Get(_ context.Context, key string) (string, error) {
	v, ok := f.store[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}
func (f *fakeCacheClient) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.store[key] = value
	return nil
}
func (f *fakeCacheClient) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.store, k)
	}
	return nil
}
func (f *fakeCacheClient) Scan(_ context.Context, _ string) ([]string, error) { return nil, nil }

type fakeHolidayRepo struct {
	byDate map[string]domain.Holiday
}

func (r *fakeHolidayRepo) GetByDate(date time.Time) (*domain.Holiday, error) {
	h, ok := r.byDate[date.Format("2006-01-02")]
	if !ok {
		return nil, nil
	}
	return &h, nil
}
func (r *fakeHolidayRepo) GetRange(start, end time.Time) ([]domain.Holiday, error) { return nil, nil }
func (r *fakeHolidayRepo) Replace(year int, holidays []domain.Holiday) error       { return nil }

type fixedSunSource struct {
	sunrise, sunset time.Time
	err             error
}

func (f fixedSunSource) FetchSun(_ context.Context, date time.Time, lat, lng float64) (time.Time, time.Time, error) {
	if f.err != nil {
		return time.Time{}, time.Time{}, f.err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), f.sunrise.Hour(), f.sunrise.Minute(), 0, 0, time.UTC),
		time.Date(date.Year(), date.Month(), date.Day(), f.sunset.Hour(), f.sunset.Minute(), 0, 0, time.UTC), nil
}

func newCatalog(holidays map[string]domain.Holiday, sunErr error) *timecatalog.TimeCatalog {
	vc := cache.New(newFakeCacheClient(), "shiftledger", 1, nil)
	repo := &fakeHolidayRepo{byDate: holidays}
	sun := fixedSunSource{sunrise: time.Date(0, 1, 1, 6, 0, 0, 0, time.UTC), sunset: time.Date(0, 1, 1, 19, 0, 0, 0, time.UTC), err: sunErr}
	return timecatalog.New(repo, nil, sun, vc, timecatalog.DefaultConfig(), nil)
}

func TestHolidayInfo_KnownHoliday(t *testing.T) {
	date := time.Date(2026, 9, 21, 0, 0, 0, 0, time.UTC) // arbitrary known holiday date
	cat := newCatalog(map[string]domain.Holiday{
		"2026-09-21": {Date: date, Name: "Yom Kippur", Kind: domain.HolidaySpecial},
	}, nil)

	info, err := cat.HolidayInfo(context.Background(), date, 31.78, 35.22)
	require.NoError(t, err)
	assert.True(t, info.IsHoliday)
	assert.Equal(t, "Yom Kippur", info.Name)
}

func TestHolidayInfo_FridayFallsThroughToShabbat(t *testing.T) {
	friday := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Friday, friday.Weekday())

	cat := newCatalog(nil, nil)
	info, err := cat.HolidayInfo(context.Background(), friday, 31.78, 35.22)
	require.NoError(t, err)
	assert.True(t, info.IsHoliday)
	assert.Equal(t, domain.HolidayShabbat, info.Kind)
	assert.Equal(t, 18, info.Start.Hour())
	assert.Equal(t, 42, info.Start.Minute())
}

func TestHolidayInfo_WeekdayIsNotHoliday(t *testing.T) {
	monday := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Monday, monday.Weekday())

	cat := newCatalog(nil, nil)
	info, err := cat.HolidayInfo(context.Background(), monday, 31.78, 35.22)
	require.NoError(t, err)
	assert.False(t, info.IsHoliday)
}

func TestSunTimes_DegradesToEstimateOnSourceFailure(t *testing.T) {
	cat := newCatalog(nil, errors.New("upstream unavailable"))
	sunrise, sunset, err := cat.SunTimes(context.Background(), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 31.78, 35.22)
	require.NoError(t, err)
	assert.True(t, sunset.After(sunrise))
}

func TestSunTimes_CachesAcrossCalls(t *testing.T) {
	cat := newCatalog(nil, nil)
	ctx := context.Background()
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	sr1, ss1, err := cat.SunTimes(ctx, date, 31.78, 35.22)
	require.NoError(t, err)
	sr2, ss2, err := cat.SunTimes(ctx, date, 31.78, 35.22)
	require.NoError(t, err)

	assert.Equal(t, sr1, sr2)
	assert.Equal(t, ss1, ss2)
}

package shiftsplitter_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftledger/internal/cache"
	"shiftledger/internal/domain"
	"shiftledger/internal/shiftsplitter"
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

type fakeHolidayRepo struct{ byDate map[string]*domain.Holiday }

func newFakeHolidayRepo() *fakeHolidayRepo { return &fakeHolidayRepo{byDate: map[string]*domain.Holiday{}} }
func (f *fakeHolidayRepo) GetByDate(date time.Time) (*domain.Holiday, error) {
	return f.byDate[date.Format("2006-01-02")], nil
}
func (f *fakeHolidayRepo) GetRange(time.Time, time.Time) ([]domain.Holiday, error) { return nil, nil }
func (f *fakeHolidayRepo) Replace(int, []domain.Holiday) error                     { return nil }

func newTestSplitter() *shiftsplitter.Splitter {
	vc := cache.New(newFakeCacheClient(), "shiftledger", 1, nil)
	catalog := timecatalog.New(newFakeHolidayRepo(), nil, timecatalog.NOAASunSource{}, vc, timecatalog.DefaultConfig(), nil)
	return shiftsplitter.New(catalog, shiftsplitter.DefaultTierThresholds(), 31.78, 35.22)
}

func TestSplit_ExactlyAtFirstTierBoundaryHasNoOvertime(t *testing.T) {
	splitter := newTestSplitter()
	checkIn := time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC) // Monday
	checkOut := checkIn.Add(time.Duration(8.6 * float64(time.Hour)))
	log := domain.WorkLog{CheckIn: checkIn, CheckOut: &checkOut}

	segs, estimated, err := splitter.Split(context.Background(), log, map[string]decimal.Decimal{})
	require.NoError(t, err)
	_ = estimated

	require.Len(t, segs, 1)
	assert.Equal(t, domain.ClassificationRegular, segs[0].Classification)
	assert.True(t, segs[0].Hours.Sub(decimal.NewFromFloat(8.6)).Abs().LessThan(decimal.NewFromFloat(0.001)))
}

func TestSplit_ThreeOvertimeTiersPastThirdBoundary(t *testing.T) {
	splitter := newTestSplitter()
	checkIn := time.Date(2026, 8, 3, 6, 0, 0, 0, time.UTC) // Monday
	checkOut := checkIn.Add(time.Duration(13.2 * float64(time.Hour)))
	log := domain.WorkLog{CheckIn: checkIn, CheckOut: &checkOut}

	segs, _, err := splitter.Split(context.Background(), log, map[string]decimal.Decimal{})
	require.NoError(t, err)
	require.Len(t, segs, 4)

	assert.Equal(t, domain.ClassificationRegular, segs[0].Classification)
	assert.True(t, segs[0].Hours.Sub(decimal.NewFromFloat(8.6)).Abs().LessThan(decimal.NewFromFloat(0.001)))

	assert.Equal(t, domain.ClassificationOvertimeT1, segs[1].Classification)
	assert.True(t, segs[1].Hours.Sub(decimal.NewFromFloat(2)).Abs().LessThan(decimal.NewFromFloat(0.001)))

	assert.Equal(t, domain.ClassificationOvertimeT2, segs[2].Classification)
	assert.True(t, segs[2].Hours.Sub(decimal.NewFromFloat(2)).Abs().LessThan(decimal.NewFromFloat(0.001)))

	assert.Equal(t, domain.ClassificationOvertimeT3, segs[3].Classification)
	assert.True(t, segs[3].Hours.Sub(decimal.NewFromFloat(0.6)).Abs().LessThan(decimal.NewFromFloat(0.001)))
}

func TestSplit_SplitsAtMidnight(t *testing.T) {
	splitter := newTestSplitter()
	checkIn := time.Date(2026, 8, 3, 22, 0, 0, 0, time.UTC) // Monday 22:00
	checkOut := checkIn.Add(4 * time.Hour)                  // Tuesday 02:00
	log := domain.WorkLog{CheckIn: checkIn, CheckOut: &checkOut}

	segs, _, err := splitter.Split(context.Background(), log, map[string]decimal.Decimal{})
	require.NoError(t, err)

	dates := map[string]bool{}
	for _, s := range segs {
		dates[s.Date.Format("2006-01-02")] = true
	}
	assert.Len(t, dates, 2)
	assert.True(t, dates["2026-08-03"])
	assert.True(t, dates["2026-08-04"])
}

func TestSplit_ShabbatBoundarySplitsIntoFridayEveningAndPremium(t *testing.T) {
	vc := cache.New(newFakeCacheClient(), "shiftledger", 1, nil)
	catalog := timecatalog.New(newFakeHolidayRepo(), nil, timecatalog.NOAASunSource{}, vc, timecatalog.DefaultConfig(), nil)
	splitter := shiftsplitter.New(catalog, shiftsplitter.DefaultTierThresholds(), 31.78, 35.22)

	friday := time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC)
	info, err := catalog.HolidayInfo(context.Background(), friday, 31.78, 35.22)
	require.NoError(t, err)
	require.True(t, info.IsHoliday, "expected Friday to resolve to an in-progress or upcoming Shabbat window")
	require.False(t, info.Start.IsZero())

	checkIn := info.Start.Add(-2 * time.Hour)
	checkOut := info.Start.Add(2 * time.Hour)
	log := domain.WorkLog{CheckIn: checkIn, CheckOut: &checkOut}

	segs, _, err := splitter.Split(context.Background(), log, map[string]decimal.Decimal{})
	require.NoError(t, err)
	require.Len(t, segs, 2)

	assert.Equal(t, domain.ClassificationRegular, segs[0].Classification, "hours before candle-lighting stay regular")
	assert.True(t, segs[0].End.Equal(info.Start))

	assert.Equal(t, domain.ClassificationFridayEvening, segs[1].Classification, "hours past candle-lighting, still on Friday's date, are friday_evening")
	assert.True(t, segs[1].Start.Equal(info.Start))
	assert.True(t, segs[1].Multiplier.Equal(shiftsplitter.DefaultTierThresholds().PremiumBaseMult))
}

func TestSplit_OrdinaryFridayDaytimeStaysRegular(t *testing.T) {
	vc := cache.New(newFakeCacheClient(), "shiftledger", 1, nil)
	catalog := timecatalog.New(newFakeHolidayRepo(), nil, timecatalog.NOAASunSource{}, vc, timecatalog.DefaultConfig(), nil)
	splitter := shiftsplitter.New(catalog, shiftsplitter.DefaultTierThresholds(), 31.78, 35.22)

	friday := time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC)
	info, err := catalog.HolidayInfo(context.Background(), friday, 31.78, 35.22)
	require.NoError(t, err)
	require.False(t, info.Start.IsZero())

	checkIn := time.Date(2026, 8, 7, 8, 0, 0, 0, time.UTC) // well before candle-lighting
	checkOut := checkIn.Add(4 * time.Hour)
	require.True(t, checkOut.Before(info.Start), "fixture shift must end before Shabbat starts")
	log := domain.WorkLog{CheckIn: checkIn, CheckOut: &checkOut}

	segs, _, err := splitter.Split(context.Background(), log, map[string]decimal.Decimal{})
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, domain.ClassificationRegular, segs[0].Classification, "ordinary Friday daytime work must not be mislabeled friday_evening")
}

func TestSplit_OpenShiftReturnsNoSegments(t *testing.T) {
	splitter := newTestSplitter()
	log := domain.WorkLog{CheckIn: time.Now()}

	segs, estimated, err := splitter.Split(context.Background(), log, map[string]decimal.Decimal{})
	require.NoError(t, err)
	assert.Nil(t, segs)
	assert.False(t, estimated)
}

func TestSplit_AccumulatesHoursAcrossMultipleShiftsSameDay(t *testing.T) {
	splitter := newTestSplitter()
	day := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	hoursBefore := map[string]decimal.Decimal{day.Format("2006-01-02"): decimal.NewFromFloat(8)}

	checkIn := day.Add(20 * time.Hour)
	checkOut := checkIn.Add(2 * time.Hour)
	log := domain.WorkLog{CheckIn: checkIn, CheckOut: &checkOut}

	segs, _, err := splitter.Split(context.Background(), log, hoursBefore)
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, domain.ClassificationRegular, segs[0].Classification)
	assert.True(t, segs[0].Hours.Sub(decimal.NewFromFloat(0.6)).Abs().LessThan(decimal.NewFromFloat(0.001)))
	assert.Equal(t, domain.ClassificationOvertimeT1, segs[1].Classification)
}

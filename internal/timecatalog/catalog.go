package timecatalog

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"shiftledger/internal/cache"
	"shiftledger/internal/domain"
	"shiftledger/internal/repository"
)

// Config holds the tunables TimeCatalog needs from spec §6's configuration
// table: sabbath offsets and cache TTLs.
type Config struct {
	CandleOffset       time.Duration // default 18 minutes, before Friday sunset
	HavdalahOffset     time.Duration // default 40 minutes, after Saturday sunset
	HolidayCacheTTL    time.Duration // default 7 days
	SunTimesCacheTTL   time.Duration // indefinite in practice; callers pass a long TTL
	ExternalCallTimeout time.Duration // default 10s (spec §5)
	DisableEstimates    bool          // when true, a live+cache miss is fatal (ErrTimeSourceUnavailable) instead of degrading
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		CandleOffset:        18 * time.Minute,
		HavdalahOffset:      40 * time.Minute,
		HolidayCacheTTL:     7 * 24 * time.Hour,
		SunTimesCacheTTL:    365 * 24 * time.Hour,
		ExternalCallTimeout: 10 * time.Second,
	}
}

// HolidayInfo is the resolved classification for one calendar date.
type HolidayInfo struct {
	Kind        domain.HolidayKind
	Name        string
	Start       time.Time
	End         time.Time
	IsHoliday   bool
	IsEstimated bool // true when any sun time backing this classification came from the degrade-to-estimate path
}

// TimeCatalog answers holiday and sunrise/sunset questions, backed by a
// HolidayRepository, injectable HolidaySource/SunSource collaborators, and
// a VersionedCache — so a holiday-schema change is invalidated by bumping
// cache.version rather than pattern-matching keys (spec §4.1 key design
// decision).
type TimeCatalog struct {
	holidayRepo repository.HolidayRepository
	holidaySrc  HolidaySource
	sunSrc      SunSource
	cache       *cache.VersionedCache
	cfg         Config
	log         *logrus.Entry
}

// New builds a TimeCatalog.
func New(holidayRepo repository.HolidayRepository, holidaySrc HolidaySource, sunSrc SunSource, vc *cache.VersionedCache, cfg Config, log *logrus.Entry) *TimeCatalog {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &TimeCatalog{holidayRepo: holidayRepo, holidaySrc: holidaySrc, sunSrc: sunSrc, cache: vc, cfg: cfg, log: log}
}

// HolidayInfo consults the Holiday store; unknown dates fall through to
// astronomical Shabbat classification (spec §4.1).
func (c *TimeCatalog) HolidayInfo(ctx context.Context, date time.Time, lat, lng float64) (HolidayInfo, error) {
	cacheKey := fmt.Sprintf("holiday:%s", date.Format("2006-01-02"))

	var cached HolidayInfo
	if hit, err := c.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	holiday, err := c.holidayRepo.GetByDate(date)
	if err != nil {
		return HolidayInfo{}, err
	}

	info, err := c.classify(ctx, date, lat, lng, holiday)
	if err != nil {
		return HolidayInfo{}, err
	}

	_ = c.cache.Set(ctx, cacheKey, info, c.cfg.HolidayCacheTTL)
	return info, nil
}

func (c *TimeCatalog) classify(ctx context.Context, date time.Time, lat, lng float64, holiday *domain.Holiday) (HolidayInfo, error) {
	if holiday != nil {
		info := HolidayInfo{Kind: holiday.Kind, Name: holiday.Name, IsHoliday: true}
		if holiday.StartTime != nil {
			info.Start = *holiday.StartTime
		}
		if holiday.EndTime != nil {
			info.End = *holiday.EndTime
		}

		// A recorded holiday carrying its own start can coincide with the
		// Friday/Saturday Shabbat window (spec §9 Open Question #1); resolve
		// the tie by taking whichever window starts later, wholesale.
		if !info.Start.IsZero() && holiday.Kind != domain.HolidayShabbat &&
			(date.Weekday() == time.Friday || date.Weekday() == time.Saturday) {
			shabbatStart, shabbatEnd, isShabbat, estimated, err := c.shabbatWindow(ctx, date, lat, lng)
			if err != nil {
				return HolidayInfo{}, err
			}
			if isShabbat && shabbatStart.After(info.Start) {
				return HolidayInfo{Kind: domain.HolidayShabbat, Name: "Shabbat", Start: shabbatStart, End: shabbatEnd, IsHoliday: true, IsEstimated: estimated}, nil
			}
		}
		return info, nil
	}

	shabbatStart, shabbatEnd, isShabbat, estimated, err := c.shabbatWindow(ctx, date, lat, lng)
	if err != nil {
		return HolidayInfo{}, err
	}
	if isShabbat {
		return HolidayInfo{Kind: domain.HolidayShabbat, Name: "Shabbat", Start: shabbatStart, End: shabbatEnd, IsHoliday: true, IsEstimated: estimated}, nil
	}
	return HolidayInfo{IsHoliday: false}, nil
}

// shabbatWindow reports whether `date` falls inside the Friday-sunset (minus
// candle offset) through Saturday-havdalah (plus offset) window, and the
// window's bounds. A Friday date is "in Shabbat" only after candle-lighting;
// a Saturday date is always in Shabbat until havdalah.
func (c *TimeCatalog) shabbatWindow(ctx context.Context, date time.Time, lat, lng float64) (start, end time.Time, isShabbat, estimated bool, err error) {
	switch date.Weekday() {
	case time.Friday:
		_, sunset, est1, serr := c.sunTimesWithFlag(ctx, date, lat, lng)
		if serr != nil {
			return time.Time{}, time.Time{}, false, false, serr
		}
		start = sunset.Add(-c.cfg.CandleOffset)
		saturday := date.AddDate(0, 0, 1)
		_, satSunset, est2, serr := c.sunTimesWithFlag(ctx, saturday, lat, lng)
		if serr != nil {
			return time.Time{}, time.Time{}, false, false, serr
		}
		end = satSunset.Add(c.cfg.HavdalahOffset)
		return start, end, true, est1 || est2, nil
	case time.Saturday:
		friday := date.AddDate(0, 0, -1)
		_, friSunset, est1, serr := c.sunTimesWithFlag(ctx, friday, lat, lng)
		if serr != nil {
			return time.Time{}, time.Time{}, false, false, serr
		}
		start = friSunset.Add(-c.cfg.CandleOffset)
		_, satSunset, est2, serr := c.sunTimesWithFlag(ctx, date, lat, lng)
		if serr != nil {
			return time.Time{}, time.Time{}, false, false, serr
		}
		end = satSunset.Add(c.cfg.HavdalahOffset)
		return start, end, true, est1 || est2, nil
	default:
		return time.Time{}, time.Time{}, false, false, nil
	}
}

// SunTimes returns sunrise/sunset for (date, lat, lng), querying the cached
// external astronomical source with a bounded timeout, degrading to a
// deterministic midday-offset estimate on failure (spec §4.1, §5).
func (c *TimeCatalog) SunTimes(ctx context.Context, date time.Time, lat, lng float64) (sunrise, sunset time.Time, err error) {
	sunrise, sunset, _, err = c.sunTimesWithFlag(ctx, date, lat, lng)
	return sunrise, sunset, err
}

// sunTimesWithFlag is SunTimes plus whether the value came from the
// degrade-to-estimate path, consumed internally so HolidayInfo can report
// PayrollResult.Degraded accurately.
func (c *TimeCatalog) sunTimesWithFlag(ctx context.Context, date time.Time, lat, lng float64) (sunrise, sunset time.Time, estimated bool, err error) {
	cacheKey := fmt.Sprintf("sun:%s:%.2f:%.2f", date.Format("2006-01-02"), lat, lng)

	var cached domain.SunsetRecord
	if hit, gerr := c.cache.Get(ctx, cacheKey, &cached); gerr == nil && hit {
		return cached.Sunrise, cached.Sunset, cached.IsEstimated, nil
	}

	record, err := c.fetchOrEstimate(ctx, date, lat, lng)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}

	_ = c.cache.Set(ctx, cacheKey, record, c.cfg.SunTimesCacheTTL)
	return record.Sunrise, record.Sunset, record.IsEstimated, nil
}

func (c *TimeCatalog) fetchOrEstimate(ctx context.Context, date time.Time, lat, lng float64) (domain.SunsetRecord, error) {
	if c.sunSrc != nil {
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.ExternalCallTimeout)
		defer cancel()

		sunrise, sunset, err := c.sunSrc.FetchSun(callCtx, date, lat, lng)
		if err == nil {
			return domain.SunsetRecord{Date: date, Lat: lat, Lng: lng, Sunrise: sunrise, Sunset: sunset}, nil
		}
		c.log.WithError(err).WithField("date", date.Format("2006-01-02")).Warn("timecatalog: sun source failed, degrading to estimate")
	}

	if c.cfg.DisableEstimates {
		return domain.SunsetRecord{}, domain.ErrTimeSourceUnavailable
	}

	return estimate(date, lat, lng), nil
}

// estimate produces a deterministic sunrise/sunset pair from fixed offsets
// from local midday, used when the live source and cache both miss (spec
// §4.1 "returns a deterministic estimate... with is_estimated=true").
func estimate(date time.Time, lat, lng float64) domain.SunsetRecord {
	midday := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, date.Location())

	// A coarse seasonal adjustment: longer days in northern-hemisphere
	// summer, shorter in winter, scaled by |lat|; this is an estimate, not
	// an ephemeris — good enough to keep payroll computation available
	// when the live source is down.
	season := math.Sin(2 * math.Pi * float64(date.YearDay()) / 365.25)
	latFactor := math.Min(math.Abs(lat)/90.0, 1.0)
	swingHours := 2.0 * latFactor * season

	sunrise := midday.Add(time.Duration(-6*float64(time.Hour)) - time.Duration(swingHours*float64(time.Hour)))
	sunset := midday.Add(time.Duration(6*float64(time.Hour)) + time.Duration(swingHours*float64(time.Hour)))

	return domain.SunsetRecord{Date: date, Lat: lat, Lng: lng, Sunrise: sunrise, Sunset: sunset, IsEstimated: true}
}

// HolidaysInRange returns the batch variant of HolidayInfo for every date in
// [start, end] (spec §4.1 "holidays_in_range").
func (c *TimeCatalog) HolidaysInRange(ctx context.Context, start, end time.Time, lat, lng float64) (map[string]HolidayInfo, error) {
	out := make(map[string]HolidayInfo)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		info, err := c.HolidayInfo(ctx, d, lat, lng)
		if err != nil {
			return nil, err
		}
		out[d.Format("2006-01-02")] = info
	}
	return out, nil
}

// RefreshHolidays fetches the year's holidays from HolidaySource and
// replaces the catalog wholesale. It does not evict cached HolidayInfo
// entries: a date already cached (including a cached non-holiday result)
// keeps its cached answer until HolidayCacheTTL expires.
func (c *TimeCatalog) RefreshHolidays(ctx context.Context, year int) error {
	holidays, err := c.holidaySrc.FetchHolidays(ctx, year)
	if err != nil {
		return err
	}
	return c.holidayRepo.Replace(year, holidays)
}

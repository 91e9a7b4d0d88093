package shiftsplitter

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"shiftledger/internal/domain"
	"shiftledger/internal/timecatalog"
)

// TierThresholds are the daily cumulative-hour boundaries and multipliers
// that define overtime tiers (spec §4.4.a, configurable via
// payroll.overtime_tiers).
type TierThresholds struct {
	T1Start    decimal.Decimal // 8.6
	T2Start    decimal.Decimal // 10.6
	T3Start    decimal.Decimal // 12.6
	T1Mult     decimal.Decimal // 1.25
	T2Mult     decimal.Decimal // 1.50
	T3Mult     decimal.Decimal // 1.75
	BaseMult   decimal.Decimal // 1.00
	PremiumBaseMult decimal.Decimal // 1.50 (Shabbat/holiday replaces the base multiplier)
	PremiumT1Mult   decimal.Decimal // 1.75
	PremiumT2Mult   decimal.Decimal // 2.00
}

// DefaultTierThresholds returns the spec's documented defaults.
func DefaultTierThresholds() TierThresholds {
	return TierThresholds{
		T1Start:         decimal.NewFromFloat(8.6),
		T2Start:         decimal.NewFromFloat(10.6),
		T3Start:         decimal.NewFromFloat(12.6),
		BaseMult:        decimal.NewFromInt(1),
		T1Mult:          decimal.NewFromFloat(1.25),
		T2Mult:          decimal.NewFromFloat(1.50),
		T3Mult:          decimal.NewFromFloat(1.75),
		PremiumBaseMult: decimal.NewFromFloat(1.50),
		PremiumT1Mult:   decimal.NewFromFloat(1.75),
		PremiumT2Mult:   decimal.NewFromFloat(2.00),
	}
}

// Splitter converts closed WorkLogs into classified PayrollSegments.
type Splitter struct {
	catalog *timecatalog.TimeCatalog
	tiers   TierThresholds
	lat     float64
	lng     float64
}

// New builds a Splitter. lat/lng locate the organization for sunset/sunrise
// and Shabbat-window computation.
func New(catalog *timecatalog.TimeCatalog, tiers TierThresholds, lat, lng float64) *Splitter {
	return &Splitter{catalog: catalog, tiers: tiers, lat: lat, lng: lng}
}

// subInterval is a [start,end) slice of one WorkLog that falls entirely
// within one calendar date.
type subInterval struct {
	date  time.Time
	start time.Time
	end   time.Time
}

// Split breaks one closed WorkLog into per-day sub-intervals (spec §4.3
// step 1), classifies each by date (step 2), then applies the overtime tier
// algorithm using hoursBeforeByDate — the cumulative hours already worked
// that calendar date from earlier WorkLogs — so that multiple shifts on the
// same day tier correctly against each other (step 3). Segments are
// returned in ascending time order, ties broken by classification enum
// order (spec "Output ordering").
func (s *Splitter) Split(ctx context.Context, log domain.WorkLog, hoursBeforeByDate map[string]decimal.Decimal) ([]domain.PayrollSegment, bool, error) {
	if log.CheckOut == nil {
		return nil, false, nil
	}

	subs := splitAtMidnight(log.CheckIn, *log.CheckOut)

	var segments []domain.PayrollSegment
	var usedEstimate bool
	for _, sub := range subs {
		subSegments, estimated, err := s.classifyAndTier(ctx, log, sub, hoursBeforeByDate)
		if err != nil {
			return nil, false, err
		}
		segments = append(segments, subSegments...)
		usedEstimate = usedEstimate || estimated
	}

	sort.SliceStable(segments, func(i, j int) bool {
		if !segments[i].Start.Equal(segments[j].Start) {
			return segments[i].Start.Before(segments[j].Start)
		}
		return segments[i].Classification < segments[j].Classification
	})

	return segments, usedEstimate, nil
}

// splitAtMidnight breaks [start, end) into per-local-day pieces.
func splitAtMidnight(start, end time.Time) []subInterval {
	var out []subInterval
	cur := start
	for cur.Before(end) {
		dayEnd := nextMidnight(cur)
		if dayEnd.After(end) {
			dayEnd = end
		}
		out = append(out, subInterval{date: truncateDay(cur), start: cur, end: dayEnd})
		cur = dayEnd
	}
	return out
}

func nextMidnight(t time.Time) time.Time {
	d := truncateDay(t)
	return d.AddDate(0, 0, 1)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// classifyAndTier classifies one sub-interval (regular / Shabbat / holiday /
// Friday evening, splitting further at computed Shabbat start when a Friday
// sub-interval straddles sunset), then tiers it against the day's
// already-accumulated hours.
func (s *Splitter) classifyAndTier(ctx context.Context, log domain.WorkLog, sub subInterval, hoursBeforeByDate map[string]decimal.Decimal) ([]domain.PayrollSegment, bool, error) {
	info, err := s.catalog.HolidayInfo(ctx, sub.date, s.lat, s.lng)
	if err != nil {
		return nil, false, err
	}

	pieces := s.splitAtShabbatHolidayBoundary(sub, info)

	dateKey := sub.date.Format("2006-01-02")
	priorHours := hoursBeforeByDate[dateKey]

	var segments []domain.PayrollSegment
	for _, p := range pieces {
		segs := s.tierPiece(log, p, priorHours)
		for _, seg := range segs {
			priorHours = priorHours.Add(seg.Hours)
		}
		segments = append(segments, segs...)
	}
	hoursBeforeByDate[dateKey] = priorHours

	return segments, info.IsEstimated, nil
}

// piece is a sub-interval already tagged with whether it falls in a
// Shabbat/holiday premium window and a "Friday evening, pre-Shabbat"
// carve-out.
type piece struct {
	start, end time.Time
	premium    bool
	holiday    bool // true = holiday-style premium naming, false = Shabbat-style
	fridayEve  bool
}

// splitAtShabbatHolidayBoundary further splits a sub-interval at the
// computed Shabbat/holiday start when it straddles the boundary. The
// holiday-vs-Shabbat tie-break from spec §9 Open Question #1 (whichever
// window starts later wins) is resolved upstream in
// timecatalog.TimeCatalog.classify, which hands back a single effective
// window here.
func (s *Splitter) splitAtShabbatHolidayBoundary(sub subInterval, info timecatalog.HolidayInfo) []piece {
	if !info.IsHoliday || info.Start.IsZero() {
		return []piece{{start: sub.start, end: sub.end}}
	}

	// The piece genuinely inside the premium window, on Friday's calendar
	// date, is "friday_evening" rather than "sabbath_base" (spec §8
	// boundary behaviors); elsewhere on the Shabbat window (Saturday) or
	// for holidays it stays sabbath_base/holiday_base.
	fridayEve := sub.start.Weekday() == time.Friday && info.Kind == domain.HolidayShabbat

	boundary := info.Start
	if !boundary.After(sub.start) {
		// Already inside the window for its entire duration.
		return []piece{{start: sub.start, end: sub.end, premium: true, holiday: info.Kind != domain.HolidayShabbat, fridayEve: fridayEve}}
	}
	if !boundary.Before(sub.end) {
		// Window starts at/after this sub-interval ends: not yet premium,
		// plain regular/overtime hours regardless of how close to sunset.
		return []piece{{start: sub.start, end: sub.end}}
	}

	return []piece{
		{start: sub.start, end: boundary},
		{start: boundary, end: sub.end, premium: true, holiday: info.Kind != domain.HolidayShabbat, fridayEve: fridayEve},
	}
}

// tierPiece applies the overtime tier algorithm to one piece, given the
// hours already accumulated that day before this piece starts.
func (s *Splitter) tierPiece(log domain.WorkLog, p piece, priorHours decimal.Decimal) []domain.PayrollSegment {
	duration := p.end.Sub(p.start)
	if duration <= 0 {
		return nil
	}
	hours := decimal.NewFromFloat(duration.Hours())

	type band struct {
		from, to decimal.Decimal
		mult     decimal.Decimal
		class    domain.Classification
	}

	var bands []band
	if p.premium {
		baseClass, t1Class, t2Class := domain.ClassificationSabbathBase, domain.ClassificationSabbathOvertimeT1, domain.ClassificationSabbathOvertimeT2
		if p.holiday {
			baseClass, t1Class, t2Class = domain.ClassificationHolidayBase, domain.ClassificationHolidayOvertimeT1, domain.ClassificationHolidayOvertimeT2
		} else if p.fridayEve {
			baseClass = domain.ClassificationFridayEvening
		}
		bands = []band{
			{decimal.Zero, s.tiers.T1Start, s.tiers.PremiumBaseMult, baseClass},
			{s.tiers.T1Start, s.tiers.T2Start, s.tiers.PremiumT1Mult, t1Class},
			{s.tiers.T2Start, decimal.NewFromInt(1 << 20), s.tiers.PremiumT2Mult, t2Class},
		}
	} else {
		bands = []band{
			{decimal.Zero, s.tiers.T1Start, s.tiers.BaseMult, domain.ClassificationRegular},
			{s.tiers.T1Start, s.tiers.T2Start, s.tiers.T1Mult, domain.ClassificationOvertimeT1},
			{s.tiers.T2Start, s.tiers.T3Start, s.tiers.T2Mult, domain.ClassificationOvertimeT2},
			{s.tiers.T3Start, decimal.NewFromInt(1 << 20), s.tiers.T3Mult, domain.ClassificationOvertimeT3},
		}
	}

	var segments []domain.PayrollSegment
	remaining := hours
	cursor := priorHours
	segStart := p.start

	for _, b := range bands {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		bandCapacity := b.to.Sub(cursor)
		if bandCapacity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		take := decimal.Min(bandCapacity, remaining)
		if take.LessThanOrEqual(decimal.Zero) {
			continue
		}

		segEnd := segStart.Add(toDuration(take))
		segments = append(segments, domain.PayrollSegment{
			EmployeeID:     log.EmployeeID,
			WorkLogID:      log.ID,
			Date:           truncateDay(p.start),
			Classification: b.class,
			Start:          segStart,
			End:            segEnd,
			Hours:          take,
			Multiplier:     b.mult,
		})

		segStart = segEnd
		cursor = cursor.Add(take)
		remaining = remaining.Sub(take)
	}

	return segments
}

func toDuration(hours decimal.Decimal) time.Duration {
	f, _ := hours.Float64()
	return time.Duration(f * float64(time.Hour))
}

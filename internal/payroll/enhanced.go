package payroll

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"shiftledger/internal/domain"
	"shiftledger/internal/timecatalog"
)

// enhancedStrategy implements the full §4.4 algorithm: tiered overtime,
// Shabbat/holiday premium stacking, monthly proportional base pay,
// compensatory-day accrual, and compliance warnings.
type enhancedStrategy struct {
	deps Dependencies
	log  *logrus.Entry
}

func (s *enhancedStrategy) Calculate(ctx context.Context, employeeID uuid.UUID, year, month int, fastMode bool) (*domain.PayrollResult, error) {
	result, _, err := s.CalculateDetailed(ctx, employeeID, year, month, fastMode)
	return result, err
}

func (s *enhancedStrategy) CalculateDetailed(ctx context.Context, employeeID uuid.UUID, year, month int, fastMode bool) (*domain.PayrollResult, []domain.PayrollSegment, error) {
	salary, err := s.deps.Salaries.GetActive(employeeID)
	if err != nil {
		return nil, nil, err
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	logs, err := s.deps.WorkLogs.ListForRange(employeeID, monthStart, monthEnd)
	if err != nil {
		return nil, nil, err
	}

	result := &domain.PayrollResult{
		EmployeeID: employeeID,
		Year:       year,
		Month:      month,
		RatesUsed:  map[domain.Classification]decimal.Decimal{},
	}

	if len(logs) == 0 {
		return result, nil, nil
	}

	var allSegments []domain.PayrollSegment
	hoursBeforeByDate := map[string]decimal.Decimal{}
	degraded := false

	for _, l := range logs {
		if l.CheckOut == nil {
			continue // open shifts contribute nothing until closed
		}
		segs, estimated, err := s.deps.Splitter.Split(ctx, l, hoursBeforeByDate)
		if err != nil {
			return nil, nil, err
		}
		degraded = degraded || estimated
		allSegments = append(allSegments, clipToMonth(segs, monthStart, monthEnd)...)
	}

	if len(allSegments) == 0 {
		result.Degraded = degraded
		return result, nil, nil
	}

	rate := hourlyRate(salary)
	if salary.CalculationType == domain.CalculationMonthly && s.deps.StandardMonthlyHours.IsPositive() {
		rate = salary.BaseSalary.Div(s.deps.StandardMonthlyHours)
	}
	for i := range allSegments {
		allSegments[i].HourlyRate = rate
	}

	byClass := map[domain.Classification]*domain.RateBreakdown{}
	byDate := map[string]*domain.DayBreakdown{}
	var dateOrder []string

	for _, seg := range allSegments {
		b, ok := byClass[seg.Classification]
		if !ok {
			b = &domain.RateBreakdown{Classification: seg.Classification, Rate: rate, Multiplier: seg.Multiplier}
			byClass[seg.Classification] = b
		}
		b.Hours = b.Hours.Add(seg.Hours)
		b.Amount = b.Amount.Add(seg.Amount())

		dateKey := seg.Date.Format("2006-01-02")
		db, ok := byDate[dateKey]
		if !ok {
			db = &domain.DayBreakdown{Date: seg.Date}
			byDate[dateKey] = db
			dateOrder = append(dateOrder, dateKey)
		}
		db.Hours = db.Hours.Add(seg.Hours)
		db.Gross = db.Gross.Add(seg.Amount())
		db.Segments = append(db.Segments, domain.RateBreakdown{
			Classification: seg.Classification, Hours: seg.Hours, Rate: rate, Multiplier: seg.Multiplier, Amount: seg.Amount(),
		})

		result.TotalHours = result.TotalHours.Add(seg.Hours)
		if seg.Classification.Premium() {
			result.SpecialHours = result.SpecialHours.Add(seg.Hours)
		} else if seg.Classification == domain.ClassificationRegular || seg.Classification == domain.ClassificationFridayEvening {
			result.RegularHours = result.RegularHours.Add(seg.Hours)
		} else {
			result.OvertimeHours = result.OvertimeHours.Add(seg.Hours)
		}
	}

	for class, b := range byClass {
		result.Breakdown = append(result.Breakdown, *b)
		result.RatesUsed[class] = rate.Mul(b.Multiplier)
	}
	sort.Slice(result.Breakdown, func(i, j int) bool { return result.Breakdown[i].Classification < result.Breakdown[j].Classification })

	if !fastMode {
		sort.Strings(dateOrder)
		for _, k := range dateOrder {
			result.DailyPays = append(result.DailyPays, *byDate[k])
		}
	}

	basePay, err := s.basePay(ctx, salary, allSegments, result)
	if err != nil {
		return nil, nil, err
	}
	result.BasePay = basePay

	result.BonusesPay = s.bonusesPay(salary, byClass, rate)
	result.TotalPay = result.BasePay.Add(result.BonusesPay)

	warnings := s.complianceWarnings(allSegments, logs)
	result.ComplianceWarnings = warnings
	result.Degraded = degraded

	earned, balance, err := s.accrueCompensatoryDays(employeeID, allSegments)
	if err != nil {
		return nil, nil, err
	}
	result.CompensatoryDaysEarned = earned
	result.CompensatoryBalance = balance

	result.Round()
	return result, allSegments, nil
}

// clipToMonth drops segments whose date falls outside [monthStart, monthEnd)
// — a WorkLog overlapping the month boundary contributes only its in-month
// portion to this month's PayrollResult.
func clipToMonth(segs []domain.PayrollSegment, monthStart, monthEnd time.Time) []domain.PayrollSegment {
	var out []domain.PayrollSegment
	for _, seg := range segs {
		if !seg.Date.Before(monthStart) && seg.Date.Before(monthEnd) {
			out = append(out, seg)
		}
	}
	return out
}

// hourlyRate resolves the rate to apply to PayrollSegments: the salary's
// own hourly_rate for hourly/project-hourly employees, or the statutory
// effective hourly rate (base_salary/185) for monthly employees, used only
// to price the premium-only portion (spec §4.4.b). The enhanced strategy
// replaces the 185 with Dependencies.StandardMonthlyHours when that is set.
func hourlyRate(salary *domain.Salary) decimal.Decimal {
	switch salary.CalculationType {
	case domain.CalculationHourly:
		return *salary.HourlyRate
	case domain.CalculationMonthly:
		return salary.BaseSalary.Div(decimal.NewFromInt(185))
	case domain.CalculationProject:
		if salary.HourlyRate != nil {
			return *salary.HourlyRate
		}
		return decimal.Zero
	default:
		return decimal.Zero
	}
}

// basePay computes BasePay per calculation type. For hourly employees this
// is the sum of every segment's amount (base, overtime, and premium all
// priced at the tiered multiplier). For monthly employees it is the
// proportional base salary; the premium portion is added separately in
// BonusesPay. For project employees with base_salary set, it is the flat
// amount; with only hourly_rate set, it behaves like hourly.
func (s *enhancedStrategy) basePay(ctx context.Context, salary *domain.Salary, segments []domain.PayrollSegment, result *domain.PayrollResult) (decimal.Decimal, error) {
	switch salary.CalculationType {
	case domain.CalculationHourly:
		total := decimal.Zero
		for _, seg := range segments {
			total = total.Add(seg.Amount())
		}
		return total, nil
	case domain.CalculationMonthly:
		businessDays, err := countBusinessDays(ctx, s.deps.Catalog, result.Year, result.Month, s.deps.Lat, s.deps.Lng)
		if err != nil {
			return decimal.Zero, err
		}
		worked, err := workedBusinessDays(ctx, s.deps.Catalog, segments, s.deps.Lat, s.deps.Lng)
		if err != nil {
			return decimal.Zero, err
		}
		if businessDays == 0 {
			return decimal.Zero, nil
		}
		proportion := decimal.NewFromInt(int64(worked)).Div(decimal.NewFromInt(int64(businessDays)))
		return salary.BaseSalary.Mul(proportion), nil
	case domain.CalculationProject:
		if salary.BaseSalary != nil {
			return *salary.BaseSalary, nil
		}
		total := decimal.Zero
		for _, seg := range segments {
			total = total.Add(seg.Amount())
		}
		return total, nil
	default:
		return decimal.Zero, fmt.Errorf("payroll: unhandled calculation_type %q", salary.CalculationType)
	}
}

// bonusesPay computes BonusesPay per calculation type. Hourly and
// project-hourly employees already have every segment's full tiered amount
// folded into BasePay, so their bonus is zero. Monthly employees pay only
// the premium-over-base portion here, since the base 1.00× is already
// covered by the proportional base salary (spec §4.4.b). Flat project
// salaries don't apply premiums at all (spec §4.4.c).
func (s *enhancedStrategy) bonusesPay(salary *domain.Salary, byClass map[domain.Classification]*domain.RateBreakdown, rate decimal.Decimal) decimal.Decimal {
	if salary.CalculationType != domain.CalculationMonthly {
		return decimal.Zero
	}
	bonuses := decimal.Zero
	for _, b := range byClass {
		if !b.Classification.Premium() {
			continue
		}
		premiumOnlyMultiplier := b.Multiplier.Sub(decimal.NewFromInt(1))
		bonuses = bonuses.Add(b.Hours.Mul(rate).Mul(premiumOnlyMultiplier))
	}
	return bonuses
}

// workedBusinessDays counts the distinct calendar dates with at least one
// non-premium segment — Shabbat/holiday days are excluded, matching
// countBusinessDays' denominator, since those days are compensated through
// bonusesPay instead of the proportional base.
func workedBusinessDays(ctx context.Context, catalog *timecatalog.TimeCatalog, segments []domain.PayrollSegment, lat, lng float64) (int, error) {
	seen := map[string]struct{}{}
	for _, seg := range segments {
		if seg.Classification.Premium() {
			continue
		}
		key := seg.Date.Format("2006-01-02")
		if _, ok := seen[key]; ok {
			continue
		}
		info, err := catalog.HolidayInfo(ctx, seg.Date, lat, lng)
		if err != nil {
			return 0, err
		}
		if !info.IsHoliday {
			seen[key] = struct{}{}
		}
	}
	return len(seen), nil
}

// countBusinessDays counts the dates in (year, month) that TimeCatalog does
// not classify as a holiday (which, per HolidayInfo's Friday/Saturday
// fallthrough, already excludes the Shabbat weekend).
func countBusinessDays(ctx context.Context, catalog *timecatalog.TimeCatalog, year, month int, lat, lng float64) (int, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		info, err := catalog.HolidayInfo(ctx, d, lat, lng)
		if err != nil {
			return 0, err
		}
		if !info.IsHoliday {
			count++
		}
	}
	return count, nil
}

// complianceWarnings flags daily totals exceeding the warn threshold, daily
// totals exceeding the hard cap without acknowledgement, and weekly
// overtime totals exceeding the statutory cap (spec §4.4.a).
func (s *enhancedStrategy) complianceWarnings(segments []domain.PayrollSegment, logs []domain.WorkLog) []string {
	var warnings []string

	dailyHours := map[string]decimal.Decimal{}
	dailyWorkLogs := map[string]map[uuid.UUID]struct{}{}
	weeklyOvertime := map[string]decimal.Decimal{}
	for _, seg := range segments {
		dateKey := seg.Date.Format("2006-01-02")
		dailyHours[dateKey] = dailyHours[dateKey].Add(seg.Hours)

		ids, ok := dailyWorkLogs[dateKey]
		if !ok {
			ids = map[uuid.UUID]struct{}{}
			dailyWorkLogs[dateKey] = ids
		}
		ids[seg.WorkLogID] = struct{}{}

		if isOvertimeClass(seg.Classification) {
			year, week := seg.Date.ISOWeek()
			weekKey := fmt.Sprintf("%d-W%02d", year, week)
			weeklyOvertime[weekKey] = weeklyOvertime[weekKey].Add(seg.Hours)
		}
	}

	acknowledged := map[uuid.UUID]bool{}
	for _, l := range logs {
		acknowledged[l.ID] = l.LongShiftAcknowledged
	}

	for date, hours := range dailyHours {
		if hours.GreaterThanOrEqual(s.deps.DailyWarnHours) {
			warnings = append(warnings, fmt.Sprintf("%s: daily hours %s exceeded %s hour warning threshold", date, hours.String(), s.deps.DailyWarnHours.String()))
		}
		if hours.GreaterThan(s.deps.DailyHardCapHours) {
			dayAcknowledged := false
			for id := range dailyWorkLogs[date] {
				if acknowledged[id] {
					dayAcknowledged = true
					break
				}
			}
			if !dayAcknowledged {
				warnings = append(warnings, fmt.Sprintf("%s: daily hours %s exceeded %s hour hard cap without long_shift_acknowledged", date, hours.String(), s.deps.DailyHardCapHours.String()))
			}
		}
	}
	for week, hours := range weeklyOvertime {
		if hours.GreaterThan(s.deps.WeeklyOvertimeCap) {
			warnings = append(warnings, fmt.Sprintf("%s: weekly overtime %s exceeded %s hour cap", week, hours.String(), s.deps.WeeklyOvertimeCap.String()))
		}
	}

	for _, l := range logs {
		if l.CheckOut == nil {
			continue
		}
		if l.CheckOut.Sub(l.CheckIn) > domain.MaxShiftHours-time.Hour && !l.LongShiftAcknowledged {
			warnings = append(warnings, fmt.Sprintf("worklog %s: shift duration near max without acknowledgement", l.ID))
		}
	}

	sort.Strings(warnings)
	return warnings
}

func isOvertimeClass(c domain.Classification) bool {
	switch c {
	case domain.ClassificationOvertimeT1, domain.ClassificationOvertimeT2, domain.ClassificationOvertimeT3, domain.ClassificationOvertimeT4,
		domain.ClassificationSabbathOvertimeT1, domain.ClassificationSabbathOvertimeT2,
		domain.ClassificationHolidayOvertimeT1, domain.ClassificationHolidayOvertimeT2:
		return true
	default:
		return false
	}
}

// accrueCompensatoryDays credits one CompensatoryDay per distinct calendar
// date with a premium segment, idempotent per (employee, date) (spec
// §4.4.d), and returns the count newly earned this run plus the employee's
// current unused balance.
func (s *enhancedStrategy) accrueCompensatoryDays(employeeID uuid.UUID, segments []domain.PayrollSegment) (earned int, balance int, err error) {
	premiumDates := map[string]domain.CompensatoryReason{}
	for _, seg := range segments {
		if !seg.Classification.Premium() {
			continue
		}
		dateKey := seg.Date.Format("2006-01-02")
		reason := domain.CompensatoryShabbat
		if seg.Classification == domain.ClassificationHolidayBase || seg.Classification == domain.ClassificationHolidayOvertimeT1 || seg.Classification == domain.ClassificationHolidayOvertimeT2 {
			reason = domain.CompensatoryHoliday
		}
		premiumDates[dateKey] = reason
	}

	for dateKey, reason := range premiumDates {
		date, parseErr := time.Parse("2006-01-02", dateKey)
		if parseErr != nil {
			return 0, 0, parseErr
		}
		created, createErr := s.deps.CompDays.CreateIfAbsent(&domain.CompensatoryDay{EmployeeID: employeeID, EarnedDate: date, Reason: reason})
		if createErr != nil {
			return 0, 0, createErr
		}
		if created {
			earned++
		}
	}

	balance, err = s.deps.CompDays.Balance(employeeID)
	if err != nil {
		return 0, 0, err
	}
	return earned, balance, nil
}

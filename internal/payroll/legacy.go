package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shiftledger/internal/domain"
)

// legacyStrategy reproduces the pre-tiering payroll behavior: every worked
// hour is paid at a flat rate with no overtime tiers and no Shabbat/holiday
// premium. Kept only so historical months calculated under the old rules
// can be reproduced on demand; NewStrategy never selects it by default
// (spec §9 "Dynamic strategy selection").
type legacyStrategy struct {
	deps Dependencies
}

func (s *legacyStrategy) Calculate(ctx context.Context, employeeID uuid.UUID, year, month int, fastMode bool) (*domain.PayrollResult, error) {
	result, _, err := s.CalculateDetailed(ctx, employeeID, year, month, fastMode)
	return result, err
}

func (s *legacyStrategy) CalculateDetailed(ctx context.Context, employeeID uuid.UUID, year, month int, fastMode bool) (*domain.PayrollResult, []domain.PayrollSegment, error) {
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

	rate := hourlyRate(salary)
	totalHours := decimal.Zero
	var dailyPays []domain.DayBreakdown
	var segments []domain.PayrollSegment

	for _, l := range logs {
		if l.CheckOut == nil {
			continue
		}
		end := *l.CheckOut
		if end.After(monthEnd) {
			end = monthEnd
		}
		start := l.CheckIn
		if start.Before(monthStart) {
			start = monthStart
		}
		hours := decimal.NewFromFloat(end.Sub(start).Hours())
		if hours.LessThanOrEqual(decimal.Zero) {
			continue
		}
		totalHours = totalHours.Add(hours)

		dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		segments = append(segments, domain.PayrollSegment{
			EmployeeID:     employeeID,
			WorkLogID:      l.ID,
			Date:           dayStart,
			Classification: domain.ClassificationRegular,
			Start:          start,
			End:            end,
			Hours:          hours,
			HourlyRate:     rate,
			Multiplier:     decimal.NewFromInt(1),
		})

		if !fastMode {
			dailyPays = append(dailyPays, domain.DayBreakdown{
				Date:  dayStart,
				Hours: hours,
				Gross: hours.Mul(rate),
				Segments: []domain.RateBreakdown{{
					Classification: domain.ClassificationRegular,
					Hours:          hours,
					Rate:           rate,
					Multiplier:     decimal.NewFromInt(1),
					Amount:         hours.Mul(rate),
				}},
			})
		}
	}

	result.TotalHours = totalHours
	result.RegularHours = totalHours
	result.DailyPays = dailyPays
	result.RatesUsed[domain.ClassificationRegular] = rate
	result.Breakdown = []domain.RateBreakdown{{
		Classification: domain.ClassificationRegular,
		Hours:          totalHours,
		Rate:           rate,
		Multiplier:     decimal.NewFromInt(1),
		Amount:         totalHours.Mul(rate),
	}}

	switch salary.CalculationType {
	case domain.CalculationProject:
		if salary.BaseSalary != nil {
			result.BasePay = *salary.BaseSalary
			break
		}
		result.BasePay = totalHours.Mul(rate)
	default:
		result.BasePay = totalHours.Mul(rate)
	}
	result.TotalPay = result.BasePay

	result.Round()
	return result, segments, nil
}

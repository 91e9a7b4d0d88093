// Package recalc holds the shared "write a PayrollResult + its segments to
// the derived tables" logic that both BulkPayrollService and the
// per-shift recompute signal need, so the two callers never drift on how a
// MonthlyPayrollSummary/DailyPayrollCalculation pair is assembled.
package recalc

import (
	"github.com/google/uuid"

	"shiftledger/internal/domain"
	"shiftledger/internal/repository"
)

// PersistResult upserts summary's MonthlyPayrollSummary row and replaces
// every affected WorkLog's DailyPayrollCalculation rows in one call. The
// writes do not share one transaction: the summary upsert and each
// WorkLog's replacement commit on their own, so an error part-way leaves
// the earlier writes in place.
func PersistResult(summaries repository.MonthlyPayrollSummaryRepository, dailyCalcs repository.DailyPayrollCalculationRepository, employeeID uuid.UUID, year, month int, result *domain.PayrollResult, segments []domain.PayrollSegment) error {
	summary := &domain.MonthlyPayrollSummary{
		EmployeeID:             employeeID,
		Year:                   year,
		Month:                  month,
		TotalHours:             result.TotalHours,
		RegularHours:           result.RegularHours,
		OvertimeHours:          result.OvertimeHours,
		SpecialHours:           result.SpecialHours,
		BasePay:                result.BasePay,
		BonusesPay:             result.BonusesPay,
		TotalPay:               result.TotalPay,
		CompensatoryDaysEarned: result.CompensatoryDaysEarned,
		Degraded:               result.Degraded,
	}
	if err := summaries.Upsert(summary); err != nil {
		return err
	}

	byWorkLog := map[uuid.UUID][]domain.PayrollSegment{}
	for _, seg := range segments {
		byWorkLog[seg.WorkLogID] = append(byWorkLog[seg.WorkLogID], seg)
	}
	for workLogID, segs := range byWorkLog {
		rows := make([]domain.DailyPayrollCalculation, 0, len(segs))
		for _, seg := range segs {
			rows = append(rows, domain.DailyPayrollCalculation{
				EmployeeID:         employeeID,
				WorkDate:           seg.Date,
				WorkLogID:          workLogID,
				TotalHours:         seg.Hours,
				GrossPay:           seg.Amount(),
				CompensatoryEarned: seg.Classification.Premium(),
			})
		}
		if err := dailyCalcs.ReplaceForWorkLog(nil, workLogID, rows); err != nil {
			return err
		}
	}
	return nil
}

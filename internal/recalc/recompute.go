package recalc

import (
	"context"

	"github.com/google/uuid"

	"shiftledger/internal/payroll"
	"shiftledger/internal/repository"
)

// Recomputer runs a Strategy for one employee-month and persists the
// result, the unit of work Signals.Dispatcher enqueues on every check-in,
// check-out, and soft-delete (spec §4.8).
type Recomputer struct {
	strategy   payroll.Strategy
	summaries  repository.MonthlyPayrollSummaryRepository
	dailyCalcs repository.DailyPayrollCalculationRepository
}

// NewRecomputer builds a Recomputer over an already-resolved Strategy
// (cmd/server passes payroll.Enhanced, so a shift edit never re-derives a
// month under the legacy formula).
func NewRecomputer(strategy payroll.Strategy, summaries repository.MonthlyPayrollSummaryRepository, dailyCalcs repository.DailyPayrollCalculationRepository) *Recomputer {
	return &Recomputer{strategy: strategy, summaries: summaries, dailyCalcs: dailyCalcs}
}

// Run computes and persists employeeID's payroll for year/month.
func (r *Recomputer) Run(ctx context.Context, employeeID uuid.UUID, year, month int) error {
	result, segments, err := r.strategy.CalculateDetailed(ctx, employeeID, year, month, false)
	if err != nil {
		return err
	}
	return PersistResult(r.summaries, r.dailyCalcs, employeeID, year, month, result, segments)
}

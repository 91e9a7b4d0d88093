package payroll

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"shiftledger/internal/domain"
	"shiftledger/internal/repository"
	"shiftledger/internal/shiftsplitter"
	"shiftledger/internal/timecatalog"
)

// Strategy computes a PayrollResult for one employee-month (spec §4.4).
type Strategy interface {
	Calculate(ctx context.Context, employeeID uuid.UUID, year, month int, fastMode bool) (*domain.PayrollResult, error)

	// CalculateDetailed is Calculate plus the classified segments that
	// produced it, keyed back to their originating WorkLog, so callers that
	// persist DailyPayrollCalculation rows (BulkPayrollService, the
	// per-shift recalc signal) don't have to re-run the splitter.
	CalculateDetailed(ctx context.Context, employeeID uuid.UUID, year, month int, fastMode bool) (*domain.PayrollResult, []domain.PayrollSegment, error)
}

// Name is the closed sum type replacing a free-form strategy-name string
// (spec §9 "Dynamic strategy selection").
type Name string

const (
	Enhanced Name = "enhanced"
	Legacy   Name = "legacy"
)

// Dependencies are the collaborators every Strategy implementation needs.
type Dependencies struct {
	WorkLogs repository.WorkLogRepository
	Salaries repository.SalaryRepository
	CompDays repository.CompensatoryDayRepository
	Splitter *shiftsplitter.Splitter
	Catalog  *timecatalog.TimeCatalog
	Lat, Lng float64

	StandardMonthlyHours decimal.Decimal // default 185
	WeeklyOvertimeCap    decimal.Decimal // default 16
	DailyWarnHours       decimal.Decimal // default 12
	DailyHardCapHours    decimal.Decimal // default 16; distinct from the weekly overtime cap
}

// DefaultDependencies fills in the spec-documented numeric defaults,
// leaving the repository/collaborator fields for the caller to set.
func DefaultDependencies() Dependencies {
	return Dependencies{
		StandardMonthlyHours: decimal.NewFromInt(185),
		WeeklyOvertimeCap:    decimal.NewFromInt(16),
		DailyWarnHours:       decimal.NewFromInt(12),
		DailyHardCapHours:    decimal.NewFromInt(16),
	}
}

// NewStrategy resolves a Name to a concrete Strategy at a single factory
// (spec §9): unrecognized names fall back to Enhanced with a deprecation
// log rather than failing, mirroring the source's tolerant string dispatch
// without reintroducing it.
func NewStrategy(name Name, deps Dependencies, log *logrus.Entry) Strategy {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	switch name {
	case Legacy:
		return &legacyStrategy{deps: deps}
	case Enhanced:
		return &enhancedStrategy{deps: deps, log: log}
	default:
		log.WithField("requested_strategy", string(name)).Warn("payroll: unknown strategy name, defaulting to enhanced")
		return &enhancedStrategy{deps: deps, log: log}
	}
}

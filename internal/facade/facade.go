package facade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"shiftledger/internal/bulk"
	"shiftledger/internal/domain"
	"shiftledger/internal/payroll"
	"shiftledger/internal/repository"
	"shiftledger/internal/signals"
)

// Facade is the single entry point HTTP handlers, cron jobs, and the CLI
// all call through — the rest of the system (routing, auth, admin UI,
// report rendering) sits outside this package and is expected to call it
// with an already-authenticated employee/actor ID (spec §1 "Non-goals").
type Facade struct {
	dispatcher *signals.Dispatcher
	worklogs   repository.WorkLogRepository
	strategies map[payroll.Name]payroll.Strategy
	bulkSvc    *bulk.Service
	log        *logrus.Entry
}

// New builds a Facade. strategyDeps is used to construct both the Enhanced
// and Legacy strategies up front so CalculatePayroll can pick either
// without re-resolving dependencies per call.
func New(dispatcher *signals.Dispatcher, worklogs repository.WorkLogRepository, strategyDeps payroll.Dependencies, bulkSvc *bulk.Service, log *logrus.Entry) *Facade {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Facade{
		dispatcher: dispatcher,
		worklogs:   worklogs,
		strategies: map[payroll.Name]payroll.Strategy{
			payroll.Enhanced: payroll.NewStrategy(payroll.Enhanced, strategyDeps, log),
			payroll.Legacy:   payroll.NewStrategy(payroll.Legacy, strategyDeps, log),
		},
		bulkSvc: bulkSvc,
		log:     log,
	}
}

// CheckInRequest is the input to CheckIn.
type CheckInRequest struct {
	EmployeeID uuid.UUID
	CheckIn    time.Time
	Location   string
}

// CheckIn opens a new shift for an employee (spec §3 "check_in").
func (f *Facade) CheckIn(ctx context.Context, req CheckInRequest) (*domain.WorkLog, error) {
	log := &domain.WorkLog{
		EmployeeID: req.EmployeeID,
		CheckIn:    req.CheckIn,
		LocationIn: req.Location,
	}
	if err := f.dispatcher.CheckIn(ctx, log, signals.WriteOptions{}); err != nil {
		return nil, err
	}
	return log, nil
}

// CheckOutRequest is the input to CheckOut.
type CheckOutRequest struct {
	WorkLogID             uuid.UUID
	CheckOut              time.Time
	Location              string
	LongShiftAcknowledged bool
}

// CheckOut closes an employee's open shift (spec §3 "check_out"). A shift
// longer than MaxShiftHours is rejected unless the caller already confirmed
// LongShiftAcknowledged on the record beforehand; the facade itself does
// not set that flag — it is set by whatever upstream flow collected the
// acknowledgement (kept out of scope per spec's admin-UI Non-goal).
func (f *Facade) CheckOut(ctx context.Context, req CheckOutRequest) (*domain.WorkLog, error) {
	return f.dispatcher.CheckOut(ctx, req.WorkLogID, req.CheckOut, req.Location, signals.WriteOptions{})
}

// SoftDeleteWorkLog removes a shift from payroll consideration without
// destroying its audit trail (spec §3 "soft_delete_worklog").
func (f *Facade) SoftDeleteWorkLog(ctx context.Context, workLogID, deletedBy uuid.UUID) error {
	return f.dispatcher.SoftDelete(ctx, workLogID, deletedBy, signals.WriteOptions{})
}

// ListActiveSessions returns an employee's currently open shifts — normally
// zero or one, but callers should not assume exactly one (spec §3
// "list_active_sessions").
func (f *Facade) ListActiveSessions(ctx context.Context, employeeID uuid.UUID) ([]domain.WorkLog, error) {
	return f.worklogs.ListActive(employeeID)
}

// CalculatePayrollRequest is the input to CalculatePayroll.
type CalculatePayrollRequest struct {
	EmployeeID uuid.UUID
	Year       int
	Month      int
	Strategy   payroll.Name
	FastMode   bool
}

// CalculatePayroll computes one employee's payroll for one month (spec §4
// "calculate_payroll"). Strategy defaults to Enhanced when unset.
func (f *Facade) CalculatePayroll(ctx context.Context, req CalculatePayrollRequest) (*domain.PayrollResult, error) {
	name := req.Strategy
	if name == "" {
		name = payroll.Enhanced
	}
	strategy, ok := f.strategies[name]
	if !ok {
		strategy = f.strategies[payroll.Enhanced]
	}
	return strategy.Calculate(ctx, req.EmployeeID, req.Year, req.Month, req.FastMode)
}

// BulkCalculatePayroll runs CalculatePayroll across many employees in one
// batch (spec §4.5 "bulk_calculate_payroll").
func (f *Facade) BulkCalculatePayroll(ctx context.Context, employeeIDs []uuid.UUID, year, month int, opts bulk.Options) (*bulk.Result, error) {
	return f.bulkSvc.Run(ctx, employeeIDs, year, month, opts)
}

package signals

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"shiftledger/internal/domain"
	"shiftledger/internal/repository"
	"shiftledger/internal/task"
)

// WriteOptions governs whether a WorkLog mutation through Dispatcher fires
// its usual follow-up signal. Bulk imports and migrations set BypassHooks so
// one write doesn't enqueue thousands of individual recalculations (spec §9
// "replace framework-wide save hooks with explicit domain events").
type WriteOptions struct {
	BypassHooks bool
}

// RecalcPayrollFunc performs the actual payroll recomputation for one
// employee-month. Dispatcher only owns enqueuing it exactly once per
// triggering write, via IdempotentTaskRunner; cmd/server passes
// recalc.Recomputer.Run, which has this signature.
type RecalcPayrollFunc func(ctx context.Context, employeeID uuid.UUID, year, month int) error

// Dispatcher wraps WorkLogRepository so every check-in, check-out, and
// soft-delete enqueues a recalc_payroll task instead of callers having to
// remember to trigger recomputation themselves (spec §4.8 "Signals").
type Dispatcher struct {
	logs    repository.WorkLogRepository
	bus     *task.Bus
	runner  *task.Runner
	recalc  RecalcPayrollFunc
	log     *logrus.Entry
}

// NewDispatcher wires a Dispatcher over an existing WorkLogRepository. recalc
// is called in the background via bus, deduplicated by runner so a burst of
// check-ins for the same employee/month collapses into one recomputation.
func NewDispatcher(logs repository.WorkLogRepository, bus *task.Bus, runner *task.Runner, recalc RecalcPayrollFunc, log *logrus.Entry) *Dispatcher {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Dispatcher{logs: logs, bus: bus, runner: runner, recalc: recalc, log: log}
}

// CheckIn opens a new shift and, unless opts.BypassHooks, enqueues a
// recalculation for the shift's month.
func (d *Dispatcher) CheckIn(ctx context.Context, log *domain.WorkLog, opts WriteOptions) error {
	if err := d.logs.OpenShift(log); err != nil {
		return err
	}
	if !opts.BypassHooks {
		d.enqueueRecalc(ctx, log.EmployeeID, log.CheckIn)
	}
	return nil
}

// CheckOut closes the employee's open shift and, unless opts.BypassHooks,
// enqueues a recalculation for both the check-in and check-out month (a
// shift spanning midnight on the last day of the month touches both).
func (d *Dispatcher) CheckOut(ctx context.Context, id uuid.UUID, checkOut time.Time, locationOut string, opts WriteOptions) (*domain.WorkLog, error) {
	updated, err := d.logs.CloseShift(id, checkOut, locationOut)
	if err != nil {
		return nil, err
	}
	if !opts.BypassHooks {
		d.enqueueRecalc(ctx, updated.EmployeeID, updated.CheckIn)
		d.enqueueRecalc(ctx, updated.EmployeeID, checkOut)
	}
	return updated, nil
}

// SoftDelete removes a WorkLog from payroll consideration and, unless
// opts.BypassHooks, enqueues a recalculation so its contribution is removed
// from any already-cached or persisted summary.
func (d *Dispatcher) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID, opts WriteOptions) error {
	existing, err := d.logs.GetByID(id)
	if err != nil {
		return err
	}
	if err := d.logs.SoftDelete(id, deletedBy); err != nil {
		return err
	}
	if !opts.BypassHooks {
		d.enqueueRecalc(ctx, existing.EmployeeID, existing.CheckIn)
	}
	return nil
}

func (d *Dispatcher) enqueueRecalc(ctx context.Context, employeeID uuid.UUID, at time.Time) {
	year, month := at.Year(), int(at.Month())
	name := "recalc_payroll"
	args := map[string]any{"employee_id": employeeID.String(), "year": year, "month": month}

	job := task.Job{
		Name: name,
		Run: func(ctx context.Context) error {
			var dst struct{}
			return d.runner.Run(ctx, name, args, task.DefaultOptions(), &dst, func(ctx context.Context) error {
				return d.recalc(ctx, employeeID, year, month)
			})
		},
	}
	if err := d.bus.Enqueue(ctx, job); err != nil {
		d.log.WithError(err).WithFields(logrus.Fields{
			"employee_id": employeeID, "year": year, "month": month,
		}).Warn("signals: failed to enqueue payroll recalculation")
	}
}

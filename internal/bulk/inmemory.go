package bulk

import (
	"time"

	"github.com/google/uuid"

	"shiftledger/internal/domain"
)

// inMemoryWorkLogRepo satisfies repository.WorkLogRepository over a
// preloaded slice of one employee's WorkLogs for one month, so
// PayrollStrategy can run without issuing a query per employee — the whole
// batch's WorkLogs are loaded once by Service.Run (spec §4.5 data-loading
// protocol, step 2).
type inMemoryWorkLogRepo struct {
	employeeID uuid.UUID
	logs       []domain.WorkLog
}

func (r *inMemoryWorkLogRepo) OpenShift(*domain.WorkLog) error { return errUnsupported }
func (r *inMemoryWorkLogRepo) CloseShift(uuid.UUID, time.Time, string) (*domain.WorkLog, error) {
	return nil, errUnsupported
}
func (r *inMemoryWorkLogRepo) SoftDelete(uuid.UUID, uuid.UUID) error { return errUnsupported }
func (r *inMemoryWorkLogRepo) GetByID(uuid.UUID) (*domain.WorkLog, error) {
	return nil, errUnsupported
}
func (r *inMemoryWorkLogRepo) ListActive(uuid.UUID) ([]domain.WorkLog, error) {
	return nil, errUnsupported
}
func (r *inMemoryWorkLogRepo) ListForRange(employeeID uuid.UUID, _, _ time.Time) ([]domain.WorkLog, error) {
	if employeeID != r.employeeID {
		return nil, nil
	}
	return r.logs, nil
}
func (r *inMemoryWorkLogRepo) ListForRangeIncludingDeleted(uuid.UUID, time.Time, time.Time) ([]domain.WorkLog, error) {
	return nil, errUnsupported
}
func (r *inMemoryWorkLogRepo) ListForRangeAllEmployees(time.Time, time.Time) ([]domain.WorkLog, error) {
	return nil, errUnsupported
}
func (r *inMemoryWorkLogRepo) BulkCreate([]domain.WorkLog) error { return errUnsupported }

// inMemorySalaryRepo returns a single preloaded Salary regardless of the id
// requested, since Service already resolved the active salary per employee
// in its one employees+salary query.
type inMemorySalaryRepo struct {
	salary *domain.Salary
}

func (r *inMemorySalaryRepo) GetActive(uuid.UUID) (*domain.Salary, error) {
	if r.salary == nil {
		return nil, domain.ErrNoActiveSalary
	}
	return r.salary, nil
}
func (r *inMemorySalaryRepo) ListActiveForEmployees([]uuid.UUID) ([]domain.Salary, error) {
	return nil, errUnsupported
}
func (r *inMemorySalaryRepo) Create(*domain.Salary) error { return errUnsupported }
func (r *inMemorySalaryRepo) Deactivate(uuid.UUID) error  { return errUnsupported }

// inMemoryHolidayRepo backs TimeCatalog with the batch's single preloaded
// Holiday query (spec §4.5 step 3) instead of a per-date lookup, so
// classifying every segment of every employee's shifts costs zero
// additional database round-trips.
type inMemoryHolidayRepo struct {
	byDate map[string]*domain.Holiday
}

func newInMemoryHolidayRepo(holidays []domain.Holiday) *inMemoryHolidayRepo {
	byDate := make(map[string]*domain.Holiday, len(holidays))
	for i := range holidays {
		byDate[holidays[i].Date.Format("2006-01-02")] = &holidays[i]
	}
	return &inMemoryHolidayRepo{byDate: byDate}
}

func (r *inMemoryHolidayRepo) GetByDate(date time.Time) (*domain.Holiday, error) {
	return r.byDate[date.Format("2006-01-02")], nil
}
func (r *inMemoryHolidayRepo) GetRange(time.Time, time.Time) ([]domain.Holiday, error) {
	return nil, errUnsupported
}
func (r *inMemoryHolidayRepo) Replace(int, []domain.Holiday) error { return errUnsupported }

type unsupportedErr struct{}

func (unsupportedErr) Error() string { return "bulk: operation not supported on the in-memory batch repository" }

var errUnsupported = unsupportedErr{}

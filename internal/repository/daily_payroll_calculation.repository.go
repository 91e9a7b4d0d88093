package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shiftledger/internal/domain"
)

// DailyPayrollCalculationRepository defines storage for the derived
// per-day aggregates. ReplaceForWorkLog is the sole mutation path: a
// recalculation wholly replaces a WorkLog's prior rows rather than patching
// them, so a changed ShiftSplitter decision never leaves stale rows behind.
//
//go:generate mockgen -source=daily_payroll_calculation.repository.go -destination=../../tests/mocks/repository/mock_daily_payroll_calculation_repository.go -package=mocks
type DailyPayrollCalculationRepository interface {
	ReplaceForWorkLog(tx *gorm.DB, workLogID uuid.UUID, rows []domain.DailyPayrollCalculation) error
	ListForMonth(employeeID uuid.UUID, year, month int) ([]domain.DailyPayrollCalculation, error)
	ListForMonthAllEmployees(year, month int) ([]domain.DailyPayrollCalculation, error)
	WithTx(tx *gorm.DB) DailyPayrollCalculationRepository
}

// DailyPayrollCalculationGormRepository implements
// DailyPayrollCalculationRepository using GORM.
type DailyPayrollCalculationGormRepository struct {
	db *gorm.DB
}

// NewDailyPayrollCalculationGormRepository creates a new
// DailyPayrollCalculationGormRepository.
func NewDailyPayrollCalculationGormRepository(db *gorm.DB) DailyPayrollCalculationRepository {
	return &DailyPayrollCalculationGormRepository{db: db}
}

// WithTx returns a repository bound to an existing transaction. No caller
// in this repository uses it: recalc.PersistResult passes a nil tx to
// ReplaceForWorkLog.
func (r *DailyPayrollCalculationGormRepository) WithTx(tx *gorm.DB) DailyPayrollCalculationRepository {
	return &DailyPayrollCalculationGormRepository{db: tx}
}

// ReplaceForWorkLog deletes every existing DailyPayrollCalculation row for
// workLogID and inserts rows in its place, inside tx (or the repository's
// own db if tx is nil).
func (r *DailyPayrollCalculationGormRepository) ReplaceForWorkLog(tx *gorm.DB, workLogID uuid.UUID, rows []domain.DailyPayrollCalculation) error {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	if err := conn.Where("work_log_id = ?", workLogID).Delete(&domain.DailyPayrollCalculation{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return conn.Create(&rows).Error
}

// ListForMonth returns every DailyPayrollCalculation for an employee whose
// work_date falls in (year, month).
func (r *DailyPayrollCalculationGormRepository) ListForMonth(employeeID uuid.UUID, year, month int) ([]domain.DailyPayrollCalculation, error) {
	start, end := monthBounds(year, month)
	var rows []domain.DailyPayrollCalculation
	err := r.db.Where("employee_id = ? AND work_date >= ? AND work_date < ?", employeeID, start, end).
		Order("work_date asc").
		Find(&rows).Error
	return rows, err
}

// ListForMonthAllEmployees is the bulk-aggregation variant of ListForMonth.
func (r *DailyPayrollCalculationGormRepository) ListForMonthAllEmployees(year, month int) ([]domain.DailyPayrollCalculation, error) {
	start, end := monthBounds(year, month)
	var rows []domain.DailyPayrollCalculation
	err := r.db.Where("work_date >= ? AND work_date < ?", start, end).
		Order("employee_id asc, work_date asc").
		Find(&rows).Error
	return rows, err
}

func monthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return start, end
}

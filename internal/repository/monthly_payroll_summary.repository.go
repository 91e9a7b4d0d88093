package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shiftledger/internal/domain"
)

// MonthlyPayrollSummaryRepository defines storage for the per-employee
// monthly aggregate. Upsert increments Version on every write so stale
// cached reads are detectable (spec §4.5 "Version increments every
// recompute").
//
//go:generate mockgen -source=monthly_payroll_summary.repository.go -destination=../../tests/mocks/repository/mock_monthly_payroll_summary_repository.go -package=mocks
type MonthlyPayrollSummaryRepository interface {
	Upsert(summary *domain.MonthlyPayrollSummary) error
	Get(employeeID uuid.UUID, year, month int) (*domain.MonthlyPayrollSummary, error)
	ListForMonth(year, month int) ([]domain.MonthlyPayrollSummary, error)
}

// MonthlyPayrollSummaryGormRepository implements
// MonthlyPayrollSummaryRepository using GORM.
type MonthlyPayrollSummaryGormRepository struct {
	db *gorm.DB
}

// NewMonthlyPayrollSummaryGormRepository creates a new
// MonthlyPayrollSummaryGormRepository.
func NewMonthlyPayrollSummaryGormRepository(db *gorm.DB) MonthlyPayrollSummaryRepository {
	return &MonthlyPayrollSummaryGormRepository{db: db}
}

// Upsert inserts or replaces the (employee, year, month) summary row,
// bumping Version from whatever was previously stored.
func (r *MonthlyPayrollSummaryGormRepository) Upsert(summary *domain.MonthlyPayrollSummary) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing domain.MonthlyPayrollSummary
		err := tx.Where("employee_id = ? AND year = ? AND month = ?", summary.EmployeeID, summary.Year, summary.Month).
			First(&existing).Error
		switch err {
		case nil:
			summary.ID = existing.ID
			summary.Version = existing.Version + 1
			summary.CalculationDate = time.Now()
			return tx.Save(summary).Error
		case gorm.ErrRecordNotFound:
			summary.Version = 1
			summary.CalculationDate = time.Now()
			return tx.Create(summary).Error
		default:
			return err
		}
	})
}

// Get fetches the summary row for (employee, year, month), or
// ErrNotFound.
func (r *MonthlyPayrollSummaryGormRepository) Get(employeeID uuid.UUID, year, month int) (*domain.MonthlyPayrollSummary, error) {
	var summary domain.MonthlyPayrollSummary
	err := r.db.Where("employee_id = ? AND year = ? AND month = ?", employeeID, year, month).First(&summary).Error
	if err == gorm.ErrRecordNotFound {
		return nil, domain.ErrNotFound
	}
	return &summary, err
}

// ListForMonth returns every employee's summary row for (year, month), used
// by BulkPayrollService's cache-check query.
func (r *MonthlyPayrollSummaryGormRepository) ListForMonth(year, month int) ([]domain.MonthlyPayrollSummary, error) {
	var rows []domain.MonthlyPayrollSummary
	err := r.db.Where("year = ? AND month = ?", year, month).Find(&rows).Error
	return rows, err
}

package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"shiftledger/internal/domain"
)

// SalaryRepository defines storage for compensation terms. GetActive is the
// hot path for per-employee payroll calculation; ListActiveForEmployees is
// the bulk-join variant used by BulkPayrollService's bounded-query protocol.
//
//go:generate mockgen -source=salary.repository.go -destination=../../tests/mocks/repository/mock_salary_repository.go -package=mocks
type SalaryRepository interface {
	GetActive(employeeID uuid.UUID) (*domain.Salary, error)
	ListActiveForEmployees(employeeIDs []uuid.UUID) ([]domain.Salary, error)
	Create(salary *domain.Salary) error
	Deactivate(employeeID uuid.UUID) error
}

// SalaryGormRepository implements SalaryRepository using GORM.
type SalaryGormRepository struct {
	db *gorm.DB
}

// NewSalaryGormRepository creates a new SalaryGormRepository.
func NewSalaryGormRepository(db *gorm.DB) SalaryRepository {
	return &SalaryGormRepository{db: db}
}

// GetActive returns the single active Salary for an employee, or
// ErrNoActiveSalary when none exists.
func (r *SalaryGormRepository) GetActive(employeeID uuid.UUID) (*domain.Salary, error) {
	var salary domain.Salary
	err := r.db.Where("employee_id = ? AND active = ?", employeeID, true).First(&salary).Error
	if err == gorm.ErrRecordNotFound {
		return nil, domain.ErrNoActiveSalary
	}
	return &salary, err
}

// ListActiveForEmployees batches GetActive across many employees in a
// single query, one of the ≤5 total queries BulkPayrollService issues per
// run.
func (r *SalaryGormRepository) ListActiveForEmployees(employeeIDs []uuid.UUID) ([]domain.Salary, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	var salaries []domain.Salary
	err := r.db.Where("employee_id IN ? AND active = ?", employeeIDs, true).Find(&salaries).Error
	return salaries, err
}

// Create validates and inserts a new Salary, deactivating any prior active
// row for the employee in the same transaction (spec §3: "at most one
// active salary per employee").
func (r *SalaryGormRepository) Create(salary *domain.Salary) error {
	if err := salary.Validate(); err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Salary{}).
			Where("employee_id = ? AND active = ?", salary.EmployeeID, true).
			Update("active", false).Error; err != nil {
			return err
		}
		salary.Active = true
		return tx.Create(salary).Error
	})
}

// Deactivate marks the employee's current active Salary inactive without
// replacing it (e.g. termination).
func (r *SalaryGormRepository) Deactivate(employeeID uuid.UUID) error {
	return r.db.Model(&domain.Salary{}).
		Where("employee_id = ? AND active = ?", employeeID, true).
		Update("active", false).Error
}

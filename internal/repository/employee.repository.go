package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"shiftledger/internal/domain"
)

// EmployeeRepository defines storage for payroll-facing employee records.
//
//go:generate mockgen -source=employee.repository.go -destination=../../tests/mocks/repository/mock_employee_repository.go -package=mocks
type EmployeeRepository interface {
	GetByID(id uuid.UUID) (*domain.Employee, error)
	ListActive() ([]domain.Employee, error)
	ListActiveWithSalary() ([]EmployeeWithSalary, error)
}

// EmployeeWithSalary is the result row of the joined employees+active-salary
// query BulkPayrollService uses to keep its per-run query count bounded
// (spec §4.5 "data loading in ≤5 total queries").
type EmployeeWithSalary struct {
	Employee domain.Employee
	Salary   *domain.Salary
}

// EmployeeGormRepository implements EmployeeRepository using GORM.
type EmployeeGormRepository struct {
	db *gorm.DB
}

// NewEmployeeGormRepository creates a new EmployeeGormRepository.
func NewEmployeeGormRepository(db *gorm.DB) EmployeeRepository {
	return &EmployeeGormRepository{db: db}
}

// GetByID fetches one Employee.
func (r *EmployeeGormRepository) GetByID(id uuid.UUID) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.Where("id = ?", id).First(&emp).Error
	if err == gorm.ErrRecordNotFound {
		return nil, domain.ErrNotFound
	}
	return &emp, err
}

// ListActive returns every active Employee.
func (r *EmployeeGormRepository) ListActive() ([]domain.Employee, error) {
	var emps []domain.Employee
	err := r.db.Where("active = ?", true).Find(&emps).Error
	return emps, err
}

// ListActiveWithSalary returns every active Employee paired with its
// active Salary (nil when none exists), in two queries: the employees, then
// their salaries by employee ID.
func (r *EmployeeGormRepository) ListActiveWithSalary() ([]EmployeeWithSalary, error) {
	var emps []domain.Employee
	if err := r.db.Where("active = ?", true).Find(&emps).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(emps))
	for i, e := range emps {
		ids[i] = e.ID
	}

	var salaries []domain.Salary
	if len(ids) > 0 {
		if err := r.db.Where("employee_id IN ? AND active = ?", ids, true).Find(&salaries).Error; err != nil {
			return nil, err
		}
	}
	byEmployee := make(map[uuid.UUID]*domain.Salary, len(salaries))
	for i := range salaries {
		byEmployee[salaries[i].EmployeeID] = &salaries[i]
	}

	out := make([]EmployeeWithSalary, len(emps))
	for i, e := range emps {
		out[i] = EmployeeWithSalary{Employee: e, Salary: byEmployee[e.ID]}
	}
	return out, nil
}

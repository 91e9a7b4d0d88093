package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shiftledger/internal/domain"
)

// CompensatoryDayRepository defines storage for compensatory-day credits.
// CreateIfAbsent is idempotent per (employee_id, earned_date): re-running a
// day's payroll calculation must never double-credit the same earned day
// (spec §4.4.d).
//
//go:generate mockgen -source=compensatory_day.repository.go -destination=../../tests/mocks/repository/mock_compensatory_day_repository.go -package=mocks
type CompensatoryDayRepository interface {
	CreateIfAbsent(day *domain.CompensatoryDay) (created bool, err error)
	Balance(employeeID uuid.UUID) (int, error)
	ListUnused(employeeID uuid.UUID) ([]domain.CompensatoryDay, error)
	MarkUsed(id uuid.UUID, usedDate time.Time) error
}

// CompensatoryDayGormRepository implements CompensatoryDayRepository using
// GORM, relying on the unique index on (employee_id, earned_date) to make
// CreateIfAbsent race-safe under concurrent recalculation.
type CompensatoryDayGormRepository struct {
	db *gorm.DB
}

// NewCompensatoryDayGormRepository creates a new
// CompensatoryDayGormRepository.
func NewCompensatoryDayGormRepository(db *gorm.DB) CompensatoryDayRepository {
	return &CompensatoryDayGormRepository{db: db}
}

// CreateIfAbsent inserts day unless a row already exists for
// (employee_id, earned_date), in which case it reports created=false rather
// than erroring, so repeated recalculation stays idempotent.
func (r *CompensatoryDayGormRepository) CreateIfAbsent(day *domain.CompensatoryDay) (bool, error) {
	var existing domain.CompensatoryDay
	err := r.db.Where("employee_id = ? AND earned_date = ?", day.EmployeeID, day.EarnedDate.Format("2006-01-02")).
		First(&existing).Error
	if err == nil {
		return false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}
	if err := r.db.Create(day).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Balance counts unused compensatory days for an employee.
func (r *CompensatoryDayGormRepository) Balance(employeeID uuid.UUID) (int, error) {
	var count int64
	err := r.db.Model(&domain.CompensatoryDay{}).
		Where("employee_id = ? AND used_date IS NULL", employeeID).
		Count(&count).Error
	return int(count), err
}

// ListUnused returns every unredeemed compensatory day for an employee,
// oldest first (FIFO redemption order).
func (r *CompensatoryDayGormRepository) ListUnused(employeeID uuid.UUID) ([]domain.CompensatoryDay, error) {
	var days []domain.CompensatoryDay
	err := r.db.Where("employee_id = ? AND used_date IS NULL", employeeID).
		Order("earned_date asc").
		Find(&days).Error
	return days, err
}

// MarkUsed redeems one compensatory day.
func (r *CompensatoryDayGormRepository) MarkUsed(id uuid.UUID, usedDate time.Time) error {
	return r.db.Model(&domain.CompensatoryDay{}).
		Where("id = ? AND used_date IS NULL", id).
		Update("used_date", usedDate).Error
}

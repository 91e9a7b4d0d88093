package repository

import (
	"time"

	"gorm.io/gorm"

	"shiftledger/internal/domain"
)

// HolidayRepository defines the interface for Holiday catalog storage.
// Holiday rows are immutable after insert; Replace performs a wholesale
// swap used by TimeCatalog refresh jobs (spec §3 "Holiday... Immutable
// after insert; replaced wholesale by TimeCatalog refresh").
//
//go:generate mockgen -source=holiday.repository.go -destination=../../tests/mocks/repository/mock_holiday_repository.go -package=mocks
type HolidayRepository interface {
	GetByDate(date time.Time) (*domain.Holiday, error)
	GetRange(start, end time.Time) ([]domain.Holiday, error)
	Replace(year int, holidays []domain.Holiday) error
}

// HolidayGormRepository implements HolidayRepository using GORM.
type HolidayGormRepository struct {
	db *gorm.DB
}

// NewHolidayGormRepository creates a new HolidayGormRepository.
func NewHolidayGormRepository(db *gorm.DB) HolidayRepository {
	return &HolidayGormRepository{db: db}
}

// GetByDate retrieves the holiday catalog row for an exact calendar date.
func (r *HolidayGormRepository) GetByDate(date time.Time) (*domain.Holiday, error) {
	var holiday domain.Holiday
	err := r.db.Where("date = ?", date.Format("2006-01-02")).First(&holiday).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return &holiday, err
}

// GetRange retrieves every holiday row whose date falls within [start, end].
func (r *HolidayGormRepository) GetRange(start, end time.Time) ([]domain.Holiday, error) {
	var holidays []domain.Holiday
	err := r.db.Where("date >= ? AND date <= ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Find(&holidays).Error
	return holidays, err
}

// Replace swaps the catalog for one year wholesale, inside a transaction:
// delete the year's existing rows, then insert the refreshed set. This is
// the only mutation path — individual holiday rows are otherwise immutable.
func (r *HolidayGormRepository) Replace(year int, holidays []domain.Holiday) error {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date >= ? AND date <= ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
			Delete(&domain.Holiday{}).Error; err != nil {
			return err
		}
		if len(holidays) == 0 {
			return nil
		}
		return tx.Create(&holidays).Error
	})
}

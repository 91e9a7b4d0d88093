package domain

import (
	"time"

	"github.com/google/uuid"
)

// HolidayKind distinguishes the three catalog kinds from spec §3.
type HolidayKind string

const (
	HolidayRegular HolidayKind = "regular"
	HolidayShabbat HolidayKind = "shabbat"
	HolidaySpecial HolidayKind = "special"
)

// Holiday is immutable after insert; TimeCatalog refreshes replace the
// table wholesale rather than mutating rows in place.
type Holiday struct {
	BaseModel
	Date      time.Time   `gorm:"type:date;not null;uniqueIndex:idx_holiday_date" json:"date"`
	Name      string      `gorm:"type:varchar(255);not null" json:"name"`
	Kind      HolidayKind `gorm:"type:varchar(20);not null" json:"kind"`
	StartTime *time.Time  `json:"start_time,omitempty"`
	EndTime   *time.Time  `json:"end_time,omitempty"`
}

// SunsetRecord caches a sunrise/sunset pair for a (date, location) tuple.
// Cacheable indefinitely since astronomical times for a past or future date
// never change.
type SunsetRecord struct {
	Date        time.Time `json:"date"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Sunrise     time.Time `json:"sunrise"`
	Sunset      time.Time `json:"sunset"`
	IsEstimated bool      `json:"is_estimated"`
}

// CompensatoryReason names why a CompensatoryDay was earned.
type CompensatoryReason string

const (
	CompensatoryShabbat CompensatoryReason = "shabbat"
	CompensatoryHoliday CompensatoryReason = "holiday"
)

// CompensatoryDay is a credit earned by working a Shabbat or holiday shift.
// Immutable once UsedDate is set.
type CompensatoryDay struct {
	BaseModel
	EmployeeID uuid.UUID           `gorm:"type:uuid;not null;index" json:"employee_id"`
	EarnedDate time.Time           `gorm:"type:date;not null;uniqueIndex:idx_compday_employee_date" json:"earned_date"`
	Reason     CompensatoryReason  `gorm:"type:varchar(20);not null" json:"reason"`
	UsedDate   *time.Time          `gorm:"type:date" json:"used_date,omitempty"`
}

// Used reports whether this compensatory day has already been redeemed.
func (c *CompensatoryDay) Used() bool {
	return c.UsedDate != nil
}

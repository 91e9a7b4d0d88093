package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxShiftHours is the longest shift allowed without an explicit
// long_shift_acknowledged flag (spec §3 invariant 4).
const MaxShiftHours = 26 * time.Hour

// WorkLog is a shift record owned by an Employee. It is the only record of
// record for worked time; DailyPayrollCalculation and MonthlyPayrollSummary
// are derived and replaceable.
type WorkLog struct {
	BaseModel
	EmployeeID            uuid.UUID  `gorm:"type:uuid;not null;index:idx_worklog_employee_checkin;uniqueIndex:idx_worklog_one_open,where:check_out IS NULL AND is_deleted = false" json:"employee_id"`
	CheckIn               time.Time  `gorm:"not null;index:idx_worklog_employee_checkin;index:idx_worklog_checkin" json:"check_in"`
	CheckOut              *time.Time `gorm:"index:idx_worklog_checkout" json:"check_out,omitempty"`
	LocationIn            string     `gorm:"type:varchar(255)" json:"location_in,omitempty"`
	LocationOut           string     `gorm:"type:varchar(255)" json:"location_out,omitempty"`
	Approved              bool       `gorm:"default:false;not null;index:idx_worklog_approved" json:"approved"`
	LongShiftAcknowledged bool       `gorm:"default:false;not null" json:"long_shift_acknowledged"`
	IsDeleted             bool       `gorm:"default:false;not null;index" json:"is_deleted"`
	DeletedAtSoft         *time.Time `gorm:"column:deleted_at_soft" json:"deleted_at,omitempty"`
	DeletedBy             *uuid.UUID `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// Open reports whether this WorkLog has no check-out time yet.
func (w *WorkLog) Open() bool {
	return w.CheckOut == nil
}

// EffectiveEnd returns CheckOut, or a sentinel far-future time when the
// shift is still open, for overlap-interval comparisons.
func (w *WorkLog) EffectiveEnd() time.Time {
	if w.CheckOut != nil {
		return *w.CheckOut
	}
	return time.Date(9999, 1, 1, 0, 0, 0, 0, w.CheckIn.Location())
}

// Overlaps reports whether this WorkLog's [CheckIn, EffectiveEnd) interval
// intersects the candidate [start, end) interval. Symmetric by construction
// (spec §8 "overlap detection symmetry").
func (w *WorkLog) Overlaps(start, end time.Time) bool {
	return w.CheckIn.Before(end) && start.Before(w.EffectiveEnd())
}

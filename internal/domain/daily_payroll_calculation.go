package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyPayrollCalculation is a persisted aggregate per (employee, work_date,
// worklog_id). Multiple rows per day are permitted for split shifts.
type DailyPayrollCalculation struct {
	BaseModel
	EmployeeID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_daily_employee_date" json:"employee_id"`
	WorkDate           time.Time       `gorm:"type:date;not null;index:idx_daily_employee_date" json:"work_date"`
	WorkLogID          uuid.UUID       `gorm:"type:uuid;not null" json:"worklog_id"`
	TotalHours         decimal.Decimal `gorm:"type:numeric(8,4);not null" json:"total_hours"`
	GrossPay           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"gross_pay"`
	CompensatoryEarned bool            `gorm:"not null;default:false" json:"compensatory_earned"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlyPayrollSummary is a persisted, recomputable aggregate per
// (employee, year, month), unique on that triple. Last recompute wins;
// Version increments every recompute so callers can detect staleness.
type MonthlyPayrollSummary struct {
	BaseModel
	EmployeeID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_summary_employee_month" json:"employee_id"`
	Year                 int             `gorm:"not null;uniqueIndex:idx_summary_employee_month" json:"year"`
	Month                int             `gorm:"not null;uniqueIndex:idx_summary_employee_month" json:"month"`
	TotalHours           decimal.Decimal `gorm:"type:numeric(10,4);not null" json:"total_hours"`
	RegularHours         decimal.Decimal `gorm:"type:numeric(10,4);not null" json:"regular_hours"`
	OvertimeHours        decimal.Decimal `gorm:"type:numeric(10,4);not null" json:"overtime_hours"`
	SpecialHours         decimal.Decimal `gorm:"type:numeric(10,4);not null" json:"special_hours"`
	BasePay              decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"base_pay"`
	BonusesPay           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"bonuses_pay"`
	TotalPay             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_pay"`
	CompensatoryDaysEarned int           `gorm:"not null;default:0" json:"compensatory_days_earned"`
	Degraded             bool            `gorm:"not null;default:false" json:"degraded"`
	CalculationDate      time.Time       `gorm:"not null" json:"calculation_date"`
	Version              int             `gorm:"not null;default:1" json:"version"`
}

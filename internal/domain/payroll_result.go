package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateBreakdown summarizes hours and amount for one classification within
// a PayrollResult.
type RateBreakdown struct {
	Classification Classification  `json:"classification"`
	Hours          decimal.Decimal `json:"hours"`
	Rate           decimal.Decimal `json:"rate"`
	Multiplier     decimal.Decimal `json:"multiplier"`
	Amount         decimal.Decimal `json:"amount"`
}

// DayBreakdown is one day's entry in a PayrollResult's per-day breakdown,
// omitted when fast_mode is requested.
type DayBreakdown struct {
	Date     time.Time       `json:"date"`
	Hours    decimal.Decimal `json:"hours"`
	Gross    decimal.Decimal `json:"gross"`
	Segments []RateBreakdown `json:"segments"`
}

// PayrollResult is the transient return value of a PayrollStrategy
// invocation. It is never persisted directly; BulkPayrollService derives
// DailyPayrollCalculation and MonthlyPayrollSummary rows from it.
type PayrollResult struct {
	EmployeeID uuid.UUID `json:"employee_id"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`

	TotalHours    decimal.Decimal `json:"total_hours"`
	RegularHours  decimal.Decimal `json:"regular_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	SpecialHours  decimal.Decimal `json:"special_hours"`

	BasePay    decimal.Decimal `json:"base_pay"`
	BonusesPay decimal.Decimal `json:"bonuses_pay"`
	TotalPay   decimal.Decimal `json:"total_pay"`

	Breakdown []RateBreakdown `json:"breakdown"`
	DailyPays []DayBreakdown  `json:"daily_pays,omitempty"`

	CompensatoryDaysEarned int                  `json:"compensatory_days_earned"`
	CompensatoryBalance    int                  `json:"compensatory_balance"`

	RatesUsed map[Classification]decimal.Decimal `json:"rates_used"`

	ComplianceWarnings []string `json:"compliance_warnings,omitempty"`

	Degraded bool `json:"degraded"`
}

// Round applies half-up rounding to 2 decimal places to every monetary
// field. Intermediate segment math stays unrounded until this call — spec
// §4.4.e requires rounding only at final amount assembly.
func (r *PayrollResult) Round() {
	r.BasePay = roundHalfUp2(r.BasePay)
	r.BonusesPay = roundHalfUp2(r.BonusesPay)
	r.TotalPay = roundHalfUp2(r.TotalPay)
	for i := range r.Breakdown {
		r.Breakdown[i].Amount = roundHalfUp2(r.Breakdown[i].Amount)
	}
	for i := range r.DailyPays {
		r.DailyPays[i].Gross = roundHalfUp2(r.DailyPays[i].Gross)
		for j := range r.DailyPays[i].Segments {
			r.DailyPays[i].Segments[j].Amount = roundHalfUp2(r.DailyPays[i].Segments[j].Amount)
		}
	}
}

// roundHalfUp2 rounds to 2 places, half away from zero (decimal.Round's
// documented behavior), matching spec's "half-up rounding" requirement.
func roundHalfUp2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayrollSegment is the transient output of ShiftSplitter: one classified,
// contiguous slice of a WorkLog. Never persisted directly — it is the
// building block PayrollStrategy folds into DailyPayrollCalculation rows.
type PayrollSegment struct {
	EmployeeID     uuid.UUID
	WorkLogID      uuid.UUID
	Date           time.Time
	Classification Classification
	Start          time.Time
	End            time.Time
	Hours          decimal.Decimal
	HourlyRate     decimal.Decimal
	Multiplier     decimal.Decimal
}

// Amount returns the unrounded gross amount for this segment. Per spec
// §4.4.e, rounding happens only at final PayrollResult assembly, never here.
func (s PayrollSegment) Amount() decimal.Decimal {
	return s.Hours.Mul(s.HourlyRate).Mul(s.Multiplier)
}

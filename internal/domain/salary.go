package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CalculationType selects how a Salary's pay is derived.
type CalculationType string

const (
	CalculationHourly  CalculationType = "hourly"
	CalculationMonthly CalculationType = "monthly"
	CalculationProject CalculationType = "project"
)

// ErrAmbiguousProjectSalary is returned when a project-type Salary carries
// both HourlyRate and BaseSalary. Source systems coerce this to BaseSalary;
// the engine rejects it at validation time instead (spec Open Question #2).
var ErrAmbiguousProjectSalary = errors.New("salary: project calculation_type must set exactly one of hourly_rate or base_salary")

// ErrMissingRate is returned when neither rate field is set for a
// calculation_type that requires exactly one.
var ErrMissingRate = errors.New("salary: exactly one of hourly_rate or base_salary is required")

// Salary carries the compensation terms for one Employee. At most one row
// per employee may have Active=true, enforced by a unique partial index at
// the storage layer.
type Salary struct {
	BaseModel
	EmployeeID      uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_salary_one_active,where:active = true" json:"employee_id"`
	CalculationType CalculationType  `gorm:"type:varchar(20);not null" json:"calculation_type"`
	Currency        string           `gorm:"type:varchar(3);not null;default:'ILS'" json:"currency"`
	HourlyRate      *decimal.Decimal `gorm:"type:numeric(12,4)" json:"hourly_rate,omitempty"`
	BaseSalary      *decimal.Decimal `gorm:"type:numeric(12,4)" json:"base_salary,omitempty"`
	Active          bool             `gorm:"default:true;not null" json:"active"`
}

// Validate enforces the "exactly one of hourly_rate/base_salary" rule,
// relaxing it for project-type rows (which may carry either, but never
// both — see ErrAmbiguousProjectSalary).
func (s *Salary) Validate() error {
	hasHourly := s.HourlyRate != nil
	hasBase := s.BaseSalary != nil

	switch s.CalculationType {
	case CalculationProject:
		if hasHourly && hasBase {
			return ErrAmbiguousProjectSalary
		}
		if !hasHourly && !hasBase {
			return ErrMissingRate
		}
	case CalculationHourly:
		if !hasHourly || hasBase {
			return ErrMissingRate
		}
	case CalculationMonthly:
		if !hasBase || hasHourly {
			return ErrMissingRate
		}
	default:
		return errors.New("salary: unknown calculation_type")
	}
	return nil
}

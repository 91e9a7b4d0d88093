package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel InvariantViolation / NotFound / Fatal errors (spec §7).
var (
	ErrOpenShiftExists  = errors.New("worklog: employee already has an open shift")
	ErrNoOpenShift      = errors.New("worklog: employee has no open shift")
	ErrNotFound         = errors.New("worklog: record not found")
	ErrAlreadyDeleted   = errors.New("worklog: already soft-deleted")
	ErrNoActiveSalary   = errors.New("payroll: employee has no active salary")
	ErrNoWorklogs       = errors.New("payroll: employee has no worklogs in period")
	ErrCatalogUnavailable = errors.New("payroll: time catalog degraded to estimate")
	ErrTimeSourceUnavailable = errors.New("timecatalog: no live, cached, or estimated value available")
	ErrDuplicateExecution = errors.New("task: duplicate execution suppressed")
	ErrBulkLoadFailed     = errors.New("bulk: data-loading stage failed")
	ErrLongShiftUnacknowledged = errors.New("worklog: shift exceeds max duration without acknowledgement")
)

// OverlapConflictError carries the conflicting WorkLog id so callers can
// reconcile (spec §7 "OverlapConflict returns the conflicting shift id").
type OverlapConflictError struct {
	ConflictID uuid.UUID
}

func (e *OverlapConflictError) Error() string {
	return fmt.Sprintf("worklog: overlaps existing shift %s", e.ConflictID)
}

// NewOverlapConflict builds an OverlapConflictError for the given row id.
func NewOverlapConflict(id uuid.UUID) error {
	return &OverlapConflictError{ConflictID: id}
}

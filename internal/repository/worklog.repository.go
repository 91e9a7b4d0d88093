package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shiftledger/internal/domain"
)

// txOpts requests repeatable-read isolation for the OpenShift/CloseShift
// transactions, so the overlap check and the write observe a consistent
// snapshot instead of racing under the default read-committed isolation.
// The "one open shift per employee" invariant (spec §3 invariant 1) is also
// enforced at the storage layer by a partial unique index
// (idx_worklog_one_open on WorkLog.EmployeeID, see internal/domain/worklog.go)
// so even two transactions that both pass the app-level checks below cannot
// both commit: the second insert fails the index and surfaces through
// gorm.ErrDuplicatedKey.
var txOpts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead}

// WorkLogRepository defines the interface for shift storage. OpenShift and
// CloseShift perform their overlap check inside the same transaction as the
// write (spec §4.2, §5): two concurrent overlapping writes against the same
// employee MUST have the second one rejected. The transaction runs under
// repeatable-read isolation and the open-shift invariant is additionally
// backstopped by a partial unique index, so the reject is guaranteed even
// when the app-level pre-check loses a race.
//
//go:generate mockgen -source=worklog.repository.go -destination=../../tests/mocks/repository/mock_worklog_repository.go -package=mocks
type WorkLogRepository interface {
	OpenShift(log *domain.WorkLog) error
	CloseShift(id uuid.UUID, checkOut time.Time, locationOut string) (*domain.WorkLog, error)
	SoftDelete(id uuid.UUID, deletedBy uuid.UUID) error
	GetByID(id uuid.UUID) (*domain.WorkLog, error)
	ListActive(employeeID uuid.UUID) ([]domain.WorkLog, error)
	ListForRange(employeeID uuid.UUID, start, end time.Time) ([]domain.WorkLog, error)
	ListForRangeIncludingDeleted(employeeID uuid.UUID, start, end time.Time) ([]domain.WorkLog, error)
	ListForRangeAllEmployees(start, end time.Time) ([]domain.WorkLog, error)
	BulkCreate(logs []domain.WorkLog) error
}

// WorkLogGormRepository implements WorkLogRepository using GORM.
type WorkLogGormRepository struct {
	db *gorm.DB
}

// NewWorkLogGormRepository creates a new WorkLogGormRepository.
func NewWorkLogGormRepository(db *gorm.DB) WorkLogRepository {
	return &WorkLogGormRepository{db: db}
}

// overlapQuery finds any non-deleted WorkLog for employeeID whose
// [check_in, effective_end) interval intersects [start, end). An open shift
// (check_out IS NULL) is treated as extending to the far future, so it
// always overlaps anything after its check_in.
func overlapQuery(tx *gorm.DB, employeeID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) *gorm.DB {
	q := tx.Model(&domain.WorkLog{}).
		Where("employee_id = ?", employeeID).
		Where("is_deleted = ?", false).
		Where("check_in < ?", end).
		Where("check_out IS NULL OR check_out > ?", start)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	return q
}

// OpenShift inserts a new open WorkLog, rejecting it inside the same
// transaction if it would overlap an existing active shift for the
// employee (spec §3 invariant 1, §4.2). The app-level count check below is
// a fast, friendly pre-check; the partial unique index on
// WorkLog.EmployeeID is what actually closes the race between two
// concurrent OpenShift calls for the same employee.
func (r *WorkLogGormRepository) OpenShift(log *domain.WorkLog) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		farFuture := time.Date(9999, 1, 1, 0, 0, 0, 0, log.CheckIn.Location())
		var conflict domain.WorkLog
		err := overlapQuery(tx, log.EmployeeID, log.CheckIn, farFuture, nil).
			First(&conflict).Error
		if err == nil {
			return domain.NewOverlapConflict(conflict.ID)
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		var openCount int64
		if err := tx.Model(&domain.WorkLog{}).
			Where("employee_id = ? AND check_out IS NULL AND is_deleted = ?", log.EmployeeID, false).
			Count(&openCount).Error; err != nil {
			return err
		}
		if openCount > 0 {
			return domain.ErrOpenShiftExists
		}

		if err := tx.Create(log).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrOpenShiftExists
			}
			return err
		}
		return nil
	}, txOpts)
}

// CloseShift sets check_out on the employee's single open shift, checked
// for overlap against every other non-deleted WorkLog before commit.
func (r *WorkLogGormRepository) CloseShift(id uuid.UUID, checkOut time.Time, locationOut string) (*domain.WorkLog, error) {
	var updated domain.WorkLog
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var log domain.WorkLog
		if err := tx.Where("id = ? AND is_deleted = ?", id, false).First(&log).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrNoOpenShift
			}
			return err
		}
		if !log.Open() {
			return domain.ErrNoOpenShift
		}

		var conflict domain.WorkLog
		err := overlapQuery(tx, log.EmployeeID, log.CheckIn, checkOut, &log.ID).First(&conflict).Error
		if err == nil {
			return domain.NewOverlapConflict(conflict.ID)
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		log.CheckOut = &checkOut
		log.LocationOut = locationOut
		if checkOut.Sub(log.CheckIn) > domain.MaxShiftHours && !log.LongShiftAcknowledged {
			return domain.ErrLongShiftUnacknowledged
		}
		if err := tx.Save(&log).Error; err != nil {
			return err
		}
		updated = log
		return nil
	}, txOpts)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SoftDelete marks a WorkLog deleted without removing the row, preserving
// it for audit and `list_including_deleted` queries (spec §9 design note).
func (r *WorkLogGormRepository) SoftDelete(id uuid.UUID, deletedBy uuid.UUID) error {
	now := time.Now()
	res := r.db.Model(&domain.WorkLog{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted":      true,
			"deleted_at_soft": now,
			"deleted_by":      deletedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAlreadyDeleted
	}
	return nil
}

// GetByID fetches one WorkLog regardless of deletion state.
func (r *WorkLogGormRepository) GetByID(id uuid.UUID) (*domain.WorkLog, error) {
	var log domain.WorkLog
	err := r.db.Where("id = ?", id).First(&log).Error
	if err == gorm.ErrRecordNotFound {
		return nil, domain.ErrNotFound
	}
	return &log, err
}

// ListActive returns every non-deleted WorkLog with no check_out, i.e. the
// employee's currently open sessions (there should be at most one, but the
// query does not assume it).
func (r *WorkLogGormRepository) ListActive(employeeID uuid.UUID) ([]domain.WorkLog, error) {
	var logs []domain.WorkLog
	err := r.db.Where("employee_id = ? AND check_out IS NULL AND is_deleted = ?", employeeID, false).
		Order("check_in asc").
		Find(&logs).Error
	return logs, err
}

// ListForRange returns non-deleted WorkLogs for employeeID overlapping
// [start, end), used by payroll aggregation.
func (r *WorkLogGormRepository) ListForRange(employeeID uuid.UUID, start, end time.Time) ([]domain.WorkLog, error) {
	var logs []domain.WorkLog
	err := overlapQuery(r.db, employeeID, start, end, nil).Order("check_in asc").Find(&logs).Error
	return logs, err
}

// ListForRangeIncludingDeleted is the audit-trail variant of ListForRange
// (spec §9 "never hide the predicate": deleted rows are included only when
// the caller explicitly asks).
func (r *WorkLogGormRepository) ListForRangeIncludingDeleted(employeeID uuid.UUID, start, end time.Time) ([]domain.WorkLog, error) {
	var logs []domain.WorkLog
	err := r.db.Model(&domain.WorkLog{}).
		Where("employee_id = ?", employeeID).
		Where("check_in < ?", end).
		Where("check_out IS NULL OR check_out > ?", start).
		Order("check_in asc").
		Find(&logs).Error
	return logs, err
}

// ListForRangeAllEmployees is the bulk-aggregation variant: one query for
// every employee's WorkLogs overlapping [start, end), part of the ≤5-query
// data-loading protocol for BulkPayrollService.
func (r *WorkLogGormRepository) ListForRangeAllEmployees(start, end time.Time) ([]domain.WorkLog, error) {
	var logs []domain.WorkLog
	err := r.db.Model(&domain.WorkLog{}).
		Where("is_deleted = ?", false).
		Where("check_in < ?", end).
		Where("check_out IS NULL OR check_out > ?", start).
		Order("employee_id asc, check_in asc").
		Find(&logs).Error
	return logs, err
}

// BulkCreate inserts pre-validated WorkLogs (e.g. a data migration or
// seed), bypassing the per-row overlap check. Callers are responsible for
// ensuring the batch is internally consistent.
func (r *WorkLogGormRepository) BulkCreate(logs []domain.WorkLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.CreateInBatches(logs, 100).Error
}

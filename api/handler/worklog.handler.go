package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shiftledger/api/response"
	"shiftledger/internal/domain"
	"shiftledger/internal/facade"
)

// WorkLogHandler exposes the facade's shift operations over HTTP.
type WorkLogHandler struct {
	facade *facade.Facade
}

// NewWorkLogHandler creates a new WorkLogHandler.
func NewWorkLogHandler(f *facade.Facade) *WorkLogHandler {
	return &WorkLogHandler{facade: f}
}

type checkInRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
	CheckIn    time.Time `json:"check_in" binding:"required"`
	Location   string    `json:"location"`
}

// CheckIn handles POST /worklogs/check-in.
func (h *WorkLogHandler) CheckIn(c *gin.Context) {
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	log, err := h.facade.CheckIn(c.Request.Context(), facade.CheckInRequest{
		EmployeeID: req.EmployeeID,
		CheckIn:    req.CheckIn,
		Location:   req.Location,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, "checked in", log)
}

type checkOutRequest struct {
	WorkLogID             uuid.UUID `json:"work_log_id" binding:"required"`
	CheckOut              time.Time `json:"check_out" binding:"required"`
	Location               string   `json:"location"`
	LongShiftAcknowledged bool      `json:"long_shift_acknowledged"`
}

// CheckOut handles POST /worklogs/check-out.
func (h *WorkLogHandler) CheckOut(c *gin.Context) {
	var req checkOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	log, err := h.facade.CheckOut(c.Request.Context(), facade.CheckOutRequest{
		WorkLogID:             req.WorkLogID,
		CheckOut:              req.CheckOut,
		Location:              req.Location,
		LongShiftAcknowledged: req.LongShiftAcknowledged,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, "checked out", log)
}

// SoftDelete handles DELETE /worklogs/:id.
func (h *WorkLogHandler) SoftDelete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid worklog id", err.Error())
		return
	}

	actor, _ := c.Get("currentUser")
	actorUser, _ := actor.(*domain.User)
	var actorID uuid.UUID
	if actorUser != nil {
		actorID = actorUser.ID
	}

	if err := h.facade.SoftDeleteWorkLog(c.Request.Context(), id, actorID); err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, "worklog deleted", nil)
}

// ListActiveSessions handles GET /worklogs/active/:employeeID.
func (h *WorkLogHandler) ListActiveSessions(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("employeeID"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid employee id", err.Error())
		return
	}

	sessions, err := h.facade.ListActiveSessions(c.Request.Context(), employeeID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, "active sessions", sessions)
}

func writeDomainError(c *gin.Context, err error) {
	switch {
	case isNotFound(err):
		response.Error(c, http.StatusNotFound, err.Error(), nil)
	case isConflict(err):
		response.Error(c, http.StatusConflict, err.Error(), nil)
	default:
		response.Error(c, http.StatusInternalServerError, err.Error(), nil)
	}
}

func isNotFound(err error) bool {
	return err == domain.ErrNotFound || err == domain.ErrNoOpenShift || err == domain.ErrNoActiveSalary || err == domain.ErrNoWorklogs
}

func isConflict(err error) bool {
	if err == domain.ErrOpenShiftExists || err == domain.ErrAlreadyDeleted || err == domain.ErrLongShiftUnacknowledged {
		return true
	}
	var overlap *domain.OverlapConflictError
	return errors.As(err, &overlap)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shiftledger/api/response"
	"shiftledger/internal/bulk"
	"shiftledger/internal/facade"
	"shiftledger/internal/payroll"
)

// PayrollHandler exposes the facade's payroll calculation operations over
// HTTP.
type PayrollHandler struct {
	facade *facade.Facade
}

// NewPayrollHandler creates a new PayrollHandler.
func NewPayrollHandler(f *facade.Facade) *PayrollHandler {
	return &PayrollHandler{facade: f}
}

type calculatePayrollRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
	Year       int       `json:"year" binding:"required"`
	Month      int       `json:"month" binding:"required,min=1,max=12"`
	Strategy   string    `json:"strategy"`
	FastMode   bool      `json:"fast_mode"`
}

// Calculate handles POST /payroll/calculate.
func (h *PayrollHandler) Calculate(c *gin.Context) {
	var req calculatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	result, err := h.facade.CalculatePayroll(c.Request.Context(), facade.CalculatePayrollRequest{
		EmployeeID: req.EmployeeID,
		Year:       req.Year,
		Month:      req.Month,
		Strategy:   payroll.Name(req.Strategy),
		FastMode:   req.FastMode,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, "payroll calculated", result)
}

type bulkCalculatePayrollRequest struct {
	EmployeeIDs []uuid.UUID `json:"employee_ids"`
	Year        int         `json:"year" binding:"required"`
	Month       int         `json:"month" binding:"required,min=1,max=12"`
	Strategy    string      `json:"strategy"`
	SaveToDB    bool        `json:"save_to_db"`
	UseCache    bool        `json:"use_cache"`
}

// BulkCalculate handles POST /payroll/bulk-calculate.
func (h *PayrollHandler) BulkCalculate(c *gin.Context) {
	var req bulkCalculatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	result, err := h.facade.BulkCalculatePayroll(c.Request.Context(), req.EmployeeIDs, req.Year, req.Month, bulk.Options{
		StrategyName: payroll.Name(req.Strategy),
		SaveToDB:     req.SaveToDB,
		UseCache:     req.UseCache,
		UseParallel:  true,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, "bulk payroll calculated", result)
}

package handler

import (
	ledgerapp "github.com/coffeecommand/backend/internal/application/ledger"
	"github.com/coffeecommand/backend/internal/domain/ledger"
	"github.com/coffeecommand/backend/internal/domain/shared/valueobject"
	"github.com/coffeecommand/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LedgerHandler serves the daily ledger endpoints: summary, opening balance
// and end of day
type LedgerHandler struct {
	BaseHandler
	reconciler *ledgerapp.ReconcilerService
	endOfDay   *ledgerapp.EndOfDayService
	logger     *zap.Logger
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(reconciler *ledgerapp.ReconcilerService, endOfDay *ledgerapp.EndOfDayService, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{reconciler: reconciler, endOfDay: endOfDay, logger: logger}
}

// RegisterRoutes registers the per-branch ledger routes
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ledgerGroup := rg.Group("/branches/:branchID/ledger")
	{
		ledgerGroup.GET("/summary", h.GetSummary)
		ledgerGroup.PUT("/opening-balance", h.SetOpeningBalance)
		ledgerGroup.POST("/close", h.CloseDay)
	}
}

// setOpeningBalanceRequest sets the float the till starts the day with
type setOpeningBalanceRequest struct {
	Date   string            `json:"date" binding:"omitempty,business_date"`
	Amount valueobject.Money `json:"amount" binding:"required"`
}

// GetSummary returns the branch-day ledger summary. Defaults to the current
// business day when no date is given.
func (h *LedgerHandler) GetSummary(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	branchID, err := branchIDParam(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	date, err := dateQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	summary, err := h.reconciler.Summarize(c.Request.Context(), principal, branchID, date)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// SetOpeningBalance sets or corrects the branch-day opening balance
func (h *LedgerHandler) SetOpeningBalance(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	branchID, err := branchIDParam(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req setOpeningBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	date := ledger.Today()
	if req.Date != "" {
		if date, err = ledger.ParseBusinessDate(req.Date); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	balance, err := h.reconciler.SetOpeningBalance(c.Request.Context(), principal, branchID, date, req.Amount)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, balance)
}

// CloseDay runs end of day for the branch's current business day: freezes
// the figures and rolls the closing balance into tomorrow's opening.
func (h *LedgerHandler) CloseDay(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	branchID, err := branchIDParam(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	summary, err := h.endOfDay.PerformEndOfDay(c.Request.Context(), principal, branchID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

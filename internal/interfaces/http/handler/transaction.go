package handler

import (
	"github.com/google/uuid"

	ledgerapp "github.com/coffeecommand/backend/internal/application/ledger"
	"github.com/coffeecommand/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TransactionHandler serves the sale and expense recording endpoints
type TransactionHandler struct {
	BaseHandler
	service *ledgerapp.TransactionService
	logger  *zap.Logger
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(service *ledgerapp.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{service: service, logger: logger}
}

// RegisterRoutes registers sale and expense routes
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	branchScoped := rg.Group("/branches/:branchID")
	{
		branchScoped.POST("/sales", h.RecordSale)
		branchScoped.GET("/sales", h.ListSales)
		branchScoped.POST("/expenses", h.RecordExpense)
		branchScoped.GET("/expenses", h.ListExpenses)
	}

	expenses := rg.Group("/expenses")
	{
		expenses.PUT("/:id", h.UpdateExpense)
		expenses.DELETE("/:id", h.DeleteExpense)
	}
}

// RecordSale records a sale against the branch's current business day
func (h *TransactionHandler) RecordSale(c *gin.Context) {
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

	var req ledgerapp.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.service.RecordSale(c.Request.Context(), principal, branchID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, sale)
}

// ListSales lists the branch-day's sales, newest first
func (h *TransactionHandler) ListSales(c *gin.Context) {
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

	sales, err := h.service.ListSales(c.Request.Context(), principal, branchID, date)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sales)
}

// RecordExpense records an expense against the branch's current business day
func (h *TransactionHandler) RecordExpense(c *gin.Context) {
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

	var req ledgerapp.RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.service.RecordExpense(c.Request.Context(), principal, branchID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, expense)
}

// ListExpenses lists the branch-day's expenses, newest first
func (h *TransactionHandler) ListExpenses(c *gin.Context) {
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

	expenses, err := h.service.ListExpenses(c.Request.Context(), principal, branchID, date)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expenses)
}

// UpdateExpense amends an expense while its day is still open
func (h *TransactionHandler) UpdateExpense(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid expense ID")
		return
	}

	var req ledgerapp.RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.service.UpdateExpense(c.Request.Context(), principal, expenseID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// DeleteExpense removes an expense while its day is still open
func (h *TransactionHandler) DeleteExpense(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid expense ID")
		return
	}

	if err := h.service.DeleteExpense(c.Request.Context(), principal, expenseID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

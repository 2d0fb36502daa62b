package handler

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/coffeecommand/backend/internal/application/access"
	"github.com/coffeecommand/backend/internal/domain/identity"
	"github.com/coffeecommand/backend/internal/interfaces/http/dto"
	"github.com/coffeecommand/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves the worker and grant management endpoints. Every route
// here sits behind the admin middleware; service-level checks still apply.
type AdminHandler struct {
	BaseHandler
	grants *access.GrantService
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(grants *access.GrantService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{grants: grants, logger: logger}
}

// RegisterRoutes registers the admin-only worker and grant routes
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	{
		admin.POST("/workers", h.CreateWorker)
		admin.PUT("/workers/:userID", h.UpdateWorker)
		admin.GET("/permissions", h.ListPermissions)
		admin.POST("/grants", h.AssignGrant)
		admin.DELETE("/users/:userID/grants/:branchID", h.RevokeGrant)
		admin.POST("/users/:userID/grant-all", h.GrantAllBranches)
		admin.POST("/users/:userID/limit-branch", h.LimitToSingleBranch)
	}
}

type limitBranchRequest struct {
	BranchID int64 `json:"branch_id" binding:"required"`
}

// CreateWorker creates a worker account with full access on all active
// branches, ready to be narrowed afterwards
func (h *AdminHandler) CreateWorker(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	var req access.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	worker, err := h.grants.CreateWorker(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, worker)
}

// UpdateWorker updates a worker's profile and, optionally, the account state
func (h *AdminHandler) UpdateWorker(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		h.BadRequest(c, "invalid user ID")
		return
	}

	var req access.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	worker, err := h.grants.UpdateWorker(c.Request.Context(), principal, userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, worker)
}

// ListPermissions returns a page of users with their per-branch grants
func (h *AdminHandler) ListPermissions(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := identity.NewUserFilter().WithKeyword(listReq.Search)
	filter.Page = listReq.Page
	filter.PageSize = listReq.PageSize

	page, err := h.grants.ListUserPermissions(c.Request.Context(), principal, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AssignGrant grants or updates a worker's access to one branch
func (h *AdminHandler) AssignGrant(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	var req access.AssignGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	grant, err := h.grants.AssignGrant(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, grant)
}

// RevokeGrant removes a worker's access to one branch
func (h *AdminHandler) RevokeGrant(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		h.BadRequest(c, "invalid user ID")
		return
	}

	branchID, err := strconv.ParseInt(c.Param("branchID"), 10, 64)
	if err != nil || branchID <= 0 {
		h.BadRequest(c, "invalid branch ID")
		return
	}

	if err := h.grants.RevokeGrant(c.Request.Context(), principal, userID, branchID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// GrantAllBranches gives a worker full access on every active branch in
// one atomic step
func (h *AdminHandler) GrantAllBranches(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		h.BadRequest(c, "invalid user ID")
		return
	}

	grants, err := h.grants.GrantAllBranches(c.Request.Context(), principal, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, grants)
}

// LimitToSingleBranch replaces every grant the worker holds with full access
// on exactly one branch
func (h *AdminHandler) LimitToSingleBranch(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		h.BadRequest(c, "invalid user ID")
		return
	}

	var req limitBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	grant, err := h.grants.LimitToSingleBranch(c.Request.Context(), principal, userID, req.BranchID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, grant)
}

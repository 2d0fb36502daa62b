package handler

import (
	branchapp "github.com/coffeecommand/backend/internal/application/branch"
	"github.com/coffeecommand/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BranchHandler serves branch management endpoints
type BranchHandler struct {
	BaseHandler
	service *branchapp.BranchService
	logger  *zap.Logger
}

// NewBranchHandler creates a new BranchHandler
func NewBranchHandler(service *branchapp.BranchService, logger *zap.Logger) *BranchHandler {
	return &BranchHandler{service: service, logger: logger}
}

// RegisterRoutes registers branch management routes. Mutations are wired
// behind the admin middleware by the router.
func (h *BranchHandler) RegisterRoutes(rg *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	branches := rg.Group("/branches")
	{
		branches.GET("", h.ListBranches)
		branches.GET("/:branchID", h.GetBranch)
		branches.POST("", adminOnly, h.CreateBranch)
		branches.PUT("/:branchID", adminOnly, h.UpdateBranch)
		branches.DELETE("/:branchID", adminOnly, h.DeactivateBranch)
		branches.POST("/:branchID/activate", adminOnly, h.ActivateBranch)
	}
}

// ListBranches lists branches. Admins may pass ?include_inactive=true to see
// deactivated branches too.
func (h *BranchHandler) ListBranches(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	includeInactive := c.Query("include_inactive") == "true"

	branches, err := h.service.ListBranches(c.Request.Context(), principal, includeInactive)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, branches)
}

// GetBranch returns one branch
func (h *BranchHandler) GetBranch(c *gin.Context) {
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

	b, err := h.service.GetBranch(c.Request.Context(), principal, branchID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, b)
}

// CreateBranch creates a new branch
func (h *BranchHandler) CreateBranch(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	var req branchapp.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	b, err := h.service.CreateBranch(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, b)
}

// UpdateBranch updates a branch's details
func (h *BranchHandler) UpdateBranch(c *gin.Context) {
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

	var req branchapp.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	b, err := h.service.UpdateBranch(c.Request.Context(), principal, branchID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, b)
}

// ActivateBranch puts a deactivated branch back in service
func (h *BranchHandler) ActivateBranch(c *gin.Context) {
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

	b, err := h.service.ActivateBranch(c.Request.Context(), principal, branchID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, b)
}

// DeactivateBranch soft-deletes a branch. Its ledger history stays intact.
func (h *BranchHandler) DeactivateBranch(c *gin.Context) {
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

	if err := h.service.DeactivateBranch(c.Request.Context(), principal, branchID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

package handler

import (
	"github.com/coffeecommand/backend/internal/application/access"
	"github.com/coffeecommand/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessHandler serves the branch reachability and active-branch endpoints
type AccessHandler struct {
	BaseHandler
	service *access.BranchAccessService
	logger  *zap.Logger
}

// NewAccessHandler creates a new AccessHandler
func NewAccessHandler(service *access.BranchAccessService, logger *zap.Logger) *AccessHandler {
	return &AccessHandler{service: service, logger: logger}
}

// RegisterRoutes registers branch access routes
func (h *AccessHandler) RegisterRoutes(rg *gin.RouterGroup) {
	branches := rg.Group("/branches")
	{
		branches.GET("/access", h.ListAccessibleBranches)
		branches.POST("/active", h.ResolveActiveBranch)
	}
}

// selectBranchRequest carries an optional explicit branch choice
type selectBranchRequest struct {
	BranchID *int64 `json:"branch_id"`
}

// ListAccessibleBranches returns every branch the caller can reach, with the
// permission level it can act at
func (h *AccessHandler) ListAccessibleBranches(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	branches, err := h.service.BranchesFor(c.Request.Context(), principal)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, branches)
}

// ResolveActiveBranch picks the branch the session should act on. An explicit
// choice in the body wins; otherwise the last persisted selection, then the
// first available branch.
func (h *AccessHandler) ResolveActiveBranch(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Not authenticated")
		return
	}

	var req selectBranchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	resolution, err := h.service.ResolveActiveBranch(c.Request.Context(), principal, req.BranchID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resolution)
}

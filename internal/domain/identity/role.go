package identity

import (
	"github.com/coffeecommand/backend/internal/domain/shared"
)

// Role represents a principal's role in the system
type Role string

const (
	RoleAdmin  Role = "admin"  // Full access to every branch and admin surfaces
	RoleWorker Role = "worker" // Access governed by explicit branch grants
)

// ParseRole validates and returns a Role from its string form
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleWorker:
		return Role(s), nil
	default:
		return "", shared.NewDomainError("INVALID_ROLE", "Role must be admin or worker")
	}
}

// IsAdmin returns true for the admin role
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// PermissionLevel represents the capability tier of a branch grant
type PermissionLevel string

const (
	PermissionViewOnly   PermissionLevel = "view_only"
	PermissionFullAccess PermissionLevel = "full_access"
)

// ParsePermissionLevel validates and returns a PermissionLevel from its string form
func ParsePermissionLevel(s string) (PermissionLevel, error) {
	switch PermissionLevel(s) {
	case PermissionViewOnly, PermissionFullAccess:
		return PermissionLevel(s), nil
	default:
		return "", shared.NewDomainError("INVALID_PERMISSION_LEVEL", "Permission level must be view_only or full_access")
	}
}

// Satisfies reports whether a grant at this level meets the required level.
// full_access is a strict superset of view_only.
func (l PermissionLevel) Satisfies(required PermissionLevel) bool {
	if l == PermissionFullAccess {
		return true
	}
	return l == required
}

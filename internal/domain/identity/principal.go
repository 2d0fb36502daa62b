package identity

import (
	"github.com/google/uuid"
)

// Principal is the immutable access context of an authenticated user. It is
// built once per session (verified token claims plus a single grant fetch) and
// passed explicitly to every access decision. Admin access is implicit -
// admins carry no materialized grants.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Role     Role
	Grants   []BranchGrant
}

// NewPrincipal builds a principal from verified identity data and its grants
func NewPrincipal(userID uuid.UUID, username string, role Role, grants []BranchGrant) Principal {
	return Principal{
		UserID:   userID,
		Username: username,
		Role:     role,
		Grants:   grants,
	}
}

// CanAccess reports whether the principal may act on the branch at the
// required level. Pure and synchronous; absent data means denial, never an
// error. Admins pass unconditionally.
func (p Principal) CanAccess(branchID int64, required PermissionLevel) bool {
	if p.Role.IsAdmin() {
		return true
	}
	for _, g := range p.Grants {
		if g.BranchID == branchID {
			return g.Level.Satisfies(required)
		}
	}
	return false
}

// GrantFor returns the principal's grant on the branch, if any
func (p Principal) GrantFor(branchID int64) (BranchGrant, bool) {
	for _, g := range p.Grants {
		if g.BranchID == branchID {
			return g, true
		}
	}
	return BranchGrant{}, false
}

// GrantedBranchIDs returns the branch IDs the principal holds grants on.
// Empty for admins - their access is not grant-backed.
func (p Principal) GrantedBranchIDs() []int64 {
	ids := make([]int64, 0, len(p.Grants))
	for _, g := range p.Grants {
		ids = append(ids, g.BranchID)
	}
	return ids
}

// IsAdmin returns true if the principal holds the admin role
func (p Principal) IsAdmin() bool {
	return p.Role.IsAdmin()
}

package identity

import (
	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for User
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserCreated     = "UserCreated"
	EventTypeUserDeactivated = "UserDeactivated"
	EventTypeGrantAssigned   = "BranchGrantAssigned"
	EventTypeGrantRevoked    = "BranchGrantRevoked"
)

// UserCreatedEvent is published when a new user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID),
		Username:        user.Username,
		Role:            user.Role,
	}
}

// UserDeactivatedEvent is published when a user is deactivated
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

// NewUserDeactivatedEvent creates a new UserDeactivatedEvent
func NewUserDeactivatedEvent(user *User) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDeactivated, AggregateTypeUser, user.ID),
		Username:        user.Username,
	}
}

// GrantAssignedEvent is published when a branch grant is created or its level
// changes
type GrantAssignedEvent struct {
	shared.BaseDomainEvent
	BranchID int64           `json:"branch_id"`
	Level    PermissionLevel `json:"level"`
}

// NewGrantAssignedEvent creates a new GrantAssignedEvent
func NewGrantAssignedEvent(userID uuid.UUID, branchID int64, level PermissionLevel) *GrantAssignedEvent {
	return &GrantAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGrantAssigned, AggregateTypeUser, userID),
		BranchID:        branchID,
		Level:           level,
	}
}

// GrantRevokedEvent is published when a branch grant is removed
type GrantRevokedEvent struct {
	shared.BaseDomainEvent
	BranchID int64 `json:"branch_id"`
}

// NewGrantRevokedEvent creates a new GrantRevokedEvent
func NewGrantRevokedEvent(userID uuid.UUID, branchID int64) *GrantRevokedEvent {
	return &GrantRevokedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGrantRevoked, AggregateTypeUser, userID),
		BranchID:        branchID,
	}
}

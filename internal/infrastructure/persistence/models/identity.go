package models

import (
	"time"

	"github.com/coffeecommand/backend/internal/domain/identity"
	"github.com/coffeecommand/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserModel is the persistence model for the User aggregate root.
type UserModel struct {
	AggregateModel
	Username string        `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email    string        `gorm:"type:varchar(200);index"`
	FullName string        `gorm:"type:varchar(200)"`
	Role     identity.Role `gorm:"type:varchar(20);not null;index"`
	Active   bool          `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Username: m.Username,
		Email:    m.Email,
		FullName: m.FullName,
		Role:     m.Role,
		Active:   m.Active,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.FullName = u.FullName
	m.Role = u.Role
	m.Active = u.Active
}

// BranchGrantModel is the persistence model for branch grants. The
// (user_id, branch_id) pair is unique - a user holds one grant per branch.
type BranchGrantModel struct {
	ID        uuid.UUID                `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_grant_user_branch,priority:1;index"`
	BranchID  int64                    `gorm:"not null;uniqueIndex:idx_grant_user_branch,priority:2;index"`
	Level     identity.PermissionLevel `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time                `gorm:"not null"`
	UpdatedAt time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BranchGrantModel) TableName() string {
	return "branch_grants"
}

// ToDomain converts the persistence model to a domain BranchGrant.
func (m *BranchGrantModel) ToDomain() identity.BranchGrant {
	return identity.BranchGrant{
		ID:        m.ID,
		UserID:    m.UserID,
		BranchID:  m.BranchID,
		Level:     m.Level,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain BranchGrant.
func (m *BranchGrantModel) FromDomain(g identity.BranchGrant) {
	m.ID = g.ID
	m.UserID = g.UserID
	m.BranchID = g.BranchID
	m.Level = g.Level
	m.CreatedAt = g.CreatedAt
	m.UpdatedAt = g.UpdatedAt
}

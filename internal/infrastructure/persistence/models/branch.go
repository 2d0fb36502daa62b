package models

import (
	"time"

	"github.com/coffeecommand/backend/internal/domain/branch"
)

// BranchModel is the persistence model for branches. The autoincrement ID is
// the stable creation-order key every branch listing sorts on.
type BranchModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Location  string    `gorm:"type:varchar(200)"`
	Address   string    `gorm:"type:varchar(500)"`
	Phone     string    `gorm:"type:varchar(50)"`
	Email     string    `gorm:"type:varchar(200)"`
	IsActive  bool      `gorm:"not null;default:true;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BranchModel) TableName() string {
	return "branches"
}

// ToDomain converts the persistence model to a domain Branch.
func (m *BranchModel) ToDomain() *branch.Branch {
	return &branch.Branch{
		ID:        m.ID,
		Name:      m.Name,
		Location:  m.Location,
		Address:   m.Address,
		Phone:     m.Phone,
		Email:     m.Email,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Branch.
func (m *BranchModel) FromDomain(b *branch.Branch) {
	m.ID = b.ID
	m.Name = b.Name
	m.Location = b.Location
	m.Address = b.Address
	m.Phone = b.Phone
	m.Email = b.Email
	m.IsActive = b.IsActive
	m.CreatedAt = b.CreatedAt
	m.UpdatedAt = b.UpdatedAt
}

package branch

import (
	"regexp"
	"strings"
	"time"

	"github.com/coffeecommand/backend/internal/domain/shared"
)

// Branch represents a coffee-shop location. Branches carry small integer IDs
// assigned in creation order, which doubles as the stable ordering key for
// every branch listing. Branches are deactivated rather than deleted so
// historical ledger rows never lose their branch.
type Branch struct {
	ID        int64
	Name      string
	Location  string
	Address   string
	Phone     string
	Email     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBranch creates a new active branch. The ID is assigned on first save.
func NewBranch(name, location string) (*Branch, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Branch{
		Name:      strings.TrimSpace(name),
		Location:  strings.TrimSpace(location),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetContact sets the branch contact details
func (b *Branch) SetContact(address, phone, email string) error {
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	b.Address = strings.TrimSpace(address)
	b.Phone = strings.TrimSpace(phone)
	b.Email = strings.ToLower(strings.TrimSpace(email))
	b.UpdatedAt = time.Now()
	return nil
}

// Rename updates the branch name
func (b *Branch) Rename(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	b.Name = strings.TrimSpace(name)
	b.UpdatedAt = time.Now()
	return nil
}

// SetLocation updates the branch location label
func (b *Branch) SetLocation(location string) {
	b.Location = strings.TrimSpace(location)
	b.UpdatedAt = time.Now()
}

// Deactivate takes the branch out of service. Its ledger history stays put.
func (b *Branch) Deactivate() error {
	if !b.IsActive {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "Branch is already deactivated")
	}
	b.IsActive = false
	b.UpdatedAt = time.Now()
	return nil
}

// Activate puts the branch back in service
func (b *Branch) Activate() error {
	if b.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Branch is already active")
	}
	b.IsActive = true
	b.UpdatedAt = time.Now()
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_BRANCH_NAME", "Branch name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_BRANCH_NAME", "Branch name cannot exceed 200 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

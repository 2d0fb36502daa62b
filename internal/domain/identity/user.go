package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/coffeecommand/backend/internal/domain/shared"
)

// User represents a staff account. Authentication happens at the external
// identity provider; this aggregate only carries the profile and role that
// drive grant administration.
type User struct {
	shared.BaseAggregateRoot
	Username string
	Email    string
	FullName string
	Role     Role
	Active   bool
}

// NewUser creates a new user with the given role
func NewUser(username, email, fullName string, role Role) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(strings.TrimSpace(username)),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		FullName:          strings.TrimSpace(fullName),
		Role:              role,
		Active:            true,
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// NewWorker creates a new worker account
func NewWorker(username, email, fullName string) (*User, error) {
	return NewUser(username, email, fullName, RoleWorker)
}

// SetFullName updates the user's display name
func (u *User) SetFullName(fullName string) error {
	if len(fullName) > 200 {
		return shared.NewDomainError("INVALID_FULL_NAME", "Full name cannot exceed 200 characters")
	}
	u.FullName = strings.TrimSpace(fullName)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// SetEmail updates the user's email
func (u *User) SetEmail(email string) error {
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
		email = strings.ToLower(strings.TrimSpace(email))
	}
	u.Email = email
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// Deactivate disables the account. Grants stay in place so a reactivated
// account picks up where it left off.
func (u *User) Deactivate() error {
	if !u.Active {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "User is already deactivated")
	}
	u.Active = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	u.AddDomainEvent(NewUserDeactivatedEvent(u))
	return nil
}

// Activate re-enables the account
func (u *User) Activate() error {
	if u.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.Active = true
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// IsWorker returns true for worker accounts
func (u *User) IsWorker() bool {
	return u.Role == RoleWorker
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}

	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
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

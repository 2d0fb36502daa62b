package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")

	// Branch access
	ErrPermissionDenied  = NewDomainError("PERMISSION_DENIED", "You don't have permission to perform this action on this branch")
	ErrNoBranchAvailable = NewDomainError("NO_BRANCH_AVAILABLE", "No branch is available for this user")

	// Ledger
	ErrInvalidAmount    = NewDomainError("INVALID_AMOUNT", "Enter a valid non-negative amount")
	ErrDayAlreadyClosed = NewDomainError("DAY_ALREADY_CLOSED", "This business day has already been closed")
	ErrAlreadyClosing   = NewDomainError("ALREADY_CLOSING", "End of day is already in progress for this branch")
)

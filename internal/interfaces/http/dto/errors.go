package dto

import "net/http"

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeUnauthorized is used when authentication is missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall back to 500.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,

	// Access control
	"PERMISSION_DENIED":    http.StatusForbidden,
	"INVALID_GRANT_TARGET": http.StatusBadRequest,
	"NO_BRANCH_AVAILABLE":  http.StatusNotFound,

	// Resources
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Day close lifecycle
	"DAY_ALREADY_CLOSED": http.StatusConflict,
	"ALREADY_CLOSING":    http.StatusConflict,
	"INVALID_DAY_STATE":  http.StatusConflict,

	// Validation
	"INVALID_INPUT":            http.StatusBadRequest,
	"INVALID_AMOUNT":           http.StatusBadRequest,
	"INVALID_QUANTITY":         http.StatusBadRequest,
	"INVALID_ITEM_NAME":        http.StatusBadRequest,
	"INVALID_DATE":             http.StatusBadRequest,
	"INVALID_BRANCH_ID":        http.StatusBadRequest,
	"INVALID_BRANCH_NAME":      http.StatusBadRequest,
	"INVALID_USERNAME":         http.StatusBadRequest,
	"INVALID_EMAIL":            http.StatusBadRequest,
	"INVALID_FULL_NAME":        http.StatusBadRequest,
	"INVALID_PHONE":            http.StatusBadRequest,
	"INVALID_ROLE":             http.StatusBadRequest,
	"INVALID_USER_ID":          http.StatusBadRequest,
	"INVALID_PERMISSION_LEVEL": http.StatusBadRequest,

	// State transitions
	"ALREADY_ACTIVE":      http.StatusConflict,
	"ALREADY_DEACTIVATED": http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

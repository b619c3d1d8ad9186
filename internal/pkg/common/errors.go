package common

import (
	"net/http"
)

// ErrorResponse is the JSON error body returned by the API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CustomError carries an error code, a caller-facing message and the HTTP
// status to respond with.
type CustomError struct {
	Code    string
	Message string
	Err     error
	Status  int
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError creates a new custom error.
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Predefined error codes.
const (
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNoValidRecipes  = "NO_VALID_RECIPES"  // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeDocumentWrite      = "DOCUMENT_WRITE"      // 500
	ErrCodeRecordStore        = "RECORD_STORE"        // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
)

// Predefined errors. Messages follow the wire format the frontend expects.
var (
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "recipes array is required", http.StatusBadRequest, nil)
	ErrNoValidRecipes  = NewError(ErrCodeNoValidRecipes, "No valid recipes with ingredients found", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "Record not found", http.StatusNotFound, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "Too many requests", http.StatusTooManyRequests, nil)

	ErrInternalError = NewError(ErrCodeInternalError, "Internal server error", http.StatusInternalServerError, nil)
	ErrDocumentWrite = NewError(ErrCodeDocumentWrite, "Internal server error", http.StatusInternalServerError, nil)
	ErrRecordStore   = NewError(ErrCodeRecordStore, "Internal server error", http.StatusInternalServerError, nil)
	ErrCacheDisabled = NewError("CACHE_DISABLED", "Cache is disabled", http.StatusServiceUnavailable, nil)
)

package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = new(ErrCodeAlreadyExists, "resource already exists")
	ErrVersionConflict  = new(ErrCodeVersionConflict, "version conflict")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrPermissionDenied = new(ErrCodePermissionDenied, "permission denied")
	ErrHTTPClient       = new(ErrCodeHTTPClient, "http client error")
	ErrDatabase         = new(ErrCodeDatabase, "database error")
	ErrSystem           = new(ErrCodeSystemError, "system error")

	// filter compilation
	ErrUnknownFilterKey = new(ErrCodeUnknownFilterKey, "unknown filter key")

	// version tokens
	ErrVersionRequired  = new(ErrCodeVersionRequired, "version token required")
	ErrVersionMalformed = new(ErrCodeVersionMalformed, "version token malformed")
	ErrVersionStale     = new(ErrCodeVersionStale, "version token stale")
	ErrVersionAhead     = new(ErrCodeVersionAhead, "version token ahead of stored version")

	// settlement
	ErrInvoiceAlreadyPaid = new(ErrCodeInvoiceAlreadyPaid, "invoice already paid")
	ErrInsufficientFunds  = new(ErrCodeInsufficientFunds, "insufficient funds")

	// maps errors to http status codes, most specific first since an error
	// may carry several marks
	statusCodes = []struct {
		err    error
		status int
	}{
		{ErrUnknownFilterKey, http.StatusBadRequest},
		{ErrVersionRequired, http.StatusPreconditionRequired},
		{ErrVersionMalformed, http.StatusPreconditionFailed},
		{ErrVersionStale, http.StatusPreconditionFailed},
		{ErrVersionAhead, http.StatusPreconditionFailed},
		{ErrInvoiceAlreadyPaid, http.StatusConflict},
		{ErrInsufficientFunds, http.StatusPaymentRequired},
		{ErrNotFound, http.StatusNotFound},
		{ErrAlreadyExists, http.StatusConflict},
		{ErrVersionConflict, http.StatusConflict},
		{ErrValidation, http.StatusBadRequest},
		{ErrInvalidOperation, http.StatusBadRequest},
		{ErrPermissionDenied, http.StatusForbidden},
		{ErrHTTPClient, http.StatusInternalServerError},
		{ErrDatabase, http.StatusInternalServerError},
		{ErrSystem, http.StatusInternalServerError},
	}
)

const (
	ErrCodeHTTPClient         = "http_client_error"
	ErrCodeSystemError        = "system_error"
	ErrCodeNotFound           = "not_found"
	ErrCodeAlreadyExists      = "already_exists"
	ErrCodeVersionConflict    = "version_conflict"
	ErrCodeValidation         = "validation_error"
	ErrCodeInvalidOperation   = "invalid_operation"
	ErrCodePermissionDenied   = "permission_denied"
	ErrCodeDatabase           = "database_error"
	ErrCodeUnknownFilterKey   = "unknown_filter_key"
	ErrCodeVersionRequired    = "version_required"
	ErrCodeVersionMalformed   = "version_malformed"
	ErrCodeVersionStale       = "version_stale"
	ErrCodeVersionAhead       = "version_ahead"
	ErrCodeInvoiceAlreadyPaid = "invoice_already_paid"
	ErrCodeInsufficientFunds  = "insufficient_funds"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

// New creates a new InternalError for packages that wrap it in their own types
func New(code string, message string) *InternalError {
	return new(code, message)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is reports whether err is marked with, or wraps, the reference error
func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsVersionConflict checks if an error is a version conflict error
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsPermissionDenied checks if an error is a permission denied error
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsHTTPClient checks if an error is an http client error
func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

// IsVersionError reports whether err is any of the version token errors
func IsVersionError(err error) bool {
	return errors.Is(err, ErrVersionRequired) ||
		errors.Is(err, ErrVersionMalformed) ||
		errors.Is(err, ErrVersionStale) ||
		errors.Is(err, ErrVersionAhead)
}

func HTTPStatusFromErr(err error) int {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.err) {
			return sc.status
		}
	}
	return http.StatusInternalServerError
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so a wrapped copy still satisfies
// errors.Is against the predefined value.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Catalog errors
	ErrBookNotFound   = NewDomainError("BOOK_NOT_FOUND", "book not found")
	ErrAuthorNotFound = NewDomainError("AUTHOR_NOT_FOUND", "author not found")
	ErrGenreNotFound  = NewDomainError("GENRE_NOT_FOUND", "genre not found")
	ErrGenreInUse     = NewDomainError("GENRE_IN_USE", "genre still has books")
	ErrAuthorInUse    = NewDomainError("AUTHOR_IN_USE", "author still has books")
	ErrDuplicate      = NewDomainError("DUPLICATE", "resource already exists")

	// Validation errors
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "invalid input")

	// Persistence errors
	ErrCommitFailed     = NewDomainError("COMMIT_FAILED", "changes could not be saved")
	ErrStoreUnavailable = NewDomainError("STORE_UNAVAILABLE", "data store unavailable")

	// System errors
	ErrInternal = NewDomainError("INTERNAL_ERROR", "internal server error")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "INVALID_INPUT":
		return http.StatusBadRequest

	// 404 Not Found
	case "BOOK_NOT_FOUND", "AUTHOR_NOT_FOUND", "GENRE_NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "COMMIT_FAILED", "DUPLICATE", "GENRE_IN_USE", "AUTHOR_IN_USE":
		return http.StatusConflict

	// 503 Service Unavailable
	case "STORE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCode returns the domain code of err, or INTERNAL_ERROR.
func GetErrorCode(err error) string {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code
	}
	return ErrInternal.Code
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}

package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes rendered to clients.
const (
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeBadRequest       = "BAD_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeInternal         = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	CodeUnauthorized:     http.StatusUnauthorized,
	CodeForbidden:        http.StatusForbidden,
	CodeBadRequest:       http.StatusBadRequest,
	CodeValidationFailed: http.StatusBadRequest,
	CodeNotFound:         http.StatusNotFound,
	CodeConflict:         http.StatusConflict,
	CodeInternal:         http.StatusInternalServerError,
}

// DomainError is the error type services return and the HTTP layer renders.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError with an explicit status.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func newCoded(code, message string, details map[string]any) *DomainError {
	return NewDomainError(code, message, statusByCode[code], details)
}

func NewValidationError(message string, details map[string]any) error {
	return newCoded(CodeValidationFailed, message, details)
}

func NewBadRequest(message string, details map[string]any) error {
	return newCoded(CodeBadRequest, message, details)
}

// NewNotFound names the missing resource; details identify which one.
func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return newCoded(CodeNotFound, resource+" not found", details)
}

func NewUnauthorized(message string) error {
	return newCoded(CodeUnauthorized, message, nil)
}

func NewForbidden(message string) error {
	return newCoded(CodeForbidden, message, nil)
}

func NewConflict(message string, details map[string]any) error {
	return newCoded(CodeConflict, message, details)
}

// NewInternalError hides cause from clients but keeps it for logs.
func NewInternalError(cause error) error {
	e := newCoded(CodeInternal, "internal server error", nil)
	e.Err = cause
	return e
}

// ToDomainError classifies any error: DomainErrors pass through,
// pgx.ErrNoRows becomes NOT_FOUND and everything else INTERNAL_ERROR.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	switch {
	case errors.As(err, &domainErr):
		return domainErr
	case errors.Is(err, pgx.ErrNoRows):
		e := newCoded(CodeNotFound, "resource not found", map[string]any{})
		e.Err = err
		return e
	default:
		return NewInternalError(err).(*DomainError)
	}
}

// MapError is ToDomainError that keeps nil as a nil error interface.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// HasCode reports whether err is a DomainError carrying code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

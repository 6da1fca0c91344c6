package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies which family of failure an Error belongs to.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindDispatch    Kind = "dispatch"
	KindPersistence Kind = "persistence"
)

// Error carries an HTTP status, a machine-readable code, and optional
// per-field messages alongside the wrapped cause.
type Error struct {
	Kind   Kind
	Status int
	Code   string
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, status int, code string, err error) *Error {
	return &Error{Kind: kind, Status: status, Code: code, Err: err}
}

func Validation(code string, fields map[string]string) *Error {
	return &Error{
		Kind:   KindValidation,
		Status: http.StatusBadRequest,
		Code:   code,
		Fields: fields,
		Err:    errors.New(code),
	}
}

func NotFound(entity string) *Error {
	return &Error{
		Kind:   KindNotFound,
		Status: http.StatusNotFound,
		Code:   entity + "_not_found",
		Err:    fmt.Errorf("%s not found", entity),
	}
}

func Dispatch(err error) *Error {
	return &Error{
		Kind:   KindDispatch,
		Status: http.StatusBadGateway,
		Code:   "dispatch_failed",
		Err:    err,
	}
}

func Persistence(err error) *Error {
	return &Error{
		Kind:   KindPersistence,
		Status: http.StatusInternalServerError,
		Code:   "persistence_failed",
		Err:    err,
	}
}

// Conflict marks persistence failures caused by unique-constraint
// violations (e.g. racing customer creates for one email).
func Conflict(err error) *Error {
	return &Error{
		Kind:   KindPersistence,
		Status: http.StatusConflict,
		Code:   "conflict",
		Err:    err,
	}
}

func IsKind(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

func IsValidation(err error) bool  { return IsKind(err, KindValidation) }
func IsNotFound(err error) bool    { return IsKind(err, KindNotFound) }
func IsDispatch(err error) bool    { return IsKind(err, KindDispatch) }
func IsPersistence(err error) bool { return IsKind(err, KindPersistence) }

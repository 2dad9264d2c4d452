// Package apperr is the canonical error layer for the Carvio API.
// Every error that crosses a service boundary is wrapped as an *Error
// carrying a machine-readable kind, a client-safe message and an HTTP
// status. The wrapped cause is for server-side logging only and is never
// sent to clients.
package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Kind string

const (
	KindNoSession         Kind = "NO_SESSION"
	KindInvalidSession    Kind = "INVALID_SESSION"
	KindIdentityGone      Kind = "IDENTITY_GONE"
	KindNotFound          Kind = "NOT_FOUND"
	KindStorageFailure    Kind = "STORAGE_FAILURE"
	KindValidationFailure Kind = "VALIDATION_FAILURE"
	KindDuplicateKey      Kind = "DUPLICATE_KEY"
)

type Error struct {
	Kind       Kind
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// NoSession means the request carried no session cookie at all.
func NoSession() *Error {
	return &Error{
		Kind:       KindNoSession,
		Message:    "You are not logged in",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidSession collapses malformed/bad-signature/expired token failures
// into one caller-visible rejection. The specific failure stays in Cause
// for diagnostics.
func InvalidSession(cause error) *Error {
	return &Error{
		Kind:       KindInvalidSession,
		Message:    "Invalid or expired session",
		HTTPStatus: http.StatusUnauthorized,
		Cause:      cause,
	}
}

// IdentityGone means a cryptographically valid token names a user that no
// longer exists.
func IdentityGone() *Error {
	return &Error{
		Kind:       KindIdentityGone,
		Message:    "Invalid or expired session",
		HTTPStatus: http.StatusUnauthorized,
	}
}

func NotFound(resource string) *Error {
	return &Error{
		Kind:       KindNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

func Storage(cause error) *Error {
	return &Error{
		Kind:       KindStorageFailure,
		Message:    "Something went wrong. Please try again later.",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func Validation(message string) *Error {
	return &Error{
		Kind:       KindValidationFailure,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Duplicate(message string) *Error {
	return &Error{
		Kind:       KindDuplicateKey,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Write sends err as a JSON error response. Errors that are not *Error
// are masked as a generic 500 so internal detail never leaks.
func Write(w http.ResponseWriter, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Storage(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus)
	json.NewEncoder(w).Encode(errorBody{Success: false, Message: appErr.Message})
}

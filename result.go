package auth

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Caller facing messages
const (
	MsgRegistered      = "Admin registered successfully"
	MsgLoginSuccessful = "Login successful"
	MsgLoggedOut       = "Logged out successfully"
	MsgHeld            = "User held successfully"
	MsgUnheld          = "User unheld successfully"
	MsgPasswordChanged = "Password changed successfully"
	MsgAccountDeleted  = "Admin account deleted successfully"
	MsgServerError     = "Server error"
	MsgDeleteFailed    = "Something went wrong, please try again later"
	MsgListed          = "Admins retrieved successfully"
	MsgAuthenticated   = "Authenticated"
)

// StatusKind is the transport independent outcome of an operation
type StatusKind string

const (
	StatusOK           StatusKind = "OK"
	StatusCreated      StatusKind = "Created"
	StatusBadRequest   StatusKind = "BadRequest"
	StatusUnauthorized StatusKind = "Unauthorized"
	StatusForbidden    StatusKind = "Forbidden"
	StatusNotFound     StatusKind = "NotFound"
	StatusConflict     StatusKind = "Conflict"
	StatusServerError  StatusKind = "ServerError"
)

// HTTPStatus maps the status kind to an HTTP status code
func (s StatusKind) HTTPStatus() int {
	switch s {
	case StatusOK:
		return http.StatusOK
	case StatusCreated:
		return http.StatusCreated
	case StatusBadRequest:
		return http.StatusBadRequest
	case StatusUnauthorized:
		return http.StatusUnauthorized
	case StatusForbidden:
		return http.StatusForbidden
	case StatusNotFound:
		return http.StatusNotFound
	case StatusConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsSuccess reports whether the status is OK or Created
func (s StatusKind) IsSuccess() bool {
	return s == StatusOK || s == StatusCreated
}

// Result is the (status, message, payload) triple returned to callers
type Result struct {
	Status  StatusKind
	Message string
	Payload any
}

// OK builds a successful result
func OK(message string, payload any) Result {
	return Result{Status: StatusOK, Message: message, Payload: payload}
}

// Created builds a creation result
func Created(message string, payload any) Result {
	return Result{Status: StatusCreated, Message: message, Payload: payload}
}

// ResultFromError maps an error onto the status vocabulary. Unknown errors
// become ServerError with a generic message.
func ResultFromError(err error) Result {
	if err == nil {
		return Result{Status: StatusOK}
	}

	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return Result{Status: StatusServerError, Message: MsgServerError}
	}

	status := statusFromRichError(richErr)
	if status == StatusServerError {
		return Result{Status: StatusServerError, Message: MsgServerError}
	}
	return Result{Status: status, Message: richErr.Message}
}

// StatusFromError returns only the status kind of err
func StatusFromError(err error) StatusKind {
	return ResultFromError(err).Status
}

func statusFromRichError(richErr *goerrors.Error) StatusKind {
	switch richErr.Category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return StatusBadRequest
	case goerrors.CategoryConflict:
		return StatusConflict
	case goerrors.CategoryAuth:
		return StatusUnauthorized
	case goerrors.CategoryAuthz:
		return StatusForbidden
	case goerrors.CategoryNotFound:
		return StatusNotFound
	default:
		return StatusServerError
	}
}

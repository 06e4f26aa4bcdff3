package auth

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeMissingFields        = "MISSING_REQUIRED_FIELDS"
	TextCodeInvalidRole          = "INVALID_ROLE"
	TextCodeEmptyPassword        = "EMPTY_PASSWORD"
	TextCodePasswordTooLong      = "PASSWORD_TOO_LONG"
	TextCodeAccountExists        = "ACCOUNT_EXISTS"
	TextCodeInvalidCreds         = "INVALID_CREDENTIALS"
	TextCodeAccountHeld          = "ACCOUNT_HELD"
	TextCodeIncorrectPassword    = "INCORRECT_CURRENT_PASSWORD"
	TextCodeUnauthenticated      = "UNAUTHENTICATED"
	TextCodeAccountNotFound      = "ACCOUNT_NOT_FOUND"
	TextCodeSelfDeletion         = "SELF_DELETION_FORBIDDEN"
	TextCodeInsufficientRole     = "INSUFFICIENT_ROLE"
	TextCodeListForbidden        = "LIST_FORBIDDEN"
	TextCodeTokenExpired         = "TOKEN_EXPIRED"
	TextCodeTokenMalformed       = "TOKEN_MALFORMED"
	TextCodeMissingSigningKey    = "MISSING_SIGNING_KEY"
	TextCodeInvalidStateChange   = "INVALID_ACCOUNT_STATE_TRANSITION"
	TextCodeTerminalAccountState = "TERMINAL_ACCOUNT_STATE"
)

// tokenErrorMessage is shared by every token failure so callers cannot tell
// an expired token from a tampered one.
const tokenErrorMessage = "Invalid or expired token"

// ErrMissingRegistrationFields is returned when register lacks username, email or password
var ErrMissingRegistrationFields = goerrors.New("Username, email, and password are required", goerrors.CategoryValidation).
	WithTextCode(TextCodeMissingFields).
	WithCode(goerrors.CodeBadRequest)

// ErrMissingCredentials is returned when login lacks username or password
var ErrMissingCredentials = goerrors.New("Username and password are required", goerrors.CategoryValidation).
	WithTextCode(TextCodeMissingFields).
	WithCode(goerrors.CodeBadRequest)

// ErrMissingPasswordFields is returned when a password change lacks either password
var ErrMissingPasswordFields = goerrors.New("Current password and new password are required", goerrors.CategoryValidation).
	WithTextCode(TextCodeMissingFields).
	WithCode(goerrors.CodeBadRequest)

// ErrMissingTargetUsername is returned when hold toggle has no target
var ErrMissingTargetUsername = goerrors.New("Username is required", goerrors.CategoryValidation).
	WithTextCode(TextCodeMissingFields).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidRole is returned for roles outside the admin/sub admin set
var ErrInvalidRole = goerrors.New("Invalid role", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidRole).
	WithCode(goerrors.CodeBadRequest)

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrPasswordTooLong is returned when the password exceeds what bcrypt accepts
var ErrPasswordTooLong = goerrors.New("password is too long", goerrors.CategoryValidation).
	WithTextCode(TextCodePasswordTooLong).
	WithCode(goerrors.CodeBadRequest)

// ErrAccountExists is returned when username or email is already taken
var ErrAccountExists = goerrors.New("Username or email already exists", goerrors.CategoryConflict).
	WithTextCode(TextCodeAccountExists).
	WithCode(goerrors.CodeConflict)

// ErrMismatchedHashAndPassword is the generic login failure. It is used both for
// unknown usernames and wrong passwords.
var ErrMismatchedHashAndPassword = goerrors.New("Invalid username or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountHeld is returned when a held account tries to log in
var ErrAccountHeld = goerrors.New("Your account is on hold, please contact the admin", goerrors.CategoryAuth).
	WithTextCode(TextCodeAccountHeld).
	WithCode(goerrors.CodeUnauthorized)

// ErrIncorrectCurrentPassword is returned by password changes
var ErrIncorrectCurrentPassword = goerrors.New("Current password is incorrect", goerrors.CategoryAuth).
	WithTextCode(TextCodeIncorrectPassword).
	WithCode(goerrors.CodeUnauthorized)

// ErrUnauthenticated is returned when an operation needs a caller identity
var ErrUnauthenticated = goerrors.New("Unauthorized", goerrors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountNotFound is returned by stores and operations for missing accounts
var ErrAccountNotFound = goerrors.New("Admin not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrSelfDeletion is returned when a caller targets their own account
var ErrSelfDeletion = goerrors.New("Admins cannot delete their own account", goerrors.CategoryAuthz).
	WithTextCode(TextCodeSelfDeletion).
	WithCode(goerrors.CodeForbidden)

// ErrInsufficientRole is returned when a non admin tries to delete
var ErrInsufficientRole = goerrors.New("Insufficient permissions to delete admin", goerrors.CategoryAuthz).
	WithTextCode(TextCodeInsufficientRole).
	WithCode(goerrors.CodeForbidden)

// ErrListForbidden is returned when the caller role cannot list accounts
var ErrListForbidden = goerrors.New("Unauthorized access", goerrors.CategoryAuthz).
	WithTextCode(TextCodeListForbidden).
	WithCode(goerrors.CodeForbidden)

// ErrTokenExpired is returned for tokens past their exp claim
var ErrTokenExpired = goerrors.New(tokenErrorMessage, goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed covers bad signatures, unexpected algorithms and garbage input
var ErrTokenMalformed = goerrors.New(tokenErrorMessage, goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrMissingSigningKey is a startup error
var ErrMissingSigningKey = goerrors.New("token signing key is required", goerrors.CategoryInternal).
	WithTextCode(TextCodeMissingSigningKey).
	WithCode(goerrors.CodeInternal)

// ErrInvalidTransition is returned when a requested state change is not allowed
var ErrInvalidTransition = goerrors.New("invalid account state transition", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidStateChange).
	WithCode(goerrors.CodeBadRequest)

// ErrTerminalState is returned when moving a deleted account
var ErrTerminalState = goerrors.New("account state is terminal", goerrors.CategoryConflict).
	WithTextCode(TextCodeTerminalAccountState).
	WithCode(goerrors.CodeConflict)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if hasTextCode(err, TextCodeTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for malformed or tampered tokens
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if hasTextCode(err, TextCodeTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsAccountNotFound reports whether err is the store's not found error
func IsAccountNotFound(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrAccountNotFound) {
		return true
	}
	return hasTextCode(err, TextCodeAccountNotFound)
}

func hasTextCode(err error, code string) bool {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}

func internalError(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).
		WithCode(goerrors.CodeInternal)
}

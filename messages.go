package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// RegisterAccountMessage is the registration payload
type RegisterAccountMessage struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	FullName string `json:"full_name" form:"full_name"`
	PhoneNo  string `json:"phone_no" form:"phone_no"`
	Role     string `json:"role" form:"role"`
}

// Type implements the message contract
func (m RegisterAccountMessage) Type() string { return "admin.register" }

// Validate only checks presence. Email format is not enforced.
func (m RegisterAccountMessage) Validate() *goerrors.Error {
	return goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&m,
			validation.Field(&m.Username, validation.Required),
			validation.Field(&m.Email, validation.Required),
			validation.Field(&m.Password, validation.Required),
		)
	}, ErrMissingRegistrationFields.Message)
}

// LoginMessage is the login payload
type LoginMessage struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Type implements the message contract
func (m LoginMessage) Type() string { return "admin.login" }

// Validate checks both fields are present
func (m LoginMessage) Validate() *goerrors.Error {
	return goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&m,
			validation.Field(&m.Username, validation.Required),
			validation.Field(&m.Password, validation.Required),
		)
	}, ErrMissingCredentials.Message)
}

// HoldToggleMessage names the account to hold or release
type HoldToggleMessage struct {
	Username string `json:"username" form:"username"`
}

// Type implements the message contract
func (m HoldToggleMessage) Type() string { return "admin.hold" }

// Validate checks the target is present
func (m HoldToggleMessage) Validate() *goerrors.Error {
	return goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&m,
			validation.Field(&m.Username, validation.Required),
		)
	}, ErrMissingTargetUsername.Message)
}

// ChangePasswordMessage is the self service password change payload
type ChangePasswordMessage struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword"`
	NewPassword     string `json:"newPassword" form:"newPassword"`
}

// Type implements the message contract
func (m ChangePasswordMessage) Type() string { return "admin.password.change" }

// Validate checks both passwords are present
func (m ChangePasswordMessage) Validate() *goerrors.Error {
	return goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&m,
			validation.Field(&m.CurrentPassword, validation.Required),
			validation.Field(&m.NewPassword, validation.Required),
		)
	}, ErrMissingPasswordFields.Message)
}

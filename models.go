package auth

import (
	"time"

	"github.com/uptrace/bun"
)

// AccountState is the lifecycle state of an admin account
type AccountState string

const (
	// AccountStateActive accounts can log in
	AccountStateActive AccountState = "active"
	// AccountStateHeld accounts are suspended until toggled back
	AccountStateHeld AccountState = "held"
	// AccountStateDeleted is terminal, the record no longer exists
	AccountStateDeleted AccountState = "deleted"
)

// Account is the admin account model
type Account struct {
	bun.BaseModel `bun:"table:admin,alias:adm"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Username      string    `bun:"username,notnull,unique" json:"username"`
	Email         string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash  string    `bun:"password_hash,notnull" json:"-"`
	FullName      string    `bun:"full_name" json:"full_name,omitempty"`
	PhoneNo       string    `bun:"phone_no" json:"phone_no,omitempty"`
	Role          Role      `bun:"role,notnull" json:"role"`
	Held          bool      `bun:"hold_user,notnull" json:"hold_user"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// State derives the lifecycle state from the hold flag
func (a *Account) State() AccountState {
	if a == nil {
		return AccountStateDeleted
	}
	if a.Held {
		return AccountStateHeld
	}
	return AccountStateActive
}

// IsHeld reports whether the account is on hold
func (a *Account) IsHeld() bool {
	return a != nil && a.Held
}

// Identity returns the token identity for the account
func (a *Account) Identity() Identity {
	if a == nil {
		return Identity{}
	}
	return Identity{
		ID:       a.ID,
		Username: a.Username,
		Role:     a.Role,
	}
}

// Summary projects the fields returned by account listings
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		FullName: a.FullName,
		PhoneNo:  a.PhoneNo,
		Held:     a.Held,
		Role:     a.Role,
	}
}

// AccountSummary is the listing projection, it never carries the password hash
type AccountSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	PhoneNo  string `json:"phone_no"`
	Held     bool   `json:"hold_user"`
	Role     Role   `json:"role"`
}

// AccountUpdate lists the mutable columns. Nil fields are left untouched.
type AccountUpdate struct {
	PasswordHash *string
	Held         *bool
	Role         *Role
}

// IsEmpty reports whether the update would not change anything
func (u AccountUpdate) IsEmpty() bool {
	return u.PasswordHash == nil && u.Held == nil && u.Role == nil
}

package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the caller resolved from a verified session token.
// It is only used as authorization input and never persisted.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsZero reports whether no identity is present
func (i Identity) IsZero() bool {
	return i.ID == 0 && i.Username == "" && i.Role == ""
}

// AuthClaims is the read only view over session token claims
type AuthClaims interface {
	Subject() string
	UserID() string
	Username() string
	Role() string
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	AccountID int64  `json:"id"`
	Name      string `json:"username"`
	UserRole  Role   `json:"role"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the account id as a decimal string
func (c *JWTClaims) UserID() string {
	if c.AccountID != 0 {
		return strconv.FormatInt(c.AccountID, 10)
	}
	return c.Subject()
}

// Username returns the username claim
func (c *JWTClaims) Username() string {
	return c.Name
}

// Role returns the role claim
func (c *JWTClaims) Role() string {
	return string(c.UserRole)
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Identity projects the claims into an Identity
func (c *JWTClaims) Identity() Identity {
	return Identity{
		ID:       c.AccountID,
		Username: c.Name,
		Role:     c.UserRole,
	}
}

// Session is the decoded token as reported back to its holder
type Session struct {
	Identity
	IssuedAt  int64 `json:"iat,omitempty"`
	ExpiresAt int64 `json:"exp,omitempty"`
}

type timedClaims interface {
	IssuedAt() time.Time
	Expires() time.Time
}

// NewSession pairs identity with the token times found in claims, if any
func NewSession(identity Identity, claims AuthClaims) Session {
	session := Session{Identity: identity}
	timed, ok := claims.(timedClaims)
	if !ok {
		return session
	}
	if iat := timed.IssuedAt(); !iat.IsZero() {
		session.IssuedAt = iat.Unix()
	}
	if exp := timed.Expires(); !exp.IsZero() {
		session.ExpiresAt = exp.Unix()
	}
	return session
}

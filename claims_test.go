package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	auth "github.com/goliatone/go-admin-auth"
	"github.com/stretchr/testify/assert"
)

func TestJWTClaims_Subject(t *testing.T) {
	claims := &auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "42",
		},
	}

	assert.Equal(t, "42", claims.Subject())
}

func TestJWTClaims_UserID(t *testing.T) {
	t.Run("returns account id when present", func(t *testing.T) {
		claims := &auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject: "42",
			},
			AccountID: 7,
		}

		assert.Equal(t, "7", claims.UserID())
	})

	t.Run("fallback to subject when account id is empty", func(t *testing.T) {
		claims := &auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject: "42",
			},
		}

		assert.Equal(t, "42", claims.UserID())
	})
}

func TestJWTClaims_Identity(t *testing.T) {
	claims := &auth.JWTClaims{
		AccountID: 5,
		Name:      "erin",
		UserRole:  auth.RoleSubAdmin,
	}

	assert.Equal(t, "erin", claims.Username())
	assert.Equal(t, "sub admin", claims.Role())
	assert.Equal(t, auth.Identity{ID: 5, Username: "erin", Role: auth.RoleSubAdmin}, claims.Identity())
}

func TestJWTClaims_Times(t *testing.T) {
	t.Run("zero values when unset", func(t *testing.T) {
		claims := &auth.JWTClaims{}
		assert.True(t, claims.Expires().IsZero())
		assert.True(t, claims.IssuedAt().IsZero())
	})

	t.Run("returns registered times", func(t *testing.T) {
		now := time.Unix(1700000000, 0)
		claims := &auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			},
		}
		assert.True(t, now.Equal(claims.IssuedAt()))
		assert.True(t, now.Add(24*time.Hour).Equal(claims.Expires()))
	})
}

func TestIdentity_IsZero(t *testing.T) {
	assert.True(t, auth.Identity{}.IsZero())
	assert.False(t, auth.Identity{ID: 1}.IsZero())
	assert.False(t, auth.Identity{Username: "a"}.IsZero())
}

func TestNewSession(t *testing.T) {
	identity := auth.Identity{ID: 5, Username: "erin", Role: auth.RoleSubAdmin}

	t.Run("carries token times", func(t *testing.T) {
		now := time.Unix(1700000000, 0)
		claims := &auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			},
		}

		session := auth.NewSession(identity, claims)
		assert.Equal(t, identity, session.Identity)
		assert.Equal(t, int64(1700000000), session.IssuedAt)
		assert.Equal(t, int64(1700000000+86400), session.ExpiresAt)
	})

	t.Run("without claims", func(t *testing.T) {
		session := auth.NewSession(identity, nil)
		assert.Equal(t, auth.Session{Identity: identity}, session)
	})
}

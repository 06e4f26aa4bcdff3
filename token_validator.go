package auth

// TokenValidator validates tokens and extracts claims without tying callers
// to a specific signing implementation.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) (AuthClaims, error)

// Validate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Validate(tokenString string) (AuthClaims, error) {
	if f == nil {
		return nil, ErrTokenMalformed
	}
	return f(tokenString)
}

// Validator exposes the service as a TokenValidator
func (ts *TokenService) Validator() TokenValidator {
	return TokenValidatorFunc(func(tokenString string) (AuthClaims, error) {
		claims, err := ts.Validate(tokenString)
		if err != nil {
			return nil, err
		}
		return claims, nil
	})
}

// MultiTokenValidator tries validators in order until one succeeds.
// It treats ErrTokenMalformed as "try next" and returns the last malformed
// error if all validators fail. Used to accept tokens signed with a
// previous key during rotation.
type MultiTokenValidator struct {
	validators []TokenValidator
}

// NewMultiTokenValidator filters nil validators and returns a composite validator.
func NewMultiTokenValidator(validators ...TokenValidator) *MultiTokenValidator {
	filtered := make([]TokenValidator, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			filtered = append(filtered, v)
		}
	}
	return &MultiTokenValidator{validators: filtered}
}

// Validate satisfies the TokenValidator interface.
func (m *MultiTokenValidator) Validate(tokenString string) (AuthClaims, error) {
	var lastErr error
	for _, v := range m.validators {
		claims, err := v.Validate(tokenString)
		if err == nil {
			return claims, nil
		}
		if IsMalformedError(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrTokenMalformed
}

// VerifyIdentity validates tokenString with v and returns the caller identity
func VerifyIdentity(v TokenValidator, tokenString string) (Identity, error) {
	if v == nil {
		return Identity{}, ErrTokenMalformed
	}
	claims, err := v.Validate(tokenString)
	if err != nil {
		return Identity{}, err
	}
	return IdentityFromClaims(claims)
}

// IdentityFromClaims converts claims into an Identity, rejecting unknown roles
func IdentityFromClaims(claims AuthClaims) (Identity, error) {
	if claims == nil {
		return Identity{}, ErrTokenMalformed
	}
	if c, ok := claims.(*JWTClaims); ok {
		identity := c.Identity()
		if !identity.Role.IsValid() || identity.ID <= 0 || identity.Username == "" {
			return Identity{}, ErrTokenMalformed
		}
		return identity, nil
	}
	role, ok := ParseRole(claims.Role())
	if !ok {
		return Identity{}, ErrTokenMalformed
	}
	id, err := parseAccountID(claims.UserID())
	if err != nil || claims.Username() == "" {
		return Identity{}, ErrTokenMalformed
	}
	return Identity{ID: id, Username: claims.Username(), Role: role}, nil
}

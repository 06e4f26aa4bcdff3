package auth

import (
	"context"

	"github.com/goliatone/go-admin-auth/middleware/jwtware"
	"github.com/goliatone/go-router"
)

// ValidationListener aliases the jwtware listener so consumers can use auth helpers directly.
type ValidationListener = jwtware.ValidationListener

// JWTValidator adapts a TokenValidator to the jwtware contract
func JWTValidator(v TokenValidator) jwtware.TokenValidator {
	return jwtware.TokenValidatorFunc(func(tokenString string) (jwtware.AuthClaims, error) {
		claims, err := v.Validate(tokenString)
		if err != nil {
			return nil, err
		}
		return claims, nil
	})
}

// ContextEnricherAdapter stores claims and the caller Identity in the user
// context for downstream handlers.
func ContextEnricherAdapter(c context.Context, claims jwtware.AuthClaims) context.Context {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return c
	}

	ctxWithClaims := WithClaimsContext(c, authClaims)

	identity, err := IdentityFromClaims(authClaims)
	if err != nil {
		return ctxWithClaims
	}
	return WithIdentity(ctxWithClaims, identity)
}

// RegisterValidationListeners appends listeners to a jwtware.Config in a safe, reusable way.
func RegisterValidationListeners(cfg *jwtware.Config, listeners ...ValidationListener) {
	if cfg == nil || len(listeners) == 0 {
		return
	}
	cfg.ValidationListeners = append(cfg.ValidationListeners, listeners...)
}

// ProtectedRoute returns the bearer token middleware for the admin routes.
// Tokens are checked with v and the resulting Identity lands in the user context.
func ProtectedRoute(cfg Config, v TokenValidator, listeners ...ValidationListener) router.MiddlewareFunc {
	mw := jwtware.Config{
		ContextKey:      cfg.GetContextKey(),
		TokenLookup:     cfg.GetTokenLookup(),
		AuthScheme:      cfg.GetAuthScheme(),
		TokenValidator:  JWTValidator(v),
		ContextEnricher: ContextEnricherAdapter,
		ErrorHandler: func(ctx router.Context, err error) error {
			res := ResultFromError(err)
			switch {
			case jwtware.IsMissingToken(err):
				res = ResultFromError(ErrUnauthenticated)
			case res.Status == StatusServerError:
				res = ResultFromError(ErrTokenMalformed)
			}
			return ctx.JSON(res.Status.HTTPStatus(), map[string]any{"message": res.Message})
		},
	}
	RegisterValidationListeners(&mw, listeners...)
	return jwtware.New(mw)
}

package jwtware_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-admin-auth/middleware/jwtware"
)

type stubClaims struct {
	id       string
	username string
	role     string
}

func (s stubClaims) Subject() string  { return s.id }
func (s stubClaims) UserID() string   { return s.id }
func (s stubClaims) Username() string { return s.username }
func (s stubClaims) Role() string     { return s.role }

var errBadToken = errors.New("bad token")

// stubValidator accepts only the tokens it knows about
func stubValidator(tokens map[string]stubClaims) jwtware.TokenValidator {
	return jwtware.TokenValidatorFunc(func(token string) (jwtware.AuthClaims, error) {
		claims, ok := tokens[token]
		if !ok {
			return nil, errBadToken
		}
		return claims, nil
	})
}

var defaultTokens = map[string]stubClaims{
	"admin-token": {id: "1", username: "alice", role: "admin"},
	"sub-token":   {id: "2", username: "bob", role: "sub admin"},
}

func newServer() router.Server[*fiber.App] {
	return router.NewFiberAdapter(func(*fiber.App) *fiber.App {
		return fiber.New(fiber.Config{DisableStartupMessage: true})
	})
}

func newApp(t *testing.T, cfg jwtware.Config) *fiber.App {
	t.Helper()

	if cfg.TokenValidator == nil {
		cfg.TokenValidator = stubValidator(defaultTokens)
	}

	srv := newServer()
	srv.Router().Get("/protected", func(ctx router.Context) error {
		claims, ok := ctx.Locals("user").(jwtware.AuthClaims)
		if !ok {
			return ctx.Status(http.StatusTeapot).SendString("")
		}
		return ctx.Status(http.StatusOK).SendString(claims.Username())
	}, jwtware.New(cfg))
	return srv.WrappedRouter()
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestJWTWare_BasicHeaderExtraction(t *testing.T) {
	app := newApp(t, jwtware.Config{})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer admin-token")
		status, body := doRequest(t, app, req)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "alice", body)
	})

	t.Run("scheme is case insensitive", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "bearer sub-token")
		status, body := doRequest(t, app, req)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "bob", body)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		status, body := doRequest(t, app, req)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.JSONEq(t, `{"message":"Unauthorized"}`, body)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic admin-token")
		status, _ := doRequest(t, app, req)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("scheme without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer ")
		status, body := doRequest(t, app, req)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.JSONEq(t, `{"message":"Unauthorized"}`, body)
	})

	t.Run("rejected token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer forged")
		status, body := doRequest(t, app, req)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.JSONEq(t, `{"message":"Invalid or expired token"}`, body)
	})
}

func TestJWTWare_CustomTokenLookup(t *testing.T) {
	app := newApp(t, jwtware.Config{
		TokenLookup: "header:X-Admin-Token,query:auth_token,cookie:jwt",
	})

	t.Run("custom header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("X-Admin-Token", "Bearer admin-token")
		status, body := doRequest(t, app, req)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "alice", body)
	})

	t.Run("query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected?auth_token=sub-token", nil)
		status, body := doRequest(t, app, req)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "bob", body)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "jwt", Value: "admin-token"})
		status, body := doRequest(t, app, req)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "alice", body)
	})

	t.Run("default header is not consulted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer admin-token")
		status, _ := doRequest(t, app, req)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestJWTWare_Filter(t *testing.T) {
	app := newApp(t, jwtware.Config{
		Filter: func(ctx router.Context) bool {
			return ctx.Query("skip", "") == "1"
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/protected?skip=1", nil)
	status, _ := doRequest(t, app, req)
	assert.Equal(t, http.StatusTeapot, status, "filtered requests reach the handler without claims")
}

func TestJWTWare_RequiredRole(t *testing.T) {
	app := newApp(t, jwtware.Config{RequiredRole: "admin"})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	status, _ := doRequest(t, app, req)
	assert.Equal(t, http.StatusOK, status)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer sub-token")
	status, body := doRequest(t, app, req)
	assert.Equal(t, http.StatusForbidden, status)
	assert.JSONEq(t, `{"message":"Unauthorized access"}`, body)
}

func TestJWTWare_RoleChecker(t *testing.T) {
	var seen string
	app := newApp(t, jwtware.Config{
		RequiredRole: "staff",
		RoleChecker: func(claims jwtware.AuthClaims, role string) bool {
			seen = role
			return claims.Role() == "admin" || claims.Role() == "sub admin"
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer sub-token")
	status, _ := doRequest(t, app, req)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "staff", seen)
}

func TestJWTWare_ValidationListeners(t *testing.T) {
	var calls []string
	listenerErr := errors.New("listener veto")

	app := newApp(t, jwtware.Config{
		ValidationListeners: []jwtware.ValidationListener{
			nil,
			func(ctx router.Context, claims jwtware.AuthClaims) error {
				calls = append(calls, claims.UserID())
				if claims.Role() == "sub admin" {
					return listenerErr
				}
				return nil
			},
		},
		ErrorHandler: func(ctx router.Context, err error) error {
			if errors.Is(err, listenerErr) {
				return ctx.Status(http.StatusLocked).SendString(err.Error())
			}
			return ctx.Status(http.StatusUnauthorized).SendString("")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	status, _ := doRequest(t, app, req)
	assert.Equal(t, http.StatusOK, status)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer sub-token")
	status, body := doRequest(t, app, req)
	assert.Equal(t, http.StatusLocked, status)
	assert.Equal(t, "listener veto", body)

	assert.Equal(t, []string{"1", "2"}, calls)
}

type ctxKey struct{}

func TestJWTWare_ContextEnricher(t *testing.T) {
	srv := newServer()
	srv.Router().Get("/whoami", func(ctx router.Context) error {
		name, _ := ctx.Context().Value(ctxKey{}).(string)
		_, hasLocals := ctx.Locals("claims").(jwtware.AuthClaims)
		if !hasLocals {
			return ctx.Status(http.StatusTeapot).SendString("")
		}
		return ctx.Status(http.StatusOK).SendString(name)
	}, jwtware.New(jwtware.Config{
		TokenValidator: stubValidator(defaultTokens),
		ContextKey:     "claims",
		ContextEnricher: func(ctx context.Context, claims jwtware.AuthClaims) context.Context {
			return context.WithValue(ctx, ctxKey{}, claims.Username())
		},
	}))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	status, body := doRequest(t, srv.WrappedRouter(), req)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body)
}

func TestJWTWare_SuccessHandler(t *testing.T) {
	app := newApp(t, jwtware.Config{
		SuccessHandler: func(ctx router.Context, next router.HandlerFunc) error {
			ctx.SetHeader("X-Authenticated", "1")
			return next(ctx)
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "1", resp.Header.Get("X-Authenticated"))
}

func TestJWTWare_MockContext(t *testing.T) {
	middleware := jwtware.New(jwtware.Config{
		TokenValidator: stubValidator(defaultTokens),
		ErrorHandler: func(ctx router.Context, err error) error {
			return err
		},
	})

	t.Run("valid token reaches the handler", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.HeadersM["Authorization"] = "Bearer admin-token"
		ctx.On("Header", "Authorization").Return("Bearer admin-token").Maybe()
		ctx.On("Locals", "user", mock.Anything).Return(nil).Maybe()
		ctx.On("Context").Return(context.Background()).Maybe()
		ctx.On("SetContext", mock.Anything).Return().Maybe()

		var reached bool
		err := middleware(func(router.Context) error {
			reached = true
			return nil
		})(ctx)

		require.NoError(t, err)
		assert.True(t, reached)
	})

	t.Run("missing token stops the chain", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.On("Header", "Authorization").Return("").Maybe()

		var reached bool
		err := middleware(func(router.Context) error {
			reached = true
			return nil
		})(ctx)

		require.Error(t, err)
		assert.True(t, jwtware.IsMissingToken(err))
		assert.False(t, reached)
	})
}

func TestGetDefaultConfig(t *testing.T) {
	assert.Panics(t, func() {
		jwtware.GetDefaultConfig()
	})

	cfg := jwtware.GetDefaultConfig(jwtware.Config{TokenValidator: stubValidator(nil)})
	assert.Equal(t, "user", cfg.ContextKey)
	assert.Equal(t, "header:Authorization", cfg.TokenLookup)
	assert.Equal(t, "Bearer", cfg.AuthScheme)
	assert.NotNil(t, cfg.ErrorHandler)
	assert.NotNil(t, cfg.SuccessHandler)
}

func TestGetExtractors(t *testing.T) {
	assert.Len(t, jwtware.GetExtractors("header:Authorization,query:token,param:id,cookie:jwt"), 4)
	assert.Len(t, jwtware.GetExtractors("header:Authorization,bogus,unknown:x"), 1)
	assert.Empty(t, jwtware.GetExtractors(""))
}

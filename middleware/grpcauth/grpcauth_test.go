package grpcauth_test

import (
	"context"
	"errors"
	"testing"

	auth "github.com/goliatone/go-admin-auth"
	"github.com/goliatone/go-admin-auth/middleware/grpcauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func ctxWithAuthorization(value string) context.Context {
	md := metadata.Pairs("authorization", value)
	return metadata.NewIncomingContext(context.Background(), md)
}

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService([]byte("grpc-test-key"), auth.WithTokenLogger(auth.NopLogger()))
	require.NoError(t, err)
	return tokens
}

func TestUnaryInterceptor(t *testing.T) {
	tokens := newTokens(t)
	interceptor := grpcauth.NewUnaryInterceptor(tokens.Validator(), grpcauth.HealthCheckMethod)

	token, _, err := tokens.Issue(auth.Identity{ID: 7, Username: "bob", Role: auth.RoleSubAdmin})
	require.NoError(t, err)

	t.Run("allowlisted method skips auth", func(t *testing.T) {
		called := false
		_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: grpcauth.HealthCheckMethod},
			func(ctx context.Context, req any) (any, error) {
				called = true
				_, ok := auth.IdentityFromContext(ctx)
				assert.False(t, ok)
				return nil, nil
			})
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("identity injected", func(t *testing.T) {
		_, err := interceptor(ctxWithAuthorization("Bearer "+token), nil, &grpc.UnaryServerInfo{FullMethod: "/admin.v1.Admin/List"},
			func(ctx context.Context, req any) (any, error) {
				identity, err := grpcauth.RequireIdentity(ctx)
				require.NoError(t, err)
				assert.Equal(t, auth.Identity{ID: 7, Username: "bob", Role: auth.RoleSubAdmin}, identity)

				claims, ok := auth.GetClaims(ctx)
				require.True(t, ok)
				assert.Equal(t, "bob", claims.Username())
				return "ok", nil
			})
		require.NoError(t, err)
	})

	t.Run("missing metadata", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/admin.v1.Admin/List"},
			func(ctx context.Context, req any) (any, error) {
				t.Fatal("handler must not run")
				return nil, nil
			})
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
		assert.Equal(t, "Unauthorized", status.Convert(err).Message())
	})

	t.Run("forged token", func(t *testing.T) {
		_, err := interceptor(ctxWithAuthorization("Bearer forged"), nil, &grpc.UnaryServerInfo{FullMethod: "/admin.v1.Admin/List"},
			func(ctx context.Context, req any) (any, error) {
				t.Fatal("handler must not run")
				return nil, nil
			})
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
		assert.Equal(t, "Invalid or expired token", status.Convert(err).Message())
	})
}

func TestBearerFromMD(t *testing.T) {
	tests := []struct {
		name  string
		ctx   context.Context
		token string
		ok    bool
	}{
		{"no metadata", context.Background(), "", false},
		{"bearer", ctxWithAuthorization("Bearer abc"), "abc", true},
		{"lowercase scheme", ctxWithAuthorization("bearer abc"), "abc", true},
		{"basic", ctxWithAuthorization("Basic abc"), "", false},
		{"scheme only", ctxWithAuthorization("Bearer "), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := grpcauth.BearerFromMD(tt.ctx)
			if !tt.ok {
				assert.ErrorIs(t, err, auth.ErrUnauthenticated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{auth.ErrMissingCredentials, codes.InvalidArgument},
		{auth.ErrMismatchedHashAndPassword, codes.Unauthenticated},
		{auth.ErrSelfDeletion, codes.PermissionDenied},
		{auth.ErrAccountNotFound, codes.NotFound},
		{auth.ErrAccountExists, codes.AlreadyExists},
		{errors.New("db down"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			err := grpcauth.Error(tt.err)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}

	assert.NoError(t, grpcauth.Error(nil))
	assert.Equal(t, "Server error", status.Convert(grpcauth.Error(errors.New("db down"))).Message())
	assert.Equal(t, codes.OK, grpcauth.StatusFromResult(auth.OK(auth.MsgListed, nil)).Code())
}

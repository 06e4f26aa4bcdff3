package grpcauth

import (
	"context"
	"strings"

	auth "github.com/goliatone/go-admin-auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// HealthCheckMethod is allowlisted by the server binary
const HealthCheckMethod = "/grpc.health.v1.Health/Check"

// NewUnaryInterceptor returns a gRPC unary interceptor that extracts and validates
// a Bearer token from incoming metadata and injects the caller Identity into the context.
// Methods listed in allowUnauthenticated bypass authentication.
func NewUnaryInterceptor(v auth.TokenValidator, allowUnauthenticated ...string) grpc.UnaryServerInterceptor {
	allow := make(map[string]struct{}, len(allowUnauthenticated))
	for _, m := range allowUnauthenticated {
		allow[strings.TrimSpace(m)] = struct{}{}
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := allow[info.FullMethod]; ok {
			return handler(ctx, req)
		}

		token, err := BearerFromMD(ctx)
		if err != nil {
			return nil, Error(auth.ErrUnauthenticated)
		}

		claims, err := v.Validate(token)
		if err != nil {
			return nil, Error(auth.ErrTokenMalformed)
		}

		identity, err := auth.IdentityFromClaims(claims)
		if err != nil {
			return nil, Error(auth.ErrTokenMalformed)
		}

		ctx = auth.WithClaimsContext(ctx, claims)
		return handler(auth.WithIdentity(ctx, identity), req)
	}
}

// BearerFromMD reads the bearer token from the authorization metadata
func BearerFromMD(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", auth.ErrUnauthenticated
	}

	vals := md.Get("authorization")
	if len(vals) == 0 {
		return "", auth.ErrUnauthenticated
	}

	parts := strings.SplitN(vals[0], " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", auth.ErrUnauthenticated
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", auth.ErrUnauthenticated
	}
	return token, nil
}

// RequireIdentity returns the identity injected by the interceptor
func RequireIdentity(ctx context.Context) (auth.Identity, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return auth.Identity{}, Error(auth.ErrUnauthenticated)
	}
	return identity, nil
}

// Code maps a status kind onto a gRPC code
func Code(kind auth.StatusKind) codes.Code {
	switch kind {
	case auth.StatusOK, auth.StatusCreated:
		return codes.OK
	case auth.StatusBadRequest:
		return codes.InvalidArgument
	case auth.StatusUnauthorized:
		return codes.Unauthenticated
	case auth.StatusForbidden:
		return codes.PermissionDenied
	case auth.StatusNotFound:
		return codes.NotFound
	case auth.StatusConflict:
		return codes.AlreadyExists
	default:
		return codes.Internal
	}
}

// StatusFromResult converts a Result into a gRPC status
func StatusFromResult(res auth.Result) *status.Status {
	return status.New(Code(res.Status), res.Message)
}

// Error maps err through the result vocabulary, nil stays nil
func Error(err error) error {
	if err == nil {
		return nil
	}
	return StatusFromResult(auth.ResultFromError(err)).Err()
}

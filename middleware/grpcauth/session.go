package grpcauth

import (
	"context"

	auth "github.com/goliatone/go-admin-auth"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// SessionCheckMethod reports the caller session. It requires a bearer token.
const SessionCheckMethod = "/admin.auth.v1.Session/Check"

// SessionChecker is the slice of AccountService the session server needs
type SessionChecker interface {
	CheckAuth(ctx context.Context, caller *auth.Identity) (auth.Identity, error)
}

// SessionServer answers Check over gRPC with the same payload as the HTTP
// check route.
type SessionServer struct {
	checker SessionChecker
}

// NewSessionServer builds a SessionServer around checker
func NewSessionServer(checker SessionChecker) *SessionServer {
	return &SessionServer{checker: checker}
}

// Check returns id, username, role, iat and exp for the caller
func (s *SessionServer) Check(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	caller, err := RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	identity, err := s.checker.CheckAuth(ctx, &caller)
	if err != nil {
		return nil, Error(err)
	}

	claims, _ := auth.GetClaims(ctx)
	session := auth.NewSession(identity, claims)

	out, err := structpb.NewStruct(map[string]any{
		"id":       session.ID,
		"username": session.Username,
		"role":     string(session.Role),
		"iat":      session.IssuedAt,
		"exp":      session.ExpiresAt,
	})
	if err != nil {
		return nil, Error(err)
	}
	return out, nil
}

type sessionService interface {
	Check(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func sessionCheckHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(sessionService).Check(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SessionCheckMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(sessionService).Check(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

var sessionServiceDesc = grpc.ServiceDesc{
	ServiceName: "admin.auth.v1.Session",
	HandlerType: (*sessionService)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Check",
			Handler:    sessionCheckHandler,
		},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterSessionServer mounts srv on s
func RegisterSessionServer(s grpc.ServiceRegistrar, srv *SessionServer) {
	s.RegisterService(&sessionServiceDesc, srv)
}

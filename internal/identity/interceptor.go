// ABOUTME: gRPC interceptors reconstructing the Principal from metadata
// ABOUTME: Mirrors the HTTP middleware for internal service-to-service RPC

package identity

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Metadata keys carrying identity between services over gRPC. These are
// the lowercase twins of the HTTP headers.
const (
	MetadataUserID    = "x-user-id"
	MetadataUserEmail = "x-user-email"
	MetadataUserRoles = "x-user-roles"
)

// fromMetadata rebuilds a Principal from incoming gRPC metadata, or nil
// if the identity keys are absent.
func fromMetadata(ctx context.Context) *Principal {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil
	}

	id := firstValue(md, MetadataUserID)
	email := firstValue(md, MetadataUserEmail)
	if id == "" || email == "" {
		return nil
	}

	return &Principal{
		ID:          id,
		Email:       email,
		Authorities: ParseAuthorities(firstValue(md, MetadataUserRoles)),
	}
}

func firstValue(md metadata.MD, key string) string {
	vals := md.Get(key)
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// UnaryInterceptor returns a gRPC unary interceptor that binds the
// Principal from incoming metadata. Requests without identity metadata
// pass through anonymous.
func UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if p := fromMetadata(ctx); p != nil {
			ctx = WithPrincipal(ctx, p)
		}
		return handler(ctx, req)
	}
}

// StreamInterceptor returns a gRPC stream interceptor that binds the
// Principal from incoming metadata.
func StreamInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if p := fromMetadata(ss.Context()); p != nil {
			wrapped := &wrappedServerStream{
				ServerStream: ss,
				ctx:          WithPrincipal(ss.Context(), p),
			}
			return handler(srv, wrapped)
		}
		return handler(srv, ss)
	}
}

// AppendToOutgoing copies a Principal onto outgoing gRPC metadata, for
// services that call further services on behalf of the same request.
func AppendToOutgoing(ctx context.Context, p *Principal) context.Context {
	roles := make([]string, len(p.Authorities))
	for i, a := range p.Authorities {
		roles[i] = string(a)
	}
	return metadata.AppendToOutgoingContext(ctx,
		MetadataUserID, p.ID,
		MetadataUserEmail, p.Email,
		MetadataUserRoles, strings.Join(roles, ","),
	)
}

// wrappedServerStream wraps a grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapped context.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

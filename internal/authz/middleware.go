// ABOUTME: HTTP middleware and gRPC interceptors enforcing authorization rules
// ABOUTME: Denials are generic; which clause failed is never revealed

package authz

import (
	"context"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bondhub/platform/internal/identity"
)

// Require returns an HTTP middleware that enforces the rule. Anonymous
// requests get 401; authenticated principals failing the rule get 403
// with a generic body. Must run after identity.Middleware.
func Require(rule Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := identity.FromContext(r.Context())
			if p == nil {
				http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
				return
			}
			if !rule.Allows(p, r) {
				http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthority returns a gRPC unary interceptor enforcing the given
// authority on every method under methodPrefix. Other methods pass
// through unchanged. Must run after identity.UnaryInterceptor.
func RequireAuthority(authority identity.Authority, methodPrefix string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !strings.HasPrefix(info.FullMethod, methodPrefix) {
			return handler(ctx, req)
		}

		p := identity.FromContext(ctx)
		if p == nil {
			return nil, status.Error(codes.Unauthenticated, "authentication required")
		}
		if !p.HasAuthority(authority) {
			return nil, status.Error(codes.PermissionDenied, "forbidden")
		}
		return handler(ctx, req)
	}
}

// RequireAuthorityStream is the stream flavor of RequireAuthority.
func RequireAuthorityStream(authority identity.Authority, methodPrefix string) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if !strings.HasPrefix(info.FullMethod, methodPrefix) {
			return handler(srv, ss)
		}

		p := identity.FromContext(ss.Context())
		if p == nil {
			return status.Error(codes.Unauthenticated, "authentication required")
		}
		if !p.HasAuthority(authority) {
			return status.Error(codes.PermissionDenied, "forbidden")
		}
		return handler(srv, ss)
	}
}

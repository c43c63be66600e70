// ABOUTME: Tests for the gRPC authority-gate interceptors
// ABOUTME: Covers method-prefix scoping and unauthenticated/denied outcomes

package authz

import (
	"context"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bondhub/platform/internal/identity"
)

const adminPrefix = "/bondhub.AdminService/"

func callUnary(t *testing.T, ctx context.Context, method string) error {
	t.Helper()
	interceptor := RequireAuthority(identity.RoleAdmin, adminPrefix)
	_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: method}, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	return err
}

func TestRequireAuthority_SkipsOtherServices(t *testing.T) {
	if err := callUnary(t, context.Background(), "/bondhub.UserService/GetUser"); err != nil {
		t.Errorf("non-admin method should pass through, got %v", err)
	}
}

func TestRequireAuthority_Unauthenticated(t *testing.T) {
	err := callUnary(t, context.Background(), adminPrefix+"ListAccounts")
	if status.Code(err) != codes.Unauthenticated {
		t.Errorf("code = %v, want Unauthenticated", status.Code(err))
	}
}

func TestRequireAuthority_Denied(t *testing.T) {
	ctx := identity.WithPrincipal(context.Background(), user("u1"))
	err := callUnary(t, ctx, adminPrefix+"ListAccounts")
	if status.Code(err) != codes.PermissionDenied {
		t.Errorf("code = %v, want PermissionDenied", status.Code(err))
	}
}

func TestRequireAuthority_Allowed(t *testing.T) {
	ctx := identity.WithPrincipal(context.Background(), admin())
	if err := callUnary(t, ctx, adminPrefix+"ListAccounts"); err != nil {
		t.Errorf("admin should be allowed, got %v", err)
	}
}

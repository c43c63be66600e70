// ABOUTME: Tests for the HTTP principal reconstruction middleware
// ABOUTME: Covers header parsing, default role, and the anonymous no-op path

package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func runMiddleware(t *testing.T, headers map[string]string) *Principal {
	t.Helper()

	var got *Principal
	handler := Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	return got
}

func TestMiddleware_BindsPrincipal(t *testing.T) {
	p := runMiddleware(t, map[string]string{
		HeaderUserID:    "u1",
		HeaderUserEmail: "u1@example.com",
		HeaderUserRoles: "ADMIN,USER",
	})

	if p == nil {
		t.Fatal("no principal bound")
	}
	if p.ID != "u1" || p.Email != "u1@example.com" {
		t.Errorf("principal = %+v", p)
	}
	if !p.HasRole("ADMIN") || !p.HasRole("USER") {
		t.Errorf("authorities = %v", p.Authorities)
	}
}

func TestMiddleware_DefaultRole(t *testing.T) {
	p := runMiddleware(t, map[string]string{
		HeaderUserID:    "u1",
		HeaderUserEmail: "u1@example.com",
	})

	if p == nil {
		t.Fatal("no principal bound")
	}
	if len(p.Authorities) != 1 || p.Authorities[0] != RoleUser {
		t.Errorf("authorities = %v, want [ROLE_USER]", p.Authorities)
	}
}

func TestMiddleware_MissingMetadataStaysAnonymous(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
	}{
		{name: "no headers", headers: nil},
		{name: "id only", headers: map[string]string{HeaderUserID: "u1"}},
		{name: "email only", headers: map[string]string{HeaderUserEmail: "u1@example.com"}},
		{name: "roles only", headers: map[string]string{HeaderUserRoles: "ADMIN"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if p := runMiddleware(t, tt.headers); p != nil {
				t.Errorf("principal = %+v, want anonymous", p)
			}
		})
	}
}

// ABOUTME: Tests for path pattern matching and the endpoint registry
// ABOUTME: Covers exact matches, wildcard prefixes, and layer derivation

package routes

import "testing"

func TestIsPublic_Matching(t *testing.T) {
	patterns := []string{
		"/auth/login",
		"/docs/**",
		"/metrics**",
	}

	tests := []struct {
		path string
		want bool
	}{
		{"/auth/login", true},
		{"/auth/login/extra", false},
		{"/auth/logi", false},
		{"/docs", false},
		{"/docs/", true},
		{"/docs/anything/nested", true},
		{"/docsecret", false},
		{"/docs-v2/readme", false},
		{"/other/anything", false},
		{"/metrics", true},
		{"/metrics.json", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsPublic(tt.path, patterns); got != tt.want {
				t.Errorf("IsPublic(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsPublic_EmptySet(t *testing.T) {
	if IsPublic("/auth/login", nil) {
		t.Error("IsPublic() = true with no patterns")
	}
}

func TestRegistry_DerivesBothLayers(t *testing.T) {
	r := NewRegistry([]Endpoint{
		{Gateway: "/api/auth/login", Service: "/auth/login"},
		{Gateway: "/api/docs/**"}, // edge-only aggregate
		{Service: "/probe"},       // service-only
	}, []string{"/internal/**"})

	if !r.IsGatewayPublic("/api/auth/login") {
		t.Error("gateway layer should accept /api/auth/login")
	}
	if r.IsGatewayPublic("/auth/login") {
		t.Error("gateway layer must not use service vocabulary")
	}
	if !r.IsServicePublic("/auth/login") {
		t.Error("service layer should accept /auth/login")
	}
	if r.IsServicePublic("/api/auth/login") {
		t.Error("service layer must not use gateway vocabulary")
	}

	if !r.IsGatewayPublic("/api/docs/swagger.json") {
		t.Error("edge-only wildcard should match at the gateway")
	}
	if !r.IsServicePublic("/probe") {
		t.Error("service-only endpoint should match at the service layer")
	}

	if !r.IsInternal("/internal/accounts/sync") {
		t.Error("internal wildcard should match")
	}
	if r.IsInternal("/auth/login") {
		t.Error("public path should not be internal")
	}
}

func TestDefaultRegistry_AuthEndpointsPublicAtBothLayers(t *testing.T) {
	r := DefaultRegistry()

	pairs := map[string]string{
		"/api/auth/login":    "/auth/login",
		"/api/auth/register": "/auth/register",
		"/api/auth/refresh":  "/auth/refresh",
		"/api/auth/validate": "/auth/validate",
	}
	for gw, svc := range pairs {
		if !r.IsGatewayPublic(gw) {
			t.Errorf("%s should be public at the gateway", gw)
		}
		if !r.IsServicePublic(svc) {
			t.Errorf("%s should be public at the service layer", svc)
		}
	}

	if r.IsGatewayPublic("/api/users/123") {
		t.Error("account resources must not be public")
	}
}

// ABOUTME: Public path classification for the two trust layers
// ABOUTME: One canonical endpoint registry derives gateway and service pattern sets

package routes

import "strings"

// Endpoint names one logical endpoint in both path vocabularies. Gateway is
// the pattern as external clients see it (including the routing prefix);
// Service is the pattern after the gateway's prefix rewrite. Either side
// may be empty for endpoints that only exist at one layer.
type Endpoint struct {
	Gateway string `yaml:"gateway"`
	Service string `yaml:"service"`
}

// Registry is the canonical list of public endpoints plus internal-only
// patterns. Both layer-specific public sets are derived from it, so the
// two layers cannot drift apart. Immutable after construction.
type Registry struct {
	endpoints []Endpoint
	internal  []string
}

// NewRegistry builds a registry from public endpoints and internal-only
// path patterns.
func NewRegistry(endpoints []Endpoint, internal []string) *Registry {
	r := &Registry{
		endpoints: make([]Endpoint, len(endpoints)),
		internal:  make([]string, len(internal)),
	}
	copy(r.endpoints, endpoints)
	copy(r.internal, internal)
	return r
}

// DefaultRegistry returns the stock BondHub endpoint registry: the token
// issuance API, the user service's public probe, and health checks.
func DefaultRegistry() *Registry {
	return NewRegistry([]Endpoint{
		// Token issuance endpoints (gateway strips /api/auth -> /auth)
		{Gateway: "/api/auth/login", Service: "/auth/login"},
		{Gateway: "/api/auth/register", Service: "/auth/register"},
		{Gateway: "/api/auth/refresh", Service: "/auth/refresh"},
		{Gateway: "/api/auth/validate", Service: "/auth/validate"},

		// User service public probe (gateway strips /api/users -> /users)
		{Gateway: "/api/users/test/security/public", Service: "/users/test/security/public"},

		// Health endpoints exist at both layers under the same path
		{Gateway: "/healthz", Service: "/healthz"},
	}, []string{
		"/internal/**",
		"/debug/**",
	})
}

// GatewayPublicPaths returns the public pattern set in the edge vocabulary.
func (r *Registry) GatewayPublicPaths() []string {
	var out []string
	for _, e := range r.endpoints {
		if e.Gateway != "" {
			out = append(out, e.Gateway)
		}
	}
	return out
}

// ServicePublicPaths returns the public pattern set in the post-rewrite
// vocabulary used by internal services.
func (r *Registry) ServicePublicPaths() []string {
	var out []string
	for _, e := range r.endpoints {
		if e.Service != "" {
			out = append(out, e.Service)
		}
	}
	return out
}

// InternalPaths returns patterns only reachable service-to-service.
func (r *Registry) InternalPaths() []string {
	out := make([]string, len(r.internal))
	copy(out, r.internal)
	return out
}

// IsGatewayPublic reports whether path is public at the edge layer.
func (r *Registry) IsGatewayPublic(path string) bool {
	return IsPublic(path, r.GatewayPublicPaths())
}

// IsServicePublic reports whether path is public at the service layer.
func (r *Registry) IsServicePublic(path string) bool {
	return IsPublic(path, r.ServicePublicPaths())
}

// IsInternal reports whether path should only be reachable from inside.
func (r *Registry) IsInternal(path string) bool {
	return IsPublic(path, r.internal)
}

// IsPublic reports whether path matches any pattern in the set. A pattern
// ending in "**" matches every path sharing the literal prefix before the
// stars, so "/docs/**" covers the subtree under "/docs/" but not "/docs"
// itself or siblings like "/docsecret". Any other pattern matches only an
// identical path. First match wins; there is no way to carve a private
// sub-path out of a public prefix.
func IsPublic(path string, patterns []string) bool {
	for _, p := range patterns {
		if matches(path, p) {
			return true
		}
	}
	return false
}

func matches(path, pattern string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "**"); ok {
		return strings.HasPrefix(path, prefix)
	}
	return path == pattern
}

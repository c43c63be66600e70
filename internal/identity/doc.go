// Package identity reconstructs the authenticated principal inside
// internal services.
//
// The edge gateway validates the bearer token once and projects the
// claims into three transport headers (X-User-Id, X-User-Email,
// X-User-Roles). This package reads those headers, or their gRPC metadata
// twins, and binds a Principal to the request context:
//
//	p := identity.FromContext(r.Context())
//
// Roles arrive as comma-joined raw labels and are normalized into typed
// ROLE_-prefixed Authority values exactly once, at the parse boundary. A
// request carrying identity headers but no roles gets the single default
// ROLE_USER authority. Requests without identity headers stay anonymous;
// package authz decides what anonymous requests may do.
//
// These headers are only trustworthy while the gateway is the sole
// reachable ingress. The gateway strips client-supplied copies on every
// request, public paths included.
package identity

// ABOUTME: Identity metadata header names and inject/strip helpers
// ABOUTME: These headers are the trust contract between gateway and services

package identity

import (
	"net/http"
	"strings"
)

// Propagated identity metadata headers. Set by the edge gateway after
// token validation; trusted unconditionally by internal services. The
// gateway must be the only reachable ingress for this trust to hold.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserRoles = "X-User-Roles"
)

// InjectHeaders writes the identity metadata extracted from validated
// claims onto the forwarded request. Roles are comma-joined raw labels.
func InjectHeaders(h http.Header, id, email string, roles []string) {
	h.Set(HeaderUserID, id)
	h.Set(HeaderUserEmail, email)
	h.Set(HeaderUserRoles, strings.Join(roles, ","))
}

// StripHeaders removes any identity metadata headers present on an inbound
// request. The gateway calls this on every request before forwarding so
// that clients can never smuggle their own identity.
func StripHeaders(h http.Header) {
	h.Del(HeaderUserID)
	h.Del(HeaderUserEmail)
	h.Del(HeaderUserRoles)
}

// ABOUTME: Principal type and authority normalization for authenticated requests
// ABOUTME: Roles become typed ROLE_-prefixed authorities at the parse boundary

package identity

import "strings"

// Authority is a normalized permission tag, always carrying the ROLE_
// prefix. Raw role labels from tokens or headers are converted exactly
// once, where they enter the process.
type Authority string

// Well-known authorities.
const (
	RoleUser  Authority = "ROLE_USER"
	RoleAdmin Authority = "ROLE_ADMIN"
)

// NormalizeAuthority converts a raw role label into an Authority,
// adding the ROLE_ prefix when absent.
func NormalizeAuthority(role string) Authority {
	if strings.HasPrefix(role, "ROLE_") {
		return Authority(role)
	}
	return Authority("ROLE_" + role)
}

// ParseAuthorities parses a comma-joined role list: split on commas, trim
// whitespace, drop empty segments, normalize each survivor. An empty or
// absent list yields exactly the default RoleUser authority.
func ParseAuthorities(roleList string) []Authority {
	var out []Authority
	for _, part := range strings.Split(roleList, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, NormalizeAuthority(part))
	}
	if len(out) == 0 {
		return []Authority{RoleUser}
	}
	return out
}

// Principal is the reconstructed identity of one inbound request. It is
// created by the reconstruction middleware, bound to the request context,
// and discarded when the request ends. Never persisted, never shared
// across requests.
type Principal struct {
	ID          string
	Email       string
	Authorities []Authority
}

// HasAuthority reports whether the principal holds the given authority.
func (p *Principal) HasAuthority(a Authority) bool {
	for _, have := range p.Authorities {
		if have == a {
			return true
		}
	}
	return false
}

// HasRole reports whether the principal holds the authority for the given
// raw role label ("ADMIN" matches ROLE_ADMIN).
func (p *Principal) HasRole(role string) bool {
	return p.HasAuthority(NormalizeAuthority(role))
}

// IsAdmin reports whether the principal holds RoleAdmin.
func (p *Principal) IsAdmin() bool {
	return p.HasAuthority(RoleAdmin)
}

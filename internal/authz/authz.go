// ABOUTME: Declarative per-operation authorization rules over the Principal
// ABOUTME: Rules are pure predicates; Require enforces them as middleware

package authz

import (
	"net/http"

	"github.com/bondhub/platform/internal/identity"
)

// Rule is a per-operation authorization predicate evaluated against the
// bound principal. Rules are side-effect-free and safe for concurrent use.
// A nil principal means the request is anonymous.
type Rule interface {
	Allows(p *identity.Principal, r *http.Request) bool
}

// ruleFunc adapts a function to the Rule interface.
type ruleFunc func(p *identity.Principal, r *http.Request) bool

func (f ruleFunc) Allows(p *identity.Principal, r *http.Request) bool {
	return f(p, r)
}

// Authenticated allows any bound principal, with any authority.
func Authenticated() Rule {
	return ruleFunc(func(p *identity.Principal, _ *http.Request) bool {
		return p != nil
	})
}

// HasRole allows principals holding the authority for the given role label.
func HasRole(role string) Rule {
	authority := identity.NormalizeAuthority(role)
	return ruleFunc(func(p *identity.Principal, _ *http.Request) bool {
		return p != nil && p.HasAuthority(authority)
	})
}

// HasAnyRole allows principals holding at least one of the given roles.
func HasAnyRole(roles ...string) Rule {
	authorities := make([]identity.Authority, len(roles))
	for i, role := range roles {
		authorities[i] = identity.NormalizeAuthority(role)
	}
	return ruleFunc(func(p *identity.Principal, _ *http.Request) bool {
		if p == nil {
			return false
		}
		for _, a := range authorities {
			if p.HasAuthority(a) {
				return true
			}
		}
		return false
	})
}

// Owner allows principals whose ID equals the named request path value.
func Owner(pathParam string) Rule {
	return ruleFunc(func(p *identity.Principal, r *http.Request) bool {
		if p == nil || r == nil {
			return false
		}
		id := r.PathValue(pathParam)
		return id != "" && id == p.ID
	})
}

// AnyOf allows a request that any of the given rules allows.
func AnyOf(rules ...Rule) Rule {
	return ruleFunc(func(p *identity.Principal, r *http.Request) bool {
		for _, rule := range rules {
			if rule.Allows(p, r) {
				return true
			}
		}
		return false
	})
}

// AdminOrOwner is the common compound rule for resource endpoints.
func AdminOrOwner(pathParam string) Rule {
	return AnyOf(HasRole("ADMIN"), Owner(pathParam))
}

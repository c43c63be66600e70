// Package authz evaluates per-operation authorization rules against the
// principal bound by package identity.
//
// Rules are declarative and composable:
//
//	authz.Require(authz.Authenticated())
//	authz.Require(authz.HasRole("ADMIN"))
//	authz.Require(authz.AdminOrOwner("userId"))
//
// Evaluation happens after principal reconstruction and before business
// logic. A failing rule yields a generic forbidden response; the client
// never learns which clause failed or which roles would have passed.
package authz

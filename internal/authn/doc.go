// Package authn implements the token lifecycle: issuance at login and
// registration, refresh exchange, and lightweight validation.
//
// Login verifies the password against the stored bcrypt hash and issues a
// short-lived access token (subject, email, roles) plus a long-lived
// refresh token (subject only). Refresh exchanges a refresh token for a
// new access token; the refresh token itself is returned unchanged, there
// is no rotation on use. Disabled accounts fail both login and refresh
// regardless of token validity.
//
// Unknown identity keys and wrong passwords are indistinguishable to the
// caller: both return ErrInvalidCredentials, and the not-found path burns
// a bcrypt comparison so timing gives nothing away either.
package authn

// Package token implements the signed claims codec shared by the edge
// gateway and the auth service.
//
// Tokens are JWTs signed with HS256 over a shared secret of at least
// MinSecretLength bytes. Two claim shapes exist:
//
//   - access tokens: subject, email, roles, type "access"
//   - refresh tokens: subject, type "refresh"
//
// Decode verifies the MAC before the expiry and reports failures as
// distinct sentinel errors (ErrSignatureInvalid, ErrMalformed, ErrExpired,
// ErrUnsupported, ErrEmpty) so callers can log "untrusted" separately from
// "well-formed but late". Both outcomes are authentication failures.
//
// The codec performs no I/O and is safe for concurrent use.
package token

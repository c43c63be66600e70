// Package gateway implements the edge API gateway, the only component
// external clients can reach.
//
// Every inbound request walks a fixed state machine with terminal
// outcomes:
//
//  1. Classify: public paths (edge vocabulary) forward untouched.
//  2. Extract: the bearer token is read from the Authorization header;
//     absence or a wrong scheme ends the request with a bare 401.
//  3. Decode: the token codec verifies signature then expiry; any decode
//     error ends the request with 401. Expired and invalid tokens differ
//     only in logs.
//  4. Project: subject, email and roles are written as X-User-* headers;
//     the Authorization header is stripped.
//  5. Forward: the reverse proxy rewrites the route prefix and sends the
//     request to the owning service.
//
// The filter is the outermost middleware and fails closed: a panic during
// steps 2-4 yields 401, never a forward. Client-supplied X-User-* headers
// are stripped on every request, so downstream trust in those headers is
// safe as long as this gateway is the only ingress. Deployments that want
// that guarantee from the network itself can enable the tsnet listener.
package gateway

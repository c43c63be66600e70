// ABOUTME: Edge authentication gate: classify, extract, decode, project, forward
// ABOUTME: Runs before any other forwarding logic; rejections never reach services

package gateway

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bondhub/platform/internal/identity"
	"github.com/bondhub/platform/internal/routes"
	"github.com/bondhub/platform/internal/token"
)

// AuthFilter is the first-hit interception point at the edge. It validates
// the bearer token once and projects the claims into the identity headers
// the internal services trust.
type AuthFilter struct {
	registry *routes.Registry
	codec    *token.Codec
	logger   *slog.Logger
}

// NewAuthFilter creates the edge gate.
func NewAuthFilter(registry *routes.Registry, codec *token.Codec, logger *slog.Logger) *AuthFilter {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthFilter{
		registry: registry,
		codec:    codec,
		logger:   logger.With("component", "auth-filter"),
	}
}

// Middleware wraps the forwarding handler. It must be the outermost
// middleware: a rejected request is finalized here and never forwarded,
// and a forwarded request always already carries trusted metadata.
func (f *AuthFilter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Client-supplied identity headers are never trusted, public
		// paths included.
		identity.StripHeaders(r.Header)

		if f.registry.IsGatewayPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		if !f.authenticate(w, r) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate runs steps 2-4 of the gate. It reports whether the request
// may be forwarded; on failure the 401 response is already written. Any
// panic fails closed.
func (f *AuthFilter) authenticate(w http.ResponseWriter, r *http.Request) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			f.logger.Error("auth filter panic, failing closed", "panic", p, "path", r.URL.Path)
			reject(w)
			ok = false
		}
	}()

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		f.logger.Warn("auth failure", "reason", "missing or malformed authorization header", "path", r.URL.Path)
		reject(w)
		return false
	}

	claims, err := f.codec.Decode(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		reason := "token invalid"
		if errors.Is(err, token.ErrExpired) {
			reason = "token expired"
		}
		f.logger.Warn("auth failure", "reason", reason, "path", r.URL.Path)
		reject(w)
		return false
	}

	identity.InjectHeaders(r.Header, claims.Subject(), claims.Email, claims.Roles)
	r.Header.Del("Authorization")
	return true
}

// reject finalizes the response: terminal 401, empty body.
func reject(w http.ResponseWriter) {
	w.WriteHeader(http.StatusUnauthorized)
}

// ABOUTME: HTTP middleware reconstructing the Principal from gateway headers
// ABOUTME: Runs on every internal service, no-op when metadata is absent

package identity

import (
	"log/slog"
	"net/http"
)

// Middleware returns an HTTP middleware that rebuilds the authenticated
// Principal from the propagated identity headers and binds it to the
// request context. If the ID or email header is missing the request
// proceeds anonymous; downstream rules requiring authentication will then
// reject it. The binding lives on the request-scoped context only, so
// nothing leaks into a reused connection or goroutine.
func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderUserID)
			email := r.Header.Get(HeaderUserEmail)

			if id == "" || email == "" {
				next.ServeHTTP(w, r)
				return
			}

			p := &Principal{
				ID:          id,
				Email:       email,
				Authorities: ParseAuthorities(r.Header.Get(HeaderUserRoles)),
			}

			if logger != nil {
				logger.Debug("principal bound", "user_id", p.ID, "authorities", len(p.Authorities))
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

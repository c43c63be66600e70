// ABOUTME: HTTP handlers for the bond-user security demo endpoints
// ABOUTME: Exercises every authorization rule form against the reconstructed principal

package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bondhub/platform/internal/authz"
	"github.com/bondhub/platform/internal/identity"
)

type handlers struct {
	logger *slog.Logger
}

// register adds the demo endpoints. The public endpoint is open at the
// edge and here; everything else requires a reconstructed principal.
func (h *handlers) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /users/test/security/public", h.handlePublic)
	mux.Handle("GET /users/test/security/authenticated",
		authz.Require(authz.Authenticated())(http.HandlerFunc(h.handleAuthenticated)))
	mux.Handle("GET /users/test/security/user-info",
		authz.Require(authz.Authenticated())(http.HandlerFunc(h.handleUserInfo)))
	mux.Handle("GET /users/test/security/admin",
		authz.Require(authz.HasRole("ADMIN"))(http.HandlerFunc(h.handleAdmin)))
	mux.Handle("GET /users/test/security/owner/{userId}",
		authz.Require(authz.AdminOrOwner("userId"))(http.HandlerFunc(h.handleOwner)))
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *handlers) handlePublic(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"message": "public endpoint, no authentication required"})
}

func (h *handlers) handleAuthenticated(w http.ResponseWriter, r *http.Request) {
	p := identity.MustFromContext(r.Context())
	writeJSON(w, map[string]string{
		"message": "authenticated endpoint",
		"userId":  p.ID,
	})
}

func (h *handlers) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	p := identity.MustFromContext(r.Context())
	writeJSON(w, map[string]any{
		"userId":      p.ID,
		"email":       p.Email,
		"authorities": p.Authorities,
	})
}

func (h *handlers) handleAdmin(w http.ResponseWriter, r *http.Request) {
	p := identity.MustFromContext(r.Context())
	h.logger.Info("admin endpoint accessed", "user_id", p.ID)
	writeJSON(w, map[string]string{
		"message": "admin endpoint",
		"userId":  p.ID,
	})
}

func (h *handlers) handleOwner(w http.ResponseWriter, r *http.Request) {
	p := identity.MustFromContext(r.Context())
	writeJSON(w, map[string]string{
		"message": "owner endpoint",
		"userId":  r.PathValue("userId"),
		"caller":  p.ID,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// ABOUTME: HTTP handlers for the token issuance API
// ABOUTME: login, register, refresh, and validate endpoints with JSON bodies

package authn

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bondhub/platform/internal/store"
)

// API exposes the lifecycle service over HTTP.
type API struct {
	svc    *Service
	logger *slog.Logger
}

// NewAPI creates the HTTP surface for the lifecycle service.
func NewAPI(svc *Service, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{svc: svc, logger: logger.With("component", "authn-api")}
}

// Register adds the auth endpoints to the mux, in the post-rewrite path
// vocabulary internal services see.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/login", a.handleLogin)
	mux.HandleFunc("POST /auth/register", a.handleRegister)
	mux.HandleFunc("POST /auth/refresh", a.handleRefresh)
	mux.HandleFunc("POST /auth/validate", a.handleValidate)
}

type loginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type validateRequest struct {
	Token string `json:"token"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PhoneNumber == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "phoneNumber and password are required")
		return
	}

	resp, err := a.svc.Login(r.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		a.writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	resp, err := a.svc.Register(r.Context(), req.Email, req.Password, req.PhoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmailInUse):
			writeError(w, http.StatusConflict, "email already in use")
		case errors.Is(err, store.ErrPhoneInUse):
			writeError(w, http.StatusConflict, "phone number already in use")
		default:
			a.writeInternalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	resp, err := a.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		a.writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": a.svc.Validate(req.Token)})
}

// writeAuthError maps lifecycle errors onto responses without leaking
// which check failed beyond the coarse classes the API contract defines.
func (a *API) writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, ErrAccountDisabled):
		writeError(w, http.StatusUnauthorized, "account disabled")
	case errors.Is(err, ErrInvalidRefreshToken):
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
	default:
		a.writeInternalError(w, err)
	}
}

func (a *API) writeInternalError(w http.ResponseWriter, err error) {
	a.logger.Error("internal error", "err", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

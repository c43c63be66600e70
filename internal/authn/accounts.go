// ABOUTME: HTTP handlers for account management on the auth service
// ABOUTME: List/get/update guarded by admin or resource-owner rules

package authn

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bondhub/platform/internal/authz"
	"github.com/bondhub/platform/internal/identity"
	"github.com/bondhub/platform/internal/store"
)

// AccountsAPI exposes account records over HTTP. All endpoints sit behind
// the principal reconstruction middleware; rules are enforced per route.
type AccountsAPI struct {
	accounts store.AccountStore
	logger   *slog.Logger
}

// NewAccountsAPI creates the account management surface.
func NewAccountsAPI(accounts store.AccountStore, logger *slog.Logger) *AccountsAPI {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountsAPI{accounts: accounts, logger: logger.With("component", "accounts-api")}
}

// Register adds the account endpoints to the mux.
func (a *AccountsAPI) Register(mux *http.ServeMux) {
	mux.Handle("GET /accounts", authz.Require(authz.HasRole("ADMIN"))(http.HandlerFunc(a.handleList)))
	mux.Handle("GET /accounts/{accountId}", authz.Require(authz.AdminOrOwner("accountId"))(http.HandlerFunc(a.handleGet)))
	mux.Handle("PUT /accounts/{accountId}", authz.Require(authz.AdminOrOwner("accountId"))(http.HandlerFunc(a.handleUpdate)))
}

// accountResponse is the outward account shape. The password hash never
// leaves the service.
type accountResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Roles       []string  `json:"roles"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toAccountResponse(acct *store.Account) accountResponse {
	roles := acct.Roles
	if roles == nil {
		roles = []string{}
	}
	return accountResponse{
		ID:          acct.ID,
		Email:       acct.Email,
		PhoneNumber: acct.PhoneNumber,
		Roles:       roles,
		Enabled:     acct.Enabled,
		CreatedAt:   acct.CreatedAt,
		UpdatedAt:   acct.UpdatedAt,
	}
}

func (a *AccountsAPI) handleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := a.accounts.ListAccounts(r.Context())
	if err != nil {
		a.logger.Error("listing accounts", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]accountResponse, len(accounts))
	for i, acct := range accounts {
		out[i] = toAccountResponse(acct)
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *AccountsAPI) handleGet(w http.ResponseWriter, r *http.Request) {
	acct, err := a.accounts.GetAccount(r.Context(), r.PathValue("accountId"))
	if errors.Is(err, store.ErrAccountNotFound) {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	if err != nil {
		a.logger.Error("getting account", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(acct))
}

// accountUpdateRequest carries the mutable account fields. Roles and
// enabled are admin-only; owners may change their contact details.
type accountUpdateRequest struct {
	Email       *string   `json:"email"`
	PhoneNumber *string   `json:"phoneNumber"`
	Roles       *[]string `json:"roles"`
	Enabled     *bool     `json:"enabled"`
}

func (a *AccountsAPI) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req accountUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	acct, err := a.accounts.GetAccount(r.Context(), r.PathValue("accountId"))
	if errors.Is(err, store.ErrAccountNotFound) {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	if err != nil {
		a.logger.Error("getting account", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	p := identity.MustFromContext(r.Context())
	if (req.Roles != nil || req.Enabled != nil) && !p.IsAdmin() {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if req.Email != nil {
		acct.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		acct.PhoneNumber = *req.PhoneNumber
	}
	if req.Roles != nil {
		acct.Roles = *req.Roles
	}
	if req.Enabled != nil {
		acct.Enabled = *req.Enabled
	}

	if err := a.accounts.UpdateAccount(r.Context(), acct); err != nil {
		a.logger.Error("updating account", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(acct))
}

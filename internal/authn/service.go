// ABOUTME: Token lifecycle service: login, register, refresh, validate
// ABOUTME: Verifies credentials against the account store and issues token pairs

package authn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bondhub/platform/internal/password"
	"github.com/bondhub/platform/internal/store"
	"github.com/bondhub/platform/internal/token"
)

// DefaultRole is assigned to every newly registered account.
const DefaultRole = "USER"

// Service errors
var (
	// ErrInvalidCredentials covers both unknown identity keys and wrong
	// passwords, deliberately undifferentiated to prevent enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDisabled is returned when the account exists but is disabled.
	// A disabled account fails login and refresh even with a valid token.
	ErrAccountDisabled = errors.New("account disabled")

	// ErrInvalidRefreshToken is returned when the refresh exchange is
	// rejected: bad decode, wrong token type, or unknown account.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// TokenResponse is the issuance API result shape.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"` // access token lifetime in seconds
}

// Config holds token lifetimes.
type Config struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Service implements the token lifecycle over an account store and codec.
type Service struct {
	accounts store.AccountStore
	codec    *token.Codec
	cfg      Config
	logger   *slog.Logger
}

// NewService creates a lifecycle service.
func NewService(accounts store.AccountStore, codec *token.Codec, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		accounts: accounts,
		codec:    codec,
		cfg:      cfg,
		logger:   logger.With("component", "authn"),
	}
}

// Login verifies the password for the account identified by phone number
// and issues an access/refresh token pair. Unknown phone numbers and wrong
// passwords produce the identical ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, phoneNumber, plainPassword string) (*TokenResponse, error) {
	acct, err := s.accounts.GetAccountByPhone(ctx, phoneNumber)
	if errors.Is(err, store.ErrAccountNotFound) {
		// Burn a comparison so misses cost the same as wrong passwords.
		password.DummyCompare(plainPassword)
		s.logger.Warn("login failed", "reason", "unknown identity")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("looking up account: %w", err)
	}

	if !password.Verify(plainPassword, acct.PasswordHash) {
		s.logger.Warn("login failed", "reason", "password mismatch", "account_id", acct.ID)
		return nil, ErrInvalidCredentials
	}

	if !acct.Enabled {
		s.logger.Warn("login failed", "reason", "account disabled", "account_id", acct.ID)
		return nil, ErrAccountDisabled
	}

	resp, err := s.issuePair(acct)
	if err != nil {
		return nil, err
	}
	s.logger.Info("login successful", "account_id", acct.ID)
	return resp, nil
}

// Register creates a new enabled account with the default role and issues
// tokens exactly as login does. Duplicate email or phone surfaces the
// store's ErrEmailInUse/ErrPhoneInUse.
func (s *Service) Register(ctx context.Context, email, plainPassword, phoneNumber string) (*TokenResponse, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	acct := &store.Account{
		ID:           uuid.New().String(),
		Email:        email,
		PhoneNumber:  phoneNumber,
		PasswordHash: hash,
		Roles:        []string{DefaultRole},
		Enabled:      true,
	}
	if err := s.accounts.CreateAccount(ctx, acct); err != nil {
		return nil, err
	}

	resp, err := s.issuePair(acct)
	if err != nil {
		return nil, err
	}
	s.logger.Info("registration successful", "account_id", acct.ID)
	return resp, nil
}

// Refresh exchanges a refresh token for a new access token. The supplied
// refresh token is returned unchanged; this design does not rotate
// refresh tokens on use. The account must still exist and be enabled.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	claims, err := s.codec.Decode(refreshToken)
	if err != nil {
		s.logger.Warn("refresh failed", "reason", "decode", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}
	if claims.TokenType != token.TypeRefresh {
		s.logger.Warn("refresh failed", "reason", "wrong token type")
		return nil, ErrInvalidRefreshToken
	}

	acct, err := s.accounts.GetAccount(ctx, claims.Subject())
	if errors.Is(err, store.ErrAccountNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, fmt.Errorf("looking up account: %w", err)
	}
	if !acct.Enabled {
		return nil, ErrAccountDisabled
	}

	access, err := s.codec.IssueAccess(acct.ID, acct.Email, acct.Roles, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}

	s.logger.Info("token refresh successful", "account_id", acct.ID)
	return &TokenResponse{
		AccessToken:  access,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.cfg.AccessTokenTTL.Seconds()),
	}, nil
}

// Validate reports whether the token decodes cleanly. Expired and invalid
// tokens are not distinguished in the boolean.
func (s *Service) Validate(tokenString string) bool {
	_, err := s.codec.Decode(tokenString)
	return err == nil
}

func (s *Service) issuePair(acct *store.Account) (*TokenResponse, error) {
	access, err := s.codec.IssueAccess(acct.ID, acct.Email, acct.Roles, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}
	refresh, err := s.codec.IssueRefresh(acct.ID, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issuing refresh token: %w", err)
	}
	return &TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.cfg.AccessTokenTTL.Seconds()),
	}, nil
}

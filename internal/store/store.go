// ABOUTME: Store interface and data types for credential persistence
// ABOUTME: Defines the Account record and the AccountStore interface

package store

import (
	"context"
	"errors"
	"time"
)

// Store errors
var (
	// ErrAccountNotFound is returned when no account matches the lookup key
	ErrAccountNotFound = errors.New("account not found")

	// ErrEmailInUse is returned when creating an account with a taken email
	ErrEmailInUse = errors.New("email already in use")

	// ErrPhoneInUse is returned when creating an account with a taken phone number
	ErrPhoneInUse = errors.New("phone number already in use")
)

// Account is a credential record. PasswordHash is a bcrypt hash; Roles are
// raw role labels (for example "USER", "ADMIN") without any authority
// prefix. Prefixing happens where roles are parsed from transport.
type Account struct {
	ID           string
	Email        string
	PhoneNumber  string
	PasswordHash string
	Roles        []string
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountStore is the narrow credential-store interface the auth core
// consumes. Implementations must be safe for concurrent use.
type AccountStore interface {
	// GetAccount returns the account with the given ID, or ErrAccountNotFound.
	GetAccount(ctx context.Context, id string) (*Account, error)

	// GetAccountByEmail returns the account with the given email, or ErrAccountNotFound.
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)

	// GetAccountByPhone returns the account with the given phone number, or ErrAccountNotFound.
	GetAccountByPhone(ctx context.Context, phoneNumber string) (*Account, error)

	// CreateAccount persists a new account. Returns ErrEmailInUse or
	// ErrPhoneInUse on uniqueness violations.
	CreateAccount(ctx context.Context, a *Account) error

	// UpdateAccount overwrites the stored account with the same ID.
	UpdateAccount(ctx context.Context, a *Account) error

	// ListAccounts returns all accounts ordered by creation time.
	ListAccounts(ctx context.Context) ([]*Account, error)
}

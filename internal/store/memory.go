// ABOUTME: In-memory AccountStore for tests and single-process demos
// ABOUTME: Mirrors the SQLite store's uniqueness and not-found semantics

package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements AccountStore with an in-memory map.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account
	order    []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*Account),
	}
}

func cloneAccount(a *Account) *Account {
	c := *a
	c.Roles = append([]string(nil), a.Roles...)
	return &c
}

// GetAccount returns the account with the given ID
func (m *MemoryStore) GetAccount(ctx context.Context, id string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

// GetAccountByEmail returns the account with the given email
func (m *MemoryStore) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, ErrAccountNotFound
}

// GetAccountByPhone returns the account with the given phone number
func (m *MemoryStore) GetAccountByPhone(ctx context.Context, phoneNumber string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.accounts {
		if a.PhoneNumber != "" && a.PhoneNumber == phoneNumber {
			return cloneAccount(a), nil
		}
	}
	return nil, ErrAccountNotFound
}

// CreateAccount persists a new account
func (m *MemoryStore) CreateAccount(ctx context.Context, a *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.accounts {
		if existing.Email == a.Email {
			return ErrEmailInUse
		}
		if a.PhoneNumber != "" && existing.PhoneNumber == a.PhoneNumber {
			return ErrPhoneInUse
		}
	}

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.UpdatedAt = a.CreatedAt

	m.accounts[a.ID] = cloneAccount(a)
	m.order = append(m.order, a.ID)
	return nil
}

// UpdateAccount overwrites the stored account with the same ID
func (m *MemoryStore) UpdateAccount(ctx context.Context, a *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[a.ID]; !ok {
		return ErrAccountNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	m.accounts[a.ID] = cloneAccount(a)
	return nil
}

// ListAccounts returns all accounts in creation order
func (m *MemoryStore) ListAccounts(ctx context.Context) ([]*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Account, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, cloneAccount(m.accounts[id]))
	}
	return out, nil
}

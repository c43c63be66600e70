// ABOUTME: SQLite implementation of AccountStore using modernc.org/sqlite
// ABOUTME: Provides account persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// SQLiteStore implements AccountStore using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			phone_number TEXT,
			password_hash TEXT NOT NULL,
			roles TEXT NOT NULL DEFAULT '',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_phone
			ON accounts(phone_number) WHERE phone_number != '';
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// joinRoles serializes role labels into the single roles column.
// Labels never contain commas.
func joinRoles(roles []string) string {
	return strings.Join(roles, ",")
}

// splitRoles parses the roles column back into labels
func splitRoles(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// GetAccount returns the account with the given ID
func (s *SQLiteStore) GetAccount(ctx context.Context, id string) (*Account, error) {
	return s.getAccountBy(ctx, "id", id)
}

// GetAccountByEmail returns the account with the given email
func (s *SQLiteStore) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	return s.getAccountBy(ctx, "email", email)
}

// GetAccountByPhone returns the account with the given phone number
func (s *SQLiteStore) GetAccountByPhone(ctx context.Context, phoneNumber string) (*Account, error) {
	return s.getAccountBy(ctx, "phone_number", phoneNumber)
}

func (s *SQLiteStore) getAccountBy(ctx context.Context, column, value string) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT id, email, phone_number, password_hash, roles, enabled, created_at, updated_at
		FROM accounts WHERE %s = ?`, column)

	var a Account
	var roles string
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&a.ID, &a.Email, &a.PhoneNumber, &a.PasswordHash, &roles, &a.Enabled, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying account by %s: %w", column, err)
	}
	a.Roles = splitRoles(roles)
	return &a, nil
}

// CreateAccount persists a new account
func (s *SQLiteStore) CreateAccount(ctx context.Context, a *Account) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.UpdatedAt = a.CreatedAt

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, phone_number, password_hash, roles, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.PhoneNumber, a.PasswordHash, joinRoles(a.Roles), a.Enabled, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			// The error code does not carry the column; the message
			// names the index that fired.
			if strings.Contains(err.Error(), "accounts.email") {
				return ErrEmailInUse
			}
			return ErrPhoneInUse
		}
		return fmt.Errorf("inserting account: %w", err)
	}
	return nil
}

// isUniqueConstraintError reports whether err is a SQLite unique
// constraint violation, matched on the extended result code.
func isUniqueConstraintError(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE
}

// UpdateAccount overwrites the stored account with the same ID
func (s *SQLiteStore) UpdateAccount(ctx context.Context, a *Account) error {
	a.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET email = ?, phone_number = ?, password_hash = ?, roles = ?, enabled = ?, updated_at = ?
		WHERE id = ?`,
		a.Email, a.PhoneNumber, a.PasswordHash, joinRoles(a.Roles), a.Enabled, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// ListAccounts returns all accounts ordered by creation time
func (s *SQLiteStore) ListAccounts(ctx context.Context) ([]*Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, phone_number, password_hash, roles, enabled, created_at, updated_at
		FROM accounts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		var a Account
		var roles string
		if err := rows.Scan(&a.ID, &a.Email, &a.PhoneNumber, &a.PasswordHash, &roles, &a.Enabled, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		a.Roles = splitRoles(roles)
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}

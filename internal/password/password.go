// ABOUTME: Password hashing and verification using bcrypt
// ABOUTME: Includes a dummy comparison helper to keep login timing flat

package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a valid bcrypt hash of a throwaway value. It is compared
// against the submitted password when the account lookup misses, so that
// unknown identities cost the same as wrong passwords.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Hash returns the bcrypt hash of the given plaintext password.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(h), nil
}

// Verify reports whether plain matches the stored bcrypt hash.
// bcrypt's comparison is constant-time over the hash output.
func Verify(plain, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plain)) == nil
}

// DummyCompare burns one bcrypt comparison against a fixed hash. Call it
// on the account-not-found path before returning the generic credentials
// error.
func DummyCompare(plain string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plain))
}

// ABOUTME: JWT claims codec for issuing and decoding signed identity tokens
// ABOUTME: Uses HS256 signing with a shared secret, distinct errors per failure

package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "type" claim.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// MinSecretLength is the minimum signing secret size in bytes (256 bits).
const MinSecretLength = 32

// Decode errors. Callers distinguish these for logging and metrics; all of
// them mean the token must be rejected.
var (
	ErrEmpty            = errors.New("empty token")
	ErrMalformed        = errors.New("malformed token")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrUnsupported      = errors.New("unsupported token")
	ErrSecretTooShort   = errors.New("signing secret too short")
)

// Claims is the payload of a signed token. Access tokens carry email and
// roles; refresh tokens carry only the subject and type.
type Claims struct {
	Email     string   `json:"email,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	TokenType string   `json:"type"`
	jwt.RegisteredClaims
}

// Subject returns the token subject (the account ID).
func (c *Claims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Codec issues and decodes HS256-signed tokens with a shared secret.
// It is stateless and safe for concurrent use.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec creates a codec for the given signing secret.
func NewCodec(secret []byte) (*Codec, error) {
	return NewCodecWithClock(secret, time.Now)
}

// NewCodecWithClock creates a codec with an explicit clock. Tests use this
// to exercise expiry without sleeping.
func NewCodecWithClock(secret []byte, now func() time.Time) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrSecretTooShort, len(secret), MinSecretLength)
	}
	return &Codec{secret: secret, now: now}, nil
}

// IssueAccess creates an access token carrying the subject, email and roles.
func (c *Codec) IssueAccess(subject, email string, roles []string, ttl time.Duration) (string, error) {
	return c.issue(&Claims{
		Email:     email,
		Roles:     roles,
		TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	}, ttl)
}

// IssueRefresh creates a refresh token carrying only the subject and type.
func (c *Codec) IssueRefresh(subject string, ttl time.Duration) (string, error) {
	return c.issue(&Claims{
		TokenType: TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	}, ttl)
}

func (c *Codec) issue(claims *Claims, ttl time.Duration) (string, error) {
	now := c.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Decode verifies the token signature and expiry and returns the claims.
// The signature is checked before expiry; a successful decode guarantees
// the token is untampered and not yet expired.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrEmpty
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		return nil, classifyParseError(err)
	}
	if !tok.Valid {
		return nil, ErrSignatureInvalid
	}
	return claims, nil
}

// classifyParseError maps jwt/v5 parse errors onto this package's sentinels.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

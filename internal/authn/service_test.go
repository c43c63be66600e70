// ABOUTME: Tests for the token lifecycle service
// ABOUTME: Covers login, registration, refresh reuse, disabled accounts, and expiry

package authn

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bondhub/platform/internal/password"
	"github.com/bondhub/platform/internal/store"
	"github.com/bondhub/platform/internal/token"
)

var lifecycleSecret = []byte("lifecycle-test-secret-32-bytes!!")

type fixture struct {
	svc      *Service
	codec    *token.Codec
	accounts *store.MemoryStore
	now      time.Time
}

// newFixture builds a service over a memory store with a controllable clock.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{now: time.Now()}
	codec, err := token.NewCodecWithClock(lifecycleSecret, func() time.Time { return f.now })
	require.NoError(t, err)

	f.codec = codec
	f.accounts = store.NewMemoryStore()
	f.svc = NewService(f.accounts, codec, Config{
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}, nil)
	return f
}

func (f *fixture) addAccount(t *testing.T, id, phone, plainPassword string, roles []string, enabled bool) {
	t.Helper()
	hash, err := password.Hash(plainPassword)
	require.NoError(t, err)
	require.NoError(t, f.accounts.CreateAccount(context.Background(), &store.Account{
		ID:           id,
		Email:        id + "@example.com",
		PhoneNumber:  phone,
		PasswordHash: hash,
		Roles:        roles,
		Enabled:      enabled,
	}))
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	f.addAccount(t, "u1", "+84900000001", "Secr3tPW!", []string{"USER", "ADMIN"}, true)

	resp, err := f.svc.Login(context.Background(), "+84900000001", "Secr3tPW!")
	require.NoError(t, err)

	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	access, err := f.codec.Decode(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", access.Subject())
	assert.Equal(t, "u1@example.com", access.Email)
	assert.Equal(t, []string{"USER", "ADMIN"}, access.Roles)
	assert.Equal(t, token.TypeAccess, access.TokenType)

	refresh, err := f.codec.Decode(resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", refresh.Subject())
	assert.Equal(t, token.TypeRefresh, refresh.TokenType)
	assert.Empty(t, refresh.Email)
	assert.Empty(t, refresh.Roles)
}

func TestLogin_NoEnumerationSignal(t *testing.T) {
	f := newFixture(t)
	f.addAccount(t, "u1", "+84900000001", "Secr3tPW!", []string{"USER"}, true)

	_, wrongPassword := f.svc.Login(context.Background(), "+84900000001", "wrong")
	_, unknownKey := f.svc.Login(context.Background(), "+84999999999", "whatever")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownKey, ErrInvalidCredentials)
	// Identical classification for both failure modes.
	assert.Equal(t, wrongPassword, unknownKey)
}

func TestLogin_DisabledAccount(t *testing.T) {
	f := newFixture(t)
	f.addAccount(t, "u1", "+84900000001", "Secr3tPW!", []string{"USER"}, false)

	_, err := f.svc.Login(context.Background(), "+84900000001", "Secr3tPW!")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestRegister_DefaultRoleAndTokens(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Register(context.Background(), "new@example.com", "Secr3tPW!", "+84900000002")
	require.NoError(t, err)

	access, err := f.codec.Decode(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{"USER"}, access.Roles)

	acct, err := f.accounts.GetAccountByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.True(t, acct.Enabled)
	assert.True(t, password.Verify("Secr3tPW!", acct.PasswordHash))

	// Registering again with the same email surfaces the store error.
	_, err = f.svc.Register(context.Background(), "new@example.com", "Other1!", "")
	assert.ErrorIs(t, err, store.ErrEmailInUse)
}

func TestRefresh_ReusesRefreshToken(t *testing.T) {
	f := newFixture(t)
	f.addAccount(t, "u1", "+84900000001", "Secr3tPW!", []string{"USER"}, true)

	login, err := f.svc.Login(context.Background(), "+84900000001", "Secr3tPW!")
	require.NoError(t, err)
	firstAccess, err := f.codec.Decode(login.AccessToken)
	require.NoError(t, err)

	// Later, exchange the refresh token.
	f.now = f.now.Add(10 * time.Minute)
	refreshed, err := f.svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)

	assert.Equal(t, login.RefreshToken, refreshed.RefreshToken, "refresh token must be returned byte-identical")

	newAccess, err := f.codec.Decode(refreshed.AccessToken)
	require.NoError(t, err)
	assert.True(t, newAccess.ExpiresAt.After(firstAccess.ExpiresAt.Time),
		"new access token must expire later than the one it replaces")
}

func TestRefresh_Rejections(t *testing.T) {
	f := newFixture(t)
	f.addAccount(t, "u1", "+84900000001", "Secr3tPW!", []string{"USER"}, true)

	login, err := f.svc.Login(context.Background(), "+84900000001", "Secr3tPW!")
	require.NoError(t, err)

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := f.svc.Refresh(context.Background(), login.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := f.svc.Refresh(context.Background(), "garbage")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("unknown subject", func(t *testing.T) {
		orphan, err := f.codec.IssueRefresh("ghost", time.Hour)
		require.NoError(t, err)
		_, err = f.svc.Refresh(context.Background(), orphan)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("disabled account", func(t *testing.T) {
		acct, err := f.accounts.GetAccount(context.Background(), "u1")
		require.NoError(t, err)
		acct.Enabled = false
		require.NoError(t, f.accounts.UpdateAccount(context.Background(), acct))

		_, err = f.svc.Refresh(context.Background(), login.RefreshToken)
		assert.ErrorIs(t, err, ErrAccountDisabled)
	})
}

func TestValidate_LifecycleScenario(t *testing.T) {
	f := newFixture(t)
	f.svc.cfg.AccessTokenTTL = 3600 * time.Second
	f.addAccount(t, "u1", "+84900000001", "Secr3tPW!", []string{"USER"}, true)

	resp, err := f.svc.Login(context.Background(), "+84900000001", "Secr3tPW!")
	require.NoError(t, err)

	assert.True(t, f.svc.Validate(resp.AccessToken))

	claims, err := f.codec.Decode(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject())

	// Advance past the 3600s TTL.
	f.now = f.now.Add(3601 * time.Second)
	assert.False(t, f.svc.Validate(resp.AccessToken))
}

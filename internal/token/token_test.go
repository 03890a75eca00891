package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(accessTTL, refreshTTL time.Duration) *Service {
	return NewService("access-secret", "refresh-secret", accessTTL, refreshTTL)
}

func TestIssuePairRoundTrip(t *testing.T) {
	svc := newTestService(15*time.Minute, 7*24*time.Hour)

	pair, err := svc.IssuePair("user-1", "alice@example.com", "Employee")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := svc.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", access.Subject)
	assert.Equal(t, "alice@example.com", access.Email)
	assert.Equal(t, "Employee", access.Role)

	refresh, err := svc.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", refresh.Subject)
}

func TestVerifyAccessRejectsExpired(t *testing.T) {
	svc := newTestService(-time.Minute, 7*24*time.Hour)

	pair, err := svc.IssuePair("user-1", "alice@example.com", "Employee")
	require.NoError(t, err)

	_, err = svc.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	svc := newTestService(15*time.Minute, time.Hour)
	other := NewService("different-access", "different-refresh", 15*time.Minute, time.Hour)

	pair, err := svc.IssuePair("user-1", "alice@example.com", "Employee")
	require.NoError(t, err)

	_, err = other.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = other.VerifyRefresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// A refresh token must never be accepted where an access token is expected,
// and vice versa: the two classes are signed with different secrets.
func TestTokenClassesAreNotInterchangeable(t *testing.T) {
	svc := newTestService(15*time.Minute, time.Hour)

	pair, err := svc.IssuePair("user-1", "alice@example.com", "Employee")
	require.NoError(t, err)

	_, err = svc.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessRejectsGarbage(t *testing.T) {
	svc := newTestService(15*time.Minute, time.Hour)

	for _, tokenString := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.VerifyAccess(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

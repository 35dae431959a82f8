package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/match-ticket-reservation/internal/model"
)

const secret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(secret, 42, model.RoleManager, 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), tok.Exp, 5*time.Second)

	id, err := ParseAccessToken(secret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, model.Principal{AccountID: 42, Role: model.RoleManager}, id)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	good, err := NewAccessToken(secret, 42, model.RoleAdmin, 15)
	require.NoError(t, err)

	_, err = ParseAccessToken("other-secret", good.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewAccessToken(secret, 42, model.RoleAdmin, -1)
	require.NoError(t, err)
	_, err = ParseAccessToken(secret, expired.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unknownRole := sign(t, jwt.MapClaims{"sub": "42", "role": "ROOT", "exp": time.Now().Add(time.Hour).Unix()})
	_, err = ParseAccessToken(secret, unknownRole)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSub := sign(t, jwt.MapClaims{"role": "ADMIN", "exp": time.Now().Add(time.Hour).Unix()})
	_, err = ParseAccessToken(secret, noSub)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAccessToken(secret, "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessToken_NumericSubject(t *testing.T) {
	raw := sign(t, jwt.MapClaims{"sub": 7, "role": "SPECTATOR", "exp": time.Now().Add(time.Hour).Unix()})
	id, err := ParseAccessToken(secret, raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id.AccountID)
	assert.Equal(t, model.RoleSpectator, id.Role)
}

func TestRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.Equal(t, HashRefreshRaw(a.Raw), HashRefreshRaw(a.Raw))
	assert.NotEqual(t, HashRefreshRaw(a.Raw), HashRefreshRaw(b.Raw))
	assert.Len(t, HashRefreshRaw(a.Raw), 64)
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(h, "s3cret!"))
	assert.False(t, VerifyPassword(h, "wrong"))
}

func TestPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73), bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	h, err := HashPassword(strings.Repeat("a", 72), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(h, strings.Repeat("a", 72)))
}

func TestPassword_CostOutOfRange(t *testing.T) {
	h, err := HashPassword("s3cret!", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

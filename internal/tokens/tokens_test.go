package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

func TestSignAccessToken_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	raw, err := SignAccessToken(42, "uid-42", "customer", testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := ParseAccessToken(raw, testSecret)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.AccountID)
	assert.Equal(t, "uid-42", claims.UID)
	assert.Equal(t, "customer", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(AccessTokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	raw, err := SignAccessToken(1, "uid-1", "admin", testSecret)
	require.NoError(t, err)

	_, err = ParseAccessToken(raw, []byte("other-secret"))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseAccessToken_Expired(t *testing.T) {
	t.Parallel()

	claims := AccessClaims{
		AccountID: 1,
		UID:       "uid-1",
		Role:      "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = ParseAccessToken(raw, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestNewOpaqueSecret(t *testing.T) {
	t.Parallel()

	a, err := NewOpaqueSecret()
	require.NoError(t, err)
	b, err := NewOpaqueSecret()
	require.NoError(t, err)

	assert.Len(t, a, 128)
	assert.NotEqual(t, a, b)
}

func TestSha256Hex_Deterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Sha256Hex("abc"), Sha256Hex("abc"))
	assert.NotEqual(t, Sha256Hex("abc"), Sha256Hex("abd"))
	assert.Len(t, Sha256Hex("abc"), 64)
}

package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	passwords := []string{"secret1", "p@ssw0rd!", "a much longer passphrase 123456"}

	for _, p := range passwords {
		h, err := HashPassword(p)
		require.NoError(t, err)
		require.NotEmpty(t, h)
		assert.NotEqual(t, p, h)
		assert.True(t, CheckPassword(h, p))
	}
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	h, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.False(t, CheckPassword(h, "secret2"))
	assert.False(t, CheckPassword(h, ""))
	assert.False(t, CheckPassword("not-a-hash", "secret1"))
}

package credential

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placefinder/placefinder/internal/apperr"
)

func TestGenerateSaltShapeAndUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		salt, err := GenerateSalt()
		require.NoError(t, err)
		require.Len(t, salt, 32)
		_, dup := seen[salt]
		require.False(t, dup, "salt repeated after %d draws", i)
		seen[salt] = struct{}{}
	}
}

func TestHashPasswordDeterministic(t *testing.T) {
	first, err := HashPassword("Secret123", "00112233445566778899aabbccddeeff")
	require.NoError(t, err)
	second, err := HashPassword("Secret123", "00112233445566778899aabbccddeeff")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.NotContains(t, first, "Secret123")
}

func TestHashPasswordDependsOnSalt(t *testing.T) {
	a, err := HashPassword("Secret123", "aa")
	require.NoError(t, err)
	b, err := HashPassword("Secret123", "bb")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPasswordRejectsBadInput(t *testing.T) {
	_, err := HashPassword("", "aa")
	assert.True(t, apperr.Is(err, apperr.CodeValidationRejected))

	_, err = HashPassword(string([]byte{0xff, 0xfe}), "aa")
	assert.True(t, apperr.Is(err, apperr.CodeValidationRejected))
}

func TestMatches(t *testing.T) {
	hash, err := HashPassword("Secret123", "salt")
	require.NoError(t, err)

	assert.True(t, Matches("Secret123", "salt", hash))
	assert.False(t, Matches("secret123", "salt", hash))
	assert.False(t, Matches("Secret123", "other", hash))
	assert.False(t, Matches("", "salt", hash))
}

func TestHasherDeriveAndVerify(t *testing.T) {
	h := NewHasher(2)
	ctx := context.Background()

	salt, hash, err := h.Derive(ctx, "Secret123")
	require.NoError(t, err)
	assert.Len(t, salt, 32)

	ok, err := h.Verify(ctx, "Secret123", salt, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(ctx, "wrong", salt, hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasherHonoursCancellation(t *testing.T) {
	h := NewHasher(1)
	require.True(t, h.sem.TryAcquire(1))
	defer h.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, _, err := h.Derive(ctx, "Secret123")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInternalFailure))
}

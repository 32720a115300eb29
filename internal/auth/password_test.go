package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIterations = 1000

func TestHasher_VerifyRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := NewHasher(testIterations, 2)

	salt, err := h.NewSalt()
	require.NoError(t, err)
	require.Len(t, salt, SaltLength)

	hash, err := h.Derive(ctx, "correct horse", salt)
	require.NoError(t, err)
	require.Len(t, hash, KeyLength)

	again, err := h.Derive(ctx, "correct horse", salt)
	require.NoError(t, err)
	assert.Equal(t, hash, again, "derivation must be deterministic")

	ok, err := h.Verify(ctx, "correct horse", salt, hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasher_RejectsEverySingleBitMutation(t *testing.T) {
	ctx := context.Background()
	h := NewHasher(testIterations, 4)
	password := "s3cret!"

	salt, err := h.NewSalt()
	require.NoError(t, err)
	hash, err := h.Derive(ctx, password, salt)
	require.NoError(t, err)

	raw := []byte(password)
	for i := range raw {
		for bit := 0; bit < 8; bit++ {
			mutated := append([]byte(nil), raw...)
			mutated[i] ^= 1 << bit
			ok, err := h.Verify(ctx, string(mutated), salt, hash)
			require.NoError(t, err)
			assert.Falsef(t, ok, "byte %d bit %d accepted", i, bit)
		}
	}
}

func TestHasher_DifferentSaltDifferentHash(t *testing.T) {
	ctx := context.Background()
	h := NewHasher(testIterations, 1)

	a, err := h.Derive(ctx, "pw", []byte("salt-a"))
	require.NoError(t, err)
	b, err := h.Derive(ctx, "pw", []byte("salt-b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	ok, err := h.Verify(ctx, "pw", []byte("salt-b"), a)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_MismatchPositionDoesNotChangeOutcome(t *testing.T) {
	ctx := context.Background()
	h := NewHasher(testIterations, 1)
	salt := []byte("fixed-salt")

	stored, err := h.Derive(ctx, "pw", salt)
	require.NoError(t, err)

	first := append([]byte(nil), stored...)
	first[0] ^= 0xff
	last := append([]byte(nil), stored...)
	last[len(last)-1] ^= 0xff
	short := stored[:len(stored)-1]

	for _, candidate := range [][]byte{first, last, short} {
		ok, err := h.Verify(ctx, "pw", salt, candidate)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestHasher_WaitsForSlotAndHonoursCancel(t *testing.T) {
	h := NewHasher(testIterations, 1)
	h.sem <- struct{}{} // occupy the only slot

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Derive(ctx, "pw", []byte("salt"))
	assert.ErrorIs(t, err, context.Canceled)

	<-h.sem
	_, err = h.Derive(context.Background(), "pw", []byte("salt"))
	assert.NoError(t, err)
}

func TestNewHasher_Defaults(t *testing.T) {
	h := NewHasher(0, 0)
	assert.Equal(t, DefaultIterations, h.iterations)
	assert.Positive(t, cap(h.sem))
}

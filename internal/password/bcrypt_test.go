package password

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewHasher_ClampsCost(t *testing.T) {
	require.Equal(t, bcrypt.DefaultCost, NewHasher(0).Cost)
	require.Equal(t, bcrypt.MinCost, NewHasher(2).Cost)
	require.Equal(t, bcrypt.MaxCost, NewHasher(99).Cost)
	require.Equal(t, 10, NewHasher(10).Cost)
}

func TestHashAndCompare(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("p1")
	require.NoError(t, err)
	require.NotEqual(t, "p1", hash)

	require.NoError(t, h.Compare(hash, "p1"))
	require.ErrorIs(t, h.Compare(hash, "wrong"), ErrMismatch)

	other, err := h.Hash("p1")
	require.NoError(t, err)
	require.NotEqual(t, hash, other, "hashes must be salted")
}

func TestCompare_CorruptHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	err := h.Compare("not-a-bcrypt-hash", "p1")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrMismatch)
}

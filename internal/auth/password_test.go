package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/GoArmGo/VidShare/internal/domain"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "secret1", hash)

	assert.NoError(t, hasher.Verify(hash, "secret1"))
}

func TestBcryptHasher_VerifyWrongPassword(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)

	err = hasher.Verify(hash, "secret2")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestBcryptHasher_SaltedDigests(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("secret1")
	require.NoError(t, err)
	second, err := hasher.Hash("secret1")
	require.NoError(t, err)

	// соль встроена в дайджест, повторный хэш не совпадает
	assert.NotEqual(t, first, second)
	assert.NoError(t, hasher.Verify(first, "secret1"))
	assert.NoError(t, hasher.Verify(second, "secret1"))
}

func TestNewBcryptHasher_CostOutOfRange(t *testing.T) {
	hasher := NewBcryptHasher(100)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)

	hasher = NewBcryptHasher(-1)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}

func TestBcryptHasher_VerifyMalformedHash(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	err := hasher.Verify("не bcrypt-хэш", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

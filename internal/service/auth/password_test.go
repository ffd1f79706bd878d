package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel() // Enable parallel execution

	// MinCost keeps the test fast without changing behavior.
	hasher := NewBcryptHasher(bcrypt.MinCost)
	password := "correct-horse-battery-staple"

	hashed, err := hasher.Hash(password)
	require.NoError(t, err, "Failed to hash password")
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, password, hashed)

	assert.NoError(t, hasher.Compare(hashed, password))
	assert.Error(t, hasher.Compare(hashed, "wrong-password"))
	assert.Error(t, hasher.Compare("not-a-bcrypt-hash", password))
}

func TestNewBcryptHasherDefaultCost(t *testing.T) {
	t.Parallel() // Enable parallel execution

	hasher := NewBcryptHasher(0)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)

	hasher = NewBcryptHasher(-5)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}

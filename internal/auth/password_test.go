package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/stock-service/internal/auth"
)

func TestHashAndComparePassword(t *testing.T) {
	hashed, err := auth.HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "secret1", hashed)

	assert.NoError(t, auth.ComparePassword(hashed, "secret1"))
	assert.Error(t, auth.ComparePassword(hashed, "secret2"))
}

func TestHashPasswordFallsBackOnBadCost(t *testing.T) {
	hashed, err := auth.HashPassword("secret1", 99)
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword(hashed, "secret1"))
}

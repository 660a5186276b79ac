package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanmay/courtside/internal/pkg/auth"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("Admin123!")
	require.NoError(t, err)
	require.NotEqual(t, "Admin123!", hash)

	assert.True(t, auth.CheckPassword(hash, "Admin123!"))
	assert.False(t, auth.CheckPassword(hash, "admin123!"))
	assert.False(t, auth.CheckPassword(hash, ""))
}

func TestCheckPasswordBadHash(t *testing.T) {
	assert.False(t, auth.CheckPassword("not-a-bcrypt-hash", "Admin123!"))
}

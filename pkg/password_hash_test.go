package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	passwordHash, err := HashPassword("fitassist1")
	require.NoError(t, err)
	assert.NotEmpty(t, passwordHash)
	assert.True(t, CheckPasswordHash("fitassist1", passwordHash))
	assert.False(t, CheckPasswordHash("fitassist2", passwordHash))
	assert.False(t, CheckPasswordHash("fitassist1", "not-a-bcrypt-hash"))
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheck(t *testing.T) {
	h, err := HashPassword("pw123456", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", h)
	assert.True(t, CheckPassword("pw123456", h))
	assert.False(t, CheckPassword("wrong", h))
}

func TestHashSaltsEachCall(t *testing.T) {
	a, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashFallsBackOnBadCost(t *testing.T) {
	h, err := HashPassword("pw", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"arztpraxis/internal/domain"
)

func TestBcryptChecker_Check(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("praxis-geheim"), bcrypt.MinCost)
	require.NoError(t, err)

	c, err := NewBcryptChecker(string(hash))
	require.NoError(t, err)

	require.NoError(t, c.Check("praxis-geheim"))
	assert.ErrorIs(t, c.Check("wrong"), domain.ErrUnauthorized)
	assert.ErrorIs(t, c.Check(""), domain.ErrUnauthorized)
}

func TestNewBcryptChecker_invalid_hash(t *testing.T) {
	_, err := NewBcryptChecker("not-a-bcrypt-hash")
	require.Error(t, err)
}

func TestNewPlainPasswordChecker(t *testing.T) {
	c, err := NewPlainPasswordChecker("praxis-geheim", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, c.Check("praxis-geheim"))
	assert.ErrorIs(t, c.Check("praxis"), domain.ErrUnauthorized)

	_, err = NewPlainPasswordChecker("", bcrypt.MinCost)
	require.Error(t, err)
}

func TestDisabledChecker(t *testing.T) {
	c := NewDisabledChecker()
	assert.ErrorIs(t, c.Check("anything"), domain.ErrUnauthorized)
	assert.ErrorIs(t, c.Check(""), domain.ErrUnauthorized)
}

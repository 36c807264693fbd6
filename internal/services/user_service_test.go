package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivelog/drivelog-be/internal/apperr"
)

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Register("alice", "alice@example.com", "+14155550100", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register("alice", "other@example.com", "+14155550101", "pw")
		assert.True(t, apperr.IsAlreadyTaken(err))
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register("bob", "alice@example.com", "+14155550102", "pw")
		assert.True(t, apperr.IsAlreadyTaken(err))
	})

	t.Run("duplicate phone", func(t *testing.T) {
		_, err := svc.Register("bob", "bob@example.com", "+14155550100", "pw")
		assert.True(t, apperr.IsAlreadyTaken(err))
	})

	t.Run("invalid phone wins over taken phone", func(t *testing.T) {
		// A malformed number must be rejected as invalid even when the
		// same string already sits in the table.
		_, err := svc.Register("carol", "carol@example.com", "12345", "pw")
		assert.True(t, apperr.IsInvalidInput(err))
		assert.False(t, apperr.IsAlreadyTaken(err))
	})
}

func TestAuthenticateUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.Register("alice", "alice@example.com", "+14155550100", "correct horse")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.AuthenticateUser("+14155550100", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.AuthenticateUser("+14155550100", "battery staple")
		assert.True(t, apperr.IsInvalidInput(err))
	})

	t.Run("unknown phone", func(t *testing.T) {
		_, err := svc.AuthenticateUser("+14155550199", "correct horse")
		assert.True(t, apperr.IsInvalidInput(err))
	})
}

func TestUpdateUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	alice, err := svc.Register("alice", "alice@example.com", "+14155550100", "pw")
	require.NoError(t, err)
	_, err = svc.Register("bob", "bob@example.com", "+14155550101", "pw")
	require.NoError(t, err)

	t.Run("change username", func(t *testing.T) {
		name := "alice2"
		user, err := svc.UpdateUser(alice.ID, UserUpdate{Username: &name})
		require.NoError(t, err)
		assert.Equal(t, "alice2", user.Username)
	})

	t.Run("resubmitting current value is a no-op", func(t *testing.T) {
		email := "alice@example.com"
		user, err := svc.UpdateUser(alice.ID, UserUpdate{Email: &email})
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
	})

	t.Run("taken email", func(t *testing.T) {
		email := "bob@example.com"
		_, err := svc.UpdateUser(alice.ID, UserUpdate{Email: &email})
		assert.True(t, apperr.IsAlreadyTaken(err))
	})

	t.Run("taken phone", func(t *testing.T) {
		phone := "+14155550101"
		_, err := svc.UpdateUser(alice.ID, UserUpdate{Phone: &phone})
		assert.True(t, apperr.IsAlreadyTaken(err))
	})

	t.Run("invalid phone", func(t *testing.T) {
		phone := "not a number"
		_, err := svc.UpdateUser(alice.ID, UserUpdate{Phone: &phone})
		assert.True(t, apperr.IsInvalidInput(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		name := "ghost"
		_, err := svc.UpdateUser("missing-id", UserUpdate{Username: &name})
		assert.True(t, apperr.IsNotFound(err))
	})
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivelog/drivelog-be/internal/apperr"
)

func TestAPIKeys(t *testing.T) {
	db := newTestDB(t)
	svc := NewAPIKeyService(db)

	key, err := svc.CreateKey("ci pipeline")
	require.NoError(t, err)
	assert.NotEmpty(t, key.Key)

	t.Run("fresh key verifies", func(t *testing.T) {
		assert.True(t, svc.VerifyKey(key.Key))
	})

	t.Run("unknown key does not", func(t *testing.T) {
		assert.False(t, svc.VerifyKey("nope"))
	})

	t.Run("revoked key stops verifying but stays listed", func(t *testing.T) {
		require.NoError(t, svc.RevokeKey(key.ID))
		assert.False(t, svc.VerifyKey(key.Key))

		keys, err := svc.ListKeys()
		require.NoError(t, err)
		require.Len(t, keys, 1)
		assert.True(t, keys[0].IsRevoked)
	})

	t.Run("revoking an unknown id", func(t *testing.T) {
		err := svc.RevokeKey("missing")
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestEnsureSeedKey(t *testing.T) {
	db := newTestDB(t)
	svc := NewAPIKeyService(db)

	require.NoError(t, svc.EnsureSeedKey("bootstrap-key"))
	assert.True(t, svc.VerifyKey("bootstrap-key"))

	t.Run("seeding is a no-op once keys exist", func(t *testing.T) {
		require.NoError(t, svc.EnsureSeedKey("another-key"))
		assert.False(t, svc.VerifyKey("another-key"))

		keys, err := svc.ListKeys()
		require.NoError(t, err)
		assert.Len(t, keys, 1)
	})
}

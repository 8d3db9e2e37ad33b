package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/solarrank/backend/internal/models"
)

func TestTokenStoreInsertAndFind(t *testing.T) {
	db := setupDB(t)
	store := NewTokenStore(db)
	user := seedUser(t, db, "alice", "alice@example.com")

	require.NoError(t, store.Insert(nil, user.ID, "tok-1", time.Now().Add(time.Hour)))

	row, err := store.FindActiveByToken("tok-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, row.UserID)
	assert.False(t, row.IsRevoked)
	assert.NotEmpty(t, row.ID)

	_, err = store.FindActiveByToken("unknown")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenStoreRevoke(t *testing.T) {
	db := setupDB(t)
	store := NewTokenStore(db)
	user := seedUser(t, db, "alice", "alice@example.com")

	require.NoError(t, store.Insert(nil, user.ID, "tok-1", time.Now().Add(time.Hour)))
	require.NoError(t, store.Revoke("tok-1"))

	_, err := store.FindActiveByToken("tok-1")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	// Revoking a token that was never issued is not an error.
	assert.NoError(t, store.Revoke("unknown"))
}

func TestTokenStoreFiltersExpired(t *testing.T) {
	db := setupDB(t)
	store := NewTokenStore(db)
	user := seedUser(t, db, "alice", "alice@example.com")

	require.NoError(t, store.Insert(nil, user.ID, "stale", time.Now().Add(-time.Minute)))

	_, err := store.FindActiveByToken("stale")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenStoreRevokeAll(t *testing.T) {
	db := setupDB(t)
	store := NewTokenStore(db)
	alice := seedUser(t, db, "alice", "alice@example.com")
	bob := seedUser(t, db, "bob", "bob@example.com")

	require.NoError(t, store.Insert(nil, alice.ID, "a-1", time.Now().Add(time.Hour)))
	require.NoError(t, store.Insert(nil, alice.ID, "a-2", time.Now().Add(time.Hour)))
	require.NoError(t, store.Insert(nil, bob.ID, "b-1", time.Now().Add(time.Hour)))

	require.NoError(t, store.RevokeAll(nil, alice.ID))

	_, err := store.FindActiveByToken("a-1")
	assert.ErrorIs(t, err, ErrTokenNotFound)
	_, err = store.FindActiveByToken("a-2")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = store.FindActiveByToken("b-1")
	assert.NoError(t, err)
}

func TestTokenStorePurgeStale(t *testing.T) {
	db := setupDB(t)
	store := NewTokenStore(db)
	user := seedUser(t, db, "alice", "alice@example.com")

	require.NoError(t, store.Insert(nil, user.ID, "active", time.Now().Add(time.Hour)))
	require.NoError(t, store.Insert(nil, user.ID, "expired", time.Now().Add(-time.Hour)))
	require.NoError(t, store.Insert(nil, user.ID, "revoked", time.Now().Add(time.Hour)))
	require.NoError(t, store.Revoke("revoked"))

	n, err := store.PurgeStale()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var remaining int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)

	_, err = store.FindActiveByToken("active")
	assert.NoError(t, err)
}

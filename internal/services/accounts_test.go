package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/solarrank/backend/internal/models"
	"gorm.io/gorm"
)

func newTestAccounts(t *testing.T, leaderboardTTL time.Duration) (*AccountService, *SessionManager, *gorm.DB) {
	t.Helper()
	db := setupDB(t)
	store := NewTokenStore(db)
	sessions := NewSessionManager(db, store, testSessionConfig())
	accounts := NewAccountService(db, sessions, store, leaderboardTTL)
	return accounts, sessions, db
}

func TestRegisterAndLogin(t *testing.T) {
	accounts, sessions, _ := newTestAccounts(t, time.Minute)

	user, pair, err := accounts.Register("Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, 1, user.Rank)
	assert.Equal(t, 0, user.TotalEnergy)

	claims, err := sessions.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	logged, _, err := accounts.Login("alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
}

func TestLoginDoesNotLeakWhichFieldWasWrong(t *testing.T) {
	accounts, _, _ := newTestAccounts(t, time.Minute)

	_, _, err := accounts.Register("Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, _, badPassword := accounts.Login("alice@example.com", "wrong")
	_, _, badEmail := accounts.Login("nobody@example.com", "s3cret-pass")

	assert.ErrorIs(t, badPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, badEmail, ErrInvalidCredentials)
	assert.Equal(t, badPassword.Error(), badEmail.Error())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	accounts, _, _ := newTestAccounts(t, time.Minute)

	_, _, err := accounts.Register("Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = accounts.Register("Other Alice", "alice@example.com", "different")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterAssignsSequentialRanks(t *testing.T) {
	accounts, _, _ := newTestAccounts(t, time.Minute)

	first, _, err := accounts.Register("Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	second, _, err := accounts.Register("Bob", "bob@example.com", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, 2, second.Rank)
}

func TestLoginRevokesPriorRefreshTokens(t *testing.T) {
	accounts, sessions, _ := newTestAccounts(t, time.Minute)

	_, firstPair, err := accounts.Register("Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, secondPair, err := accounts.Login("alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	// The pre-login refresh token is dead, the new one works.
	_, err = sessions.Refresh(firstPair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = sessions.Refresh(secondPair.RefreshToken)
	assert.NoError(t, err)
}

func TestLeaderboardOrdering(t *testing.T) {
	accounts, _, db := newTestAccounts(t, time.Minute)

	alice := seedUser(t, db, "alice", "alice@example.com")
	bob := seedUser(t, db, "bob", "bob@example.com")
	carol := seedUser(t, db, "carol", "carol@example.com")

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", alice.ID).Update("total_energy", 5).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", bob.ID).Update("total_energy", 9).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", carol.ID).Update("total_energy", -2).Error)

	users, err := accounts.Leaderboard()
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, bob.ID, users[0].ID)
	assert.Equal(t, alice.ID, users[1].ID)
	assert.Equal(t, carol.ID, users[2].ID)
}

func TestLeaderboardCacheWindow(t *testing.T) {
	accounts, _, db := newTestAccounts(t, 100*time.Millisecond)

	alice := seedUser(t, db, "alice", "alice@example.com")

	users, err := accounts.Leaderboard()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 0, users[0].TotalEnergy)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", alice.ID).Update("total_energy", 7).Error)

	// Inside the TTL window the stale value is served.
	users, err = accounts.Leaderboard()
	require.NoError(t, err)
	assert.Equal(t, 0, users[0].TotalEnergy)

	time.Sleep(150 * time.Millisecond)

	users, err = accounts.Leaderboard()
	require.NoError(t, err)
	assert.Equal(t, 7, users[0].TotalEnergy)
}

func TestUpdateProfilePatch(t *testing.T) {
	accounts, _, db := newTestAccounts(t, time.Minute)

	user := seedUser(t, db, "alice", "alice@example.com")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("company", "Acme").Error)

	name := "Alice Cooper"
	updated, err := accounts.UpdateProfile(user.ID, models.UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.Name)
	// Fields absent from the patch are untouched.
	assert.Equal(t, "Acme", updated.Company)

	_, err = accounts.UpdateProfile(99999, models.UpdateProfileRequest{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestProfileLookup(t *testing.T) {
	accounts, _, db := newTestAccounts(t, time.Minute)

	seedUser(t, db, "alice", "alice@example.com")

	user, err := accounts.Profile("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = accounts.Profile("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

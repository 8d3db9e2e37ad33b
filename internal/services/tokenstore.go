package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emilythestrangee/solarrank/backend/internal/models"
)

// TokenStore persists refresh tokens. It carries no business logic
// beyond filtering out revoked and expired rows.
type TokenStore struct {
	db *gorm.DB
}

func NewTokenStore(db *gorm.DB) *TokenStore {
	return &TokenStore{db: db}
}

// Insert stores a freshly issued refresh token. Pass a transaction
// handle to make the write part of a larger unit of work, or nil to
// use the store's own connection.
func (s *TokenStore) Insert(tx *gorm.DB, userID int, token string, expiresAt time.Time) error {
	if tx == nil {
		tx = s.db
	}
	row := models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	return tx.Create(&row).Error
}

// FindActiveByToken returns the stored token only when it is neither
// revoked nor expired. ErrTokenNotFound otherwise.
func (s *TokenStore) FindActiveByToken(token string) (*models.RefreshToken, error) {
	var row models.RefreshToken
	err := s.db.
		Where("token = ? AND is_revoked = false AND expires_at > ?", token, time.Now()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Revoke marks a single token revoked. Revoking an unknown token is
// not an error.
func (s *TokenStore) Revoke(token string) error {
	return s.db.Model(&models.RefreshToken{}).
		Where("token = ?", token).
		Update("is_revoked", true).Error
}

// RevokeAll revokes every refresh token belonging to a user.
func (s *TokenStore) RevokeAll(tx *gorm.DB, userID int) error {
	if tx == nil {
		tx = s.db
	}
	return tx.Model(&models.RefreshToken{}).
		Where("user_id = ?", userID).
		Update("is_revoked", true).Error
}

// PurgeStale deletes rows that are revoked or past expiry and reports
// how many were removed.
func (s *TokenStore) PurgeStale() (int64, error) {
	res := s.db.
		Where("expires_at < ? OR is_revoked = true", time.Now()).
		Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}

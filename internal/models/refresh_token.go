package models

import "time"

// RefreshToken is a persisted refresh credential. Lifecycle: active ->
// revoked (logout or superseded login) or expired (lazy, at lookup),
// then deleted by the periodic purge. Never back to active.
type RefreshToken struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    int       `gorm:"not null;index" json:"user_id"`
	Token     string    `gorm:"unique;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IsRevoked bool      `gorm:"default:false" json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
}

package models

import "time"

// Vote target types.
const (
	TargetPost    = "post"
	TargetComment = "comment"
)

// Vote records a single user's ±1 vote on one target. The unique index
// enforces at most one vote per (voter, target) pair.
type Vote struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	UserID     int    `gorm:"not null;uniqueIndex:idx_votes_user_target" json:"user_id"`
	TargetType string `gorm:"not null;uniqueIndex:idx_votes_user_target" json:"target_type"`
	TargetID   int    `gorm:"not null;uniqueIndex:idx_votes_user_target" json:"target_id"`
	Value      int    `gorm:"not null" json:"value"` // +1 or -1

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type VoteRequest struct {
	VoteType string `json:"voteType" binding:"required,oneof=positive negative"`
}

package models

import "time"

type Comment struct {
	ID     int    `gorm:"primaryKey" json:"id"`
	PostID int    `gorm:"index" json:"post_id"`
	UserID int    `json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user"`
	Body   string `gorm:"not null" json:"body"`

	// Energy is the net sum of vote values on this comment. Unlike post
	// energy it does not feed into the author's total_energy.
	Energy int `gorm:"default:0" json:"energy"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

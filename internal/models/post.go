package models

import (
	"time"

	"github.com/lib/pq"
)

type Post struct {
	ID     int            `gorm:"primaryKey" json:"id"`
	UserID int            `json:"user_id"`
	User   User           `gorm:"foreignKey:UserID" json:"user"`
	Title  string         `gorm:"not null" json:"title"`
	Body   string         `json:"body"`
	Tags   pq.StringArray `gorm:"type:text[]" json:"tags"`

	// Energy is the net sum of vote values on this post. Mutated only
	// by the vote ledger.
	Energy int `gorm:"default:0" json:"energy"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreatePostRequest struct {
	Title string   `json:"title" binding:"required"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
}

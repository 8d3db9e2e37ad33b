package models

import "time"

type User struct {
	ID           int    `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"unique;not null" json:"email"`
	Password     string `gorm:"not null" json:"-"`
	ProfileImage string `json:"profile_image"`
	Company      string `json:"company"`
	Role         string `gorm:"default:user" json:"role"` // "user" or "admin"

	// TotalEnergy is the sum of energy over all of this user's posts.
	// Mutated only by the vote ledger, inside the same transaction as
	// the vote row change.
	TotalEnergy int `gorm:"default:0" json:"total_energy"`
	Rank        int `json:"rank"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type UpdateProfileRequest struct {
	Name         *string `json:"name"`
	ProfileImage *string `json:"profile_image"`
	Company      *string `json:"company"`
}

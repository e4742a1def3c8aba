package models

import "time"

type User struct {
	ID           int    `gorm:"primaryKey" json:"user_id"`
	Username     string `gorm:"unique;not null" json:"username"`
	Email        string `gorm:"unique;not null" json:"email"`
	Password     string `gorm:"not null" json:"-"`
	Token        string `gorm:"index" json:"-"` // current bearer token, replaced on every login
	ProfileImage string `json:"profile_image"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=255,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=255"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=255"`
	Password string `json:"password" binding:"required,min=8,max=255"`
}

// UpdateUserRequest is bound from the multipart form; the profile image
// file rides alongside it and is handled by the storage layer.
type UpdateUserRequest struct {
	Username string `form:"username" binding:"required,min=3,max=255,username"`
}

// UserAuthResponse is what register/login hand back: just enough to
// authenticate follow-up requests.
type UserAuthResponse struct {
	UserID int    `json:"user_id"`
	Token  string `json:"token"`
}

type UserDetailResponse struct {
	Username     string `json:"username"`
	ProfileImage string `json:"profile_image"`
}

package models

import "time"

// Rating is one user's integer rating of a post, at most one per (post, user).
type Rating struct {
	ID     int `gorm:"primaryKey" json:"id"`
	PostID int `gorm:"not null;uniqueIndex:idx_ratings_post_user" json:"post_id"`
	UserID int `gorm:"not null;uniqueIndex:idx_ratings_post_user" json:"user_id"`
	Rating int `gorm:"not null" json:"rating"`

	CreatedAt time.Time `json:"created_at"`
}

type RatePostRequest struct {
	Rating int `json:"rating" binding:"required,gte=1,lte=5"`
}

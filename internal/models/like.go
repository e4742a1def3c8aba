package models

import "time"

// Like records that a user liked a post. The composite unique index is the
// real uniqueness guarantee; the service-level precheck just produces the
// friendly error.
type Like struct {
	ID     int `gorm:"primaryKey" json:"id"`
	PostID int `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"post_id"`
	UserID int `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
}

package models

import "time"

type Comment struct {
	ID      int    `gorm:"primaryKey" json:"comment_id"`
	PostID  int    `gorm:"index;not null" json:"post_id"`
	UserID  int    `gorm:"not null" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	Content string `gorm:"not null" json:"content"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CommentPostRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentAuthor struct {
	Username     string `json:"username"`
	ProfileImage string `json:"profile_image"`
}

type CommentResponse struct {
	CommentID int           `json:"comment_id"`
	User      CommentAuthor `json:"user"`
	Content   string        `json:"content"`
}

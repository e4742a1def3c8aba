package models

import "time"

type Post struct {
	ID       int    `gorm:"primaryKey" json:"post_id"`
	Title    string `gorm:"not null" json:"title"`
	Caption  string `gorm:"not null" json:"caption"`
	ImageURL string `gorm:"not null" json:"image_url"`
	UserID   int    `gorm:"index;not null" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	Tags     []Tag  `gorm:"many2many:post_tags;joinForeignKey:PostID;joinReferences:TagID" json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostTag is the join row between a post and a tag. GORM would manage the
// table through the many2many association alone, but create goes through
// explicit rows so the whole post+tags insert fits in one transaction.
type PostTag struct {
	PostID int `gorm:"primaryKey" json:"post_id"`
	TagID  int `gorm:"primaryKey" json:"tag_id"`
}

type CreatePostRequest struct {
	Title   string `form:"title" binding:"required,min=3,max=255"`
	Caption string `form:"caption" binding:"required,min=3,max=255"`
	Tags    string `form:"tags" binding:"required"` // JSON array of tag ids
}

type PostResponse struct {
	PostID   int    `json:"post_id"`
	Title    string `json:"title"`
	Caption  string `json:"caption"`
	ImageURL string `json:"image_url"`
	UserID   int    `json:"user_id"`
}

// PostAuthor is the embedded author summary on composite post views.
type PostAuthor struct {
	UserID       int    `json:"user_id"`
	Username     string `json:"username"`
	ProfileImage string `json:"profile_image"`
}

// PostDetailResponse is the composite view: post fields, author summary,
// tags, derived aggregates and the current viewer's like/rating flags.
type PostDetailResponse struct {
	PostID             int           `json:"post_id"`
	Title              string        `json:"title"`
	Caption            string        `json:"caption"`
	ImageURL           string        `json:"image_url"`
	User               PostAuthor    `json:"user"`
	Tags               []TagResponse `json:"tags"`
	RatingValue        int           `json:"ratingValue"`
	RatingCount        int           `json:"ratingCount"`
	CommentCount       int           `json:"commentCount"`
	LikeCount          int           `json:"like"`
	IsCurrentUserLiked bool          `json:"is_current_user_liked"`
	IsCurrentUserRated bool          `json:"is_current_user_rated"`
}

type UserPostResponse struct {
	PostID   int    `json:"post_id"`
	ImageURL string `json:"image_url"`
}

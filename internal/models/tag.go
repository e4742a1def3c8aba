package models

// Tag is part of a small fixed vocabulary seeded at startup.
type Tag struct {
	ID   int    `gorm:"primaryKey" json:"tag_id"`
	Name string `gorm:"unique;not null" json:"name"`
}

type TagResponse struct {
	TagID int    `json:"tag_id"`
	Name  string `json:"name"`
}

package handlers

import (
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/config"
	"github.com/foodgram/backend/internal/services"
	"github.com/foodgram/backend/internal/storage"
)

// Handler combines all handler types
type Handler struct {
	Auth *AuthHandler
	User *UserHandler
	Post *PostHandler
	Tag  *TagHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, cfg *config.Config, store *storage.LocalStorage) *Handler {
	userService := services.NewUserService(db, cfg.JWTSecret)
	postService := services.NewPostService(db)
	tagService := services.NewTagService(db)

	return &Handler{
		Auth: NewAuthHandler(userService),
		User: NewUserHandler(userService, store),
		Post: NewPostHandler(postService, store),
		Tag:  NewTagHandler(tagService),
	}
}

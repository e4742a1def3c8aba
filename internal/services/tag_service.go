package services

import (
	"gorm.io/gorm"

	apperrors "github.com/foodgram/backend/internal/errors"
	"github.com/foodgram/backend/internal/models"
)

// TagService lists the seeded tag vocabulary.
type TagService interface {
	FindAll() ([]models.TagResponse, error)
}

type tagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) TagService {
	return &tagService{db: db}
}

func (s *tagService) FindAll() ([]models.TagResponse, error) {
	var tags []models.Tag
	if err := s.db.Order("id ASC").Find(&tags).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to fetch tags", err)
	}

	responses := make([]models.TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, models.TagResponse{TagID: tag.ID, Name: tag.Name})
	}
	return responses, nil
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/errors"
	"github.com/foodgram/backend/internal/services"
)

type TagHandler struct {
	tags services.TagService
}

func NewTagHandler(tags services.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

// GetTags lists the tag vocabulary.
func (h *TagHandler) GetTags(c *gin.Context) {
	resp, err := h.tags.FindAll()
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, resp)
}

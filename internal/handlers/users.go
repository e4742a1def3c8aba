package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/errors"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/services"
	"github.com/foodgram/backend/internal/storage"
)

type UserHandler struct {
	users services.UserService
	store *storage.LocalStorage
}

func NewUserHandler(users services.UserService, store *storage.LocalStorage) *UserHandler {
	return &UserHandler{users: users, store: store}
}

func paramInt(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid "+name, err))
		return 0, false
	}
	return id, true
}

// GetUser returns a user's public detail.
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := paramInt(c, "user_id")
	if !ok {
		return
	}

	resp, err := h.users.FindByID(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, resp)
}

// UpdateUser updates the viewer's own display name and profile image
// (multipart, field "profile_image").
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := paramInt(c, "user_id")
	if !ok {
		return
	}

	viewer, ok := middleware.CurrentUser(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Unauthorized"))
		return
	}
	if viewer.ID != userID {
		errors.HandleError(c, errors.New(errors.ErrForbidden, "You can only update your own profile"))
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid request", err))
		return
	}

	file, err := c.FormFile("profile_image")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Profile image is required", err))
		return
	}

	imagePath, err := h.store.Save(file)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "Failed to store image", err))
		return
	}

	resp, err := h.users.Update(req, imagePath, userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, resp)
}

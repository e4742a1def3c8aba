package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/errors"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/services"
	"github.com/foodgram/backend/internal/storage"
)

type PostHandler struct {
	posts services.PostService
	store *storage.LocalStorage
}

func NewPostHandler(posts services.PostService, store *storage.LocalStorage) *PostHandler {
	return &PostHandler{posts: posts, store: store}
}

// parseTagIDs accepts the multipart "tags" field as a JSON array; clients
// send either numbers or numeric strings.
func parseTagIDs(raw string) ([]int, error) {
	var values []interface{}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(values))
	for _, v := range values {
		switch t := v.(type) {
		case float64:
			ids = append(ids, int(t))
		case string:
			id, err := strconv.Atoi(t)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		default:
			return nil, fmt.Errorf("unsupported tag value %v", v)
		}
	}
	return ids, nil
}

func viewer(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Unauthorized"))
		return nil, false
	}
	return user, true
}

// CreatePost creates a post plus its tag associations from a multipart form.
func (h *PostHandler) CreatePost(c *gin.Context) {
	user, ok := viewer(c)
	if !ok {
		return
	}

	var req models.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Invalid request", err))
		return
	}

	tagIDs, err := parseTagIDs(req.Tags)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Tags must be a JSON array of tag ids", err))
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Image is required", err))
		return
	}

	imagePath, err := h.store.Save(file)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "Failed to store image", err))
		return
	}

	resp, err := h.posts.Create(req, tagIDs, imagePath, user.ID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusCreated, resp)
}

// GetPosts returns the composite view of every post for the current viewer.
func (h *PostHandler) GetPosts(c *gin.Context) {
	user, ok := viewer(c)
	if !ok {
		return
	}

	resp, err := h.posts.FindAll(user.ID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, resp)
}

// GetPost returns the composite view of a single post.
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, ok := paramInt(c, "post_id")
	if !ok {
		return
	}
	user, ok := viewer(c)
	if !ok {
		return
	}

	resp, err := h.posts.FindByID(postID, user.ID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, resp)
}

// GetPostsByTag returns composite views of the posts carrying a tag.
func (h *PostHandler) GetPostsByTag(c *gin.Context) {
	tagID, ok := paramInt(c, "tag_id")
	if !ok {
		return
	}
	user, ok := viewer(c)
	if !ok {
		return
	}

	resp, err := h.posts.FindAllByTagID(tagID, user.ID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, resp)
}

// GetUserPosts returns the {post_id, image_url} list for one user's posts.
func (h *PostHandler) GetUserPosts(c *gin.Context) {
	userID, ok := paramInt(c, "user_id")
	if !ok {
		return
	}

	resp, err := h.posts.FindAllByUserID(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, resp)
}

func (h *PostHandler) Like(c *gin.Context) {
	postID, ok := paramInt(c, "post_id")
	if !ok {
		return
	}
	user, ok := viewer(c)
	if !ok {
		return
	}

	if err := h.posts.Like(postID, user.ID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, nil)
}

func (h *PostHandler) Unlike(c *gin.Context) {
	postID, ok := paramInt(c, "post_id")
	if !ok {
		return
	}
	user, ok := viewer(c)
	if !ok {
		return
	}

	if err := h.posts.Unlike(postID, user.ID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, nil)
}

func (h *PostHandler) Rate(c *gin.Context) {
	postID, ok := paramInt(c, "post_id")
	if !ok {
		return
	}
	user, ok := viewer(c)
	if !ok {
		return
	}

	var req models.RatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Rating must be an integer between 1 and 5", err))
		return
	}

	if err := h.posts.Rate(req, postID, user.ID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, nil)
}

func (h *PostHandler) Unrate(c *gin.Context) {
	postID, ok := paramInt(c, "post_id")
	if !ok {
		return
	}
	user, ok := viewer(c)
	if !ok {
		return
	}

	if err := h.posts.Unrate(postID, user.ID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, nil)
}

// CreateComment adds a comment to a post.
func (h *PostHandler) CreateComment(c *gin.Context) {
	postID, ok := paramInt(c, "post_id")
	if !ok {
		return
	}
	user, ok := viewer(c)
	if !ok {
		return
	}

	var req models.CommentPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Content is required", err))
		return
	}

	if err := h.posts.Comment(req, postID, user.ID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusCreated, nil)
}

// GetComments lists a post's comments in creation order.
func (h *PostHandler) GetComments(c *gin.Context) {
	postID, ok := paramInt(c, "post_id")
	if !ok {
		return
	}

	resp, err := h.posts.FindAllCommentsByPostID(postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, resp)
}

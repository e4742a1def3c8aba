package services

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/foodgram/backend/internal/errors"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/models"
)

// PostService is the read/write surface for posts and everything hanging off
// them: tags, likes, ratings and comments.
type PostService interface {
	Create(req models.CreatePostRequest, tagIDs []int, imagePath string, userID int) (*models.PostResponse, error)
	FindByID(postID, viewerID int) (*models.PostDetailResponse, error)
	FindAll(viewerID int) ([]models.PostDetailResponse, error)
	FindAllByTagID(tagID, viewerID int) ([]models.PostDetailResponse, error)
	FindAllByUserID(userID int) ([]models.UserPostResponse, error)
	Like(postID, userID int) error
	Unlike(postID, userID int) error
	Rate(req models.RatePostRequest, postID, userID int) error
	Unrate(postID, userID int) error
	Comment(req models.CommentPostRequest, postID, userID int) error
	FindAllCommentsByPostID(postID int) ([]models.CommentResponse, error)
}

type postService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) PostService {
	return &postService{db: db}
}

// postStats are the derived per-post numbers. They are never stored; every
// read recomputes them so they always reflect the current rows.
type postStats struct {
	RatingCount  int
	RatingValue  int
	CommentCount int
	LikeCount    int
}

// computeStats takes one aggregate snapshot: three grouped queries, folded
// into a single map keyed by post id. Posts with no activity are absent from
// the map, so reads must treat missing keys as zero.
func (s *postService) computeStats() (map[int]postStats, error) {
	stats := make(map[int]postStats)

	var ratingRows []struct {
		PostID int
		Count  int
		Sum    int
	}
	err := s.db.Model(&models.Rating{}).
		Select("post_id, COUNT(*) AS count, COALESCE(SUM(rating), 0) AS sum").
		Group("post_id").
		Scan(&ratingRows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to fetch posts", err)
	}
	for _, row := range ratingRows {
		st := stats[row.PostID]
		st.RatingCount = row.Count
		st.RatingValue = row.Sum
		stats[row.PostID] = st
	}

	var commentRows []struct {
		PostID int
		Count  int
	}
	err = s.db.Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS count").
		Group("post_id").
		Scan(&commentRows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to fetch posts", err)
	}
	for _, row := range commentRows {
		st := stats[row.PostID]
		st.CommentCount = row.Count
		stats[row.PostID] = st
	}

	var likeRows []struct {
		PostID int
		Count  int
	}
	err = s.db.Model(&models.Like{}).
		Select("post_id, COUNT(*) AS count").
		Group("post_id").
		Scan(&likeRows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to fetch posts", err)
	}
	for _, row := range likeRows {
		st := stats[row.PostID]
		st.LikeCount = row.Count
		stats[row.PostID] = st
	}

	return stats, nil
}

// viewerSets fetches the viewer's liked and rated post ids in two queries,
// instead of one existence check per post per list.
func (s *postService) viewerSets(viewerID int) (liked, rated map[int]bool, err error) {
	var likedIDs []int
	if err := s.db.Model(&models.Like{}).Where("user_id = ?", viewerID).Pluck("post_id", &likedIDs).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to fetch posts", err)
	}

	var ratedIDs []int
	if err := s.db.Model(&models.Rating{}).Where("user_id = ?", viewerID).Pluck("post_id", &ratedIDs).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to fetch posts", err)
	}

	liked = make(map[int]bool, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = true
	}
	rated = make(map[int]bool, len(ratedIDs))
	for _, id := range ratedIDs {
		rated[id] = true
	}
	return liked, rated, nil
}

// composeView assembles the composite record for one post. The post must
// come in with User and Tags already resolved.
func composeView(post models.Post, stats map[int]postStats, liked, rated map[int]bool) models.PostDetailResponse {
	tags := make([]models.TagResponse, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tags = append(tags, models.TagResponse{TagID: tag.ID, Name: tag.Name})
	}

	st := stats[post.ID] // zero value covers posts with no activity

	return models.PostDetailResponse{
		PostID:   post.ID,
		Title:    post.Title,
		Caption:  post.Caption,
		ImageURL: post.ImageURL,
		User: models.PostAuthor{
			UserID:       post.User.ID,
			Username:     post.User.Username,
			ProfileImage: post.User.ProfileImage,
		},
		Tags:               tags,
		RatingValue:        st.RatingValue,
		RatingCount:        st.RatingCount,
		CommentCount:       st.CommentCount,
		LikeCount:          st.LikeCount,
		IsCurrentUserLiked: liked[post.ID],
		IsCurrentUserRated: rated[post.ID],
	}
}

// Create inserts the post and its tag rows in one transaction, so a failed
// tag insert never leaves a post without its tags.
func (s *postService) Create(req models.CreatePostRequest, tagIDs []int, imagePath string, userID int) (*models.PostResponse, error) {
	if len(tagIDs) > 0 {
		var count int64
		if err := s.db.Model(&models.Tag{}).Where("id IN ?", tagIDs).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to create post", err)
		}
		if int(count) != len(tagIDs) {
			return nil, apperrors.New(apperrors.ErrValidation, "Unknown tag")
		}
	}

	post := models.Post{
		Title:    req.Title,
		Caption:  req.Caption,
		ImageURL: imagePath,
		UserID:   userID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		if len(tagIDs) == 0 {
			return nil
		}
		postTags := make([]models.PostTag, 0, len(tagIDs))
		for _, tagID := range tagIDs {
			postTags = append(postTags, models.PostTag{PostID: post.ID, TagID: tagID})
		}
		return tx.Create(&postTags).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to create post", err)
	}

	logger.Log.Info("post created", zap.Int("post_id", post.ID), zap.Int("user_id", userID))
	return &models.PostResponse{
		PostID:   post.ID,
		Title:    post.Title,
		Caption:  post.Caption,
		ImageURL: post.ImageURL,
		UserID:   post.UserID,
	}, nil
}

func (s *postService) FindByID(postID, viewerID int) (*models.PostDetailResponse, error) {
	var post models.Post
	err := s.db.Preload("User").Preload("Tags").First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "Post not found")
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to fetch post", err)
	}

	stats, err := s.computeStats()
	if err != nil {
		return nil, err
	}
	liked, rated, err := s.viewerSets(viewerID)
	if err != nil {
		return nil, err
	}

	view := composeView(post, stats, liked, rated)
	return &view, nil
}

// FindAll returns every post; one aggregate snapshot is reused across the
// whole response so all counts are consistent with each other.
func (s *postService) FindAll(viewerID int) ([]models.PostDetailResponse, error) {
	var posts []models.Post
	err := s.db.Preload("User").Preload("Tags").
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to fetch posts", err)
	}

	return s.composeAll(posts, viewerID)
}

func (s *postService) FindAllByTagID(tagID, viewerID int) ([]models.PostDetailResponse, error) {
	var posts []models.Post
	err := s.db.Preload("User").Preload("Tags").
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Where("post_tags.tag_id = ?", tagID).
		Order("posts.created_at DESC, posts.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to fetch posts", err)
	}

	return s.composeAll(posts, viewerID)
}

func (s *postService) composeAll(posts []models.Post, viewerID int) ([]models.PostDetailResponse, error) {
	stats, err := s.computeStats()
	if err != nil {
		return nil, err
	}
	liked, rated, err := s.viewerSets(viewerID)
	if err != nil {
		return nil, err
	}

	views := make([]models.PostDetailResponse, 0, len(posts))
	for _, post := range posts {
		views = append(views, composeView(post, stats, liked, rated))
	}
	return views, nil
}

func (s *postService) FindAllByUserID(userID int) ([]models.UserPostResponse, error) {
	var posts []models.Post
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to fetch posts", err)
	}

	responses := make([]models.UserPostResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, models.UserPostResponse{
			PostID:   post.ID,
			ImageURL: post.ImageURL,
		})
	}
	return responses, nil
}

func (s *postService) Like(postID, userID int) error {
	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.ErrNotFound, "Post not found")
		}
		return apperrors.Wrap(apperrors.ErrDatabase, "Failed to like post", err)
	}

	var existing models.Like
	err := s.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error
	if err == nil {
		return apperrors.New(apperrors.ErrConflict, "Post already liked")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Wrap(apperrors.ErrDatabase, "Failed to like post", err)
	}

	like := models.Like{PostID: postID, UserID: userID}
	if err := s.db.Create(&like).Error; err != nil {
		// A concurrent like can slip past the precheck; the unique index
		// still answers Conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.New(apperrors.ErrConflict, "Post already liked")
		}
		return apperrors.Wrap(apperrors.ErrDatabase, "Failed to like post", err)
	}
	return nil
}

func (s *postService) Unlike(postID, userID int) error {
	var like models.Like
	err := s.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.ErrNotFound, "Like not found")
		}
		return apperrors.Wrap(apperrors.ErrDatabase, "Failed to unlike post", err)
	}

	if err := s.db.Delete(&like).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "Failed to unlike post", err)
	}
	return nil
}

func (s *postService) Rate(req models.RatePostRequest, postID, userID int) error {
	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.ErrNotFound, "Post not found")
		}
		return apperrors.Wrap(apperrors.ErrDatabase, "Failed to rate post", err)
	}

	var existing models.Rating
	err := s.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error
	if err == nil {
		return apperrors.New(apperrors.ErrConflict, "Post already rated")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Wrap(apperrors.ErrDatabase, "Failed to rate post", err)
	}

	rating := models.Rating{PostID: postID, UserID: userID, Rating: req.Rating}
	if err := s.db.Create(&rating).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.New(apperrors.ErrConflict, "Post already rated")
		}
		return apperrors.Wrap(apperrors.ErrDatabase, "Failed to rate post", err)
	}
	return nil
}

func (s *postService) Unrate(postID, userID int) error {
	var rating models.Rating
	err := s.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.ErrNotFound, "Rating not found")
		}
		return apperrors.Wrap(apperrors.ErrDatabase, "Failed to unrate post", err)
	}

	if err := s.db.Delete(&rating).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "Failed to unrate post", err)
	}
	return nil
}

func (s *postService) Comment(req models.CommentPostRequest, postID, userID int) error {
	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.ErrNotFound, "Post not found")
		}
		return apperrors.Wrap(apperrors.ErrDatabase, "Failed to comment on post", err)
	}

	comment := models.Comment{PostID: postID, UserID: userID, Content: req.Content}
	if err := s.db.Create(&comment).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "Failed to comment on post", err)
	}
	return nil
}

func (s *postService) FindAllCommentsByPostID(postID int) ([]models.CommentResponse, error) {
	var comments []models.Comment
	err := s.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to fetch comments", err)
	}

	responses := make([]models.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, models.CommentResponse{
			CommentID: comment.ID,
			User: models.CommentAuthor{
				Username:     comment.User.Username,
				ProfileImage: comment.User.ProfileImage,
			},
			Content: comment.Content,
		})
	}
	return responses, nil
}

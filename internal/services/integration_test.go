package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	apperrors "github.com/foodgram/backend/internal/errors"
	"github.com/foodgram/backend/internal/models"
)

// TestPostFlowIntegration drives the services end to end against a real
// Postgres. Skipped in short mode or when Docker is not around.
func TestPostFlowIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("foodgram_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Post{},
		&models.PostTag{},
		&models.Like{},
		&models.Rating{},
		&models.Comment{},
	))

	require.NoError(t, db.Create(&[]models.Tag{
		{ID: 1, Name: "Sweet"},
		{ID: 2, Name: "Savoury"},
		{ID: 3, Name: "Dessert"},
	}).Error)

	users := NewUserService(db, "integration-secret")
	posts := NewPostService(db)

	// register, then reject the duplicate username
	reg, err := users.Register(models.RegisterRequest{
		Username: "emily",
		Email:    "emily@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotZero(t, reg.UserID)
	require.NotEmpty(t, reg.Token)

	_, err = users.Register(models.RegisterRequest{
		Username: "emily",
		Email:    "second@example.com",
		Password: "password123",
	})
	assertAppError(t, err, apperrors.ErrConflict, "Username already exists")

	// login rotates the token; the old one stops resolving
	login1, err := users.Login(models.LoginRequest{Username: "emily", Password: "password123"})
	require.NoError(t, err)
	login2, err := users.Login(models.LoginRequest{Username: "emily", Password: "password123"})
	require.NoError(t, err)
	assert.NotEqual(t, login1.Token, login2.Token)

	var stale int64
	require.NoError(t, db.Model(&models.User{}).Where("token = ?", login1.Token).Count(&stale).Error)
	assert.Zero(t, stale, "rotated-out token must no longer resolve to a user")

	// create a post tagged Sweet + Dessert
	created, err := posts.Create(models.CreatePostRequest{
		Title:   "Brownies",
		Caption: "Extra fudgy",
	}, []int{1, 3}, "images/brownies.jpg", reg.UserID)
	require.NoError(t, err)

	_, err = posts.Create(models.CreatePostRequest{
		Title:   "Mystery",
		Caption: "Tagged with nothing that exists",
	}, []int{99}, "images/mystery.jpg", reg.UserID)
	assertAppError(t, err, apperrors.ErrValidation, "Unknown tag")

	// fresh post: tags resolved, every aggregate zero, flags false
	view, err := posts.FindByID(created.PostID, reg.UserID)
	require.NoError(t, err)
	tagIDs := make([]int, 0, len(view.Tags))
	for _, tag := range view.Tags {
		tagIDs = append(tagIDs, tag.TagID)
	}
	assert.ElementsMatch(t, []int{1, 3}, tagIDs)
	assert.Equal(t, "emily", view.User.Username)
	assert.Zero(t, view.RatingValue)
	assert.Zero(t, view.RatingCount)
	assert.Zero(t, view.CommentCount)
	assert.Zero(t, view.LikeCount)
	assert.False(t, view.IsCurrentUserLiked)
	assert.False(t, view.IsCurrentUserRated)

	// like once, conflict on the second attempt, count stays at 1
	require.NoError(t, posts.Like(created.PostID, reg.UserID))
	err = posts.Like(created.PostID, reg.UserID)
	assertAppError(t, err, apperrors.ErrConflict, "Post already liked")

	require.NoError(t, posts.Rate(models.RatePostRequest{Rating: 4}, created.PostID, reg.UserID))
	err = posts.Rate(models.RatePostRequest{Rating: 5}, created.PostID, reg.UserID)
	assertAppError(t, err, apperrors.ErrConflict, "Post already rated")

	require.NoError(t, posts.Comment(models.CommentPostRequest{Content: "nice"}, created.PostID, reg.UserID))

	view, err = posts.FindByID(created.PostID, reg.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.LikeCount)
	assert.Equal(t, 4, view.RatingValue)
	assert.Equal(t, 1, view.RatingCount)
	assert.Equal(t, 1, view.CommentCount)
	assert.True(t, view.IsCurrentUserLiked)
	assert.True(t, view.IsCurrentUserRated)

	comments, err := posts.FindAllCommentsByPostID(created.PostID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "nice", comments[0].Content)
	assert.Equal(t, "emily", comments[0].User.Username)

	// tag filter sees the post; an untouched tag does not
	byTag, err := posts.FindAllByTagID(3, reg.UserID)
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, created.PostID, byTag[0].PostID)

	byTag, err = posts.FindAllByTagID(2, reg.UserID)
	require.NoError(t, err)
	assert.Empty(t, byTag)

	// unlike, then unliking again is NotFound
	require.NoError(t, posts.Unlike(created.PostID, reg.UserID))
	err = posts.Unlike(created.PostID, reg.UserID)
	assertAppError(t, err, apperrors.ErrNotFound, "Like not found")

	view, err = posts.FindByID(created.PostID, reg.UserID)
	require.NoError(t, err)
	assert.Zero(t, view.LikeCount)
	assert.False(t, view.IsCurrentUserLiked)

	// missing post is NotFound
	_, err = posts.FindByID(9999, reg.UserID)
	assertAppError(t, err, apperrors.ErrNotFound, "Post not found")
}

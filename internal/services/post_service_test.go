package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	apperrors "github.com/foodgram/backend/internal/errors"
	"github.com/foodgram/backend/internal/models"
)

// newMockDB hands back a GORM handle backed by sqlmock. Patterns passed to
// ExpectQuery are regexes, so tests match on the table being hit rather than
// the exact SQL GORM generates.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func assertAppError(t *testing.T, err error, code apperrors.ErrorCode, message string) {
	t.Helper()

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected *AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, message, appErr.Message)
}

func TestComputeStats(t *testing.T) {
	db, mock := newMockDB(t)
	svc := &postService{db: db}

	mock.ExpectQuery(`SELECT post_id, COUNT\(\*\) AS count, COALESCE\(SUM\(rating\), 0\) AS sum FROM "ratings"`).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "count", "sum"}).
			AddRow(1, 2, 9))
	mock.ExpectQuery(`SELECT post_id, COUNT\(\*\) AS count FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "count"}).
			AddRow(1, 3).
			AddRow(2, 1))
	mock.ExpectQuery(`SELECT post_id, COUNT\(\*\) AS count FROM "likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "count"}).
			AddRow(2, 5))

	stats, err := svc.computeStats()
	require.NoError(t, err)

	assert.Equal(t, postStats{RatingCount: 2, RatingValue: 9, CommentCount: 3}, stats[1])
	assert.Equal(t, postStats{CommentCount: 1, LikeCount: 5}, stats[2])

	// posts with no activity are simply absent; the zero value covers them
	assert.Equal(t, postStats{}, stats[99])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestViewerSets(t *testing.T) {
	db, mock := newMockDB(t)
	svc := &postService{db: db}

	mock.ExpectQuery(`SELECT "post_id" FROM "likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"post_id"}).AddRow(1).AddRow(3))
	mock.ExpectQuery(`SELECT "post_id" FROM "ratings"`).
		WillReturnRows(sqlmock.NewRows([]string{"post_id"}).AddRow(2))

	liked, rated, err := svc.viewerSets(7)
	require.NoError(t, err)

	assert.True(t, liked[1])
	assert.True(t, liked[3])
	assert.False(t, liked[2])
	assert.True(t, rated[2])
	assert.False(t, rated[1])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeMissingPost(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPostService(db)

	mock.ExpectQuery(`SELECT \* FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "caption", "image_url", "user_id"}))

	err := svc.Like(42, 7)
	assertAppError(t, err, apperrors.ErrNotFound, "Post not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeTwiceConflicts(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPostService(db)

	mock.ExpectQuery(`SELECT \* FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "caption", "image_url", "user_id"}).
			AddRow(1, "Sweet", "This is a sweet post", "images/sweet.jpg", 1))
	mock.ExpectQuery(`SELECT \* FROM "likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id"}).
			AddRow(10, 1, 7))

	err := svc.Like(1, 7)
	assertAppError(t, err, apperrors.ErrConflict, "Post already liked")

	// no insert may have been attempted
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnlikeWithoutLike(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPostService(db)

	mock.ExpectQuery(`SELECT \* FROM "likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id"}))

	err := svc.Unlike(1, 7)
	assertAppError(t, err, apperrors.ErrNotFound, "Like not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnrateWithoutRating(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPostService(db)

	mock.ExpectQuery(`SELECT \* FROM "ratings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "rating"}))

	err := svc.Unrate(1, 7)
	assertAppError(t, err, apperrors.ErrNotFound, "Rating not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentMissingPost(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPostService(db)

	mock.ExpectQuery(`SELECT \* FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "caption", "image_url", "user_id"}))

	err := svc.Comment(models.CommentPostRequest{Content: "nice"}, 42, 7)
	assertAppError(t, err, apperrors.ErrNotFound, "Post not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/foodgram/backend/internal/errors"
	"github.com/foodgram/backend/internal/models"
)

func TestRegisterUsernameTaken(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewUserService(db, "test-secret")

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(1, "emily", "emily@example.com"))

	_, err := svc.Register(models.RegisterRequest{
		Username: "emily",
		Email:    "other@example.com",
		Password: "password123",
	})
	assertAppError(t, err, apperrors.ErrConflict, "Username already exists")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginUnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewUserService(db, "test-secret")

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password", "token"}))

	_, err := svc.Login(models.LoginRequest{Username: "ghost", Password: "password123"})

	// same message as a wrong password so callers can't probe usernames
	assertAppError(t, err, apperrors.ErrNotFound, "Invalid credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewUserService(db, "test-secret")

	hashed, err := bcrypt.GenerateFromPassword([]byte("the-right-password"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password", "token"}).
			AddRow(1, "emily", "emily@example.com", string(hashed), "old-token"))

	_, err = svc.Login(models.LoginRequest{Username: "emily", Password: "not-the-password"})
	assertAppError(t, err, apperrors.ErrInvalidCredentials, "Invalid credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMintTokenRotates(t *testing.T) {
	secret := []byte("test-secret")

	first, err := mintToken(secret, "emily")
	require.NoError(t, err)
	second, err := mintToken(secret, "emily")
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEmpty(t, second)
	assert.NotEqual(t, first, second, "successive tokens for the same user must differ")
}

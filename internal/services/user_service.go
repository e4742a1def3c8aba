package services

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "github.com/foodgram/backend/internal/errors"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/models"
)

// UserService covers registration, login (token rotation) and profile reads
// and updates.
type UserService interface {
	Register(req models.RegisterRequest) (*models.UserAuthResponse, error)
	Login(req models.LoginRequest) (*models.UserAuthResponse, error)
	FindByID(userID int) (*models.UserDetailResponse, error)
	Update(req models.UpdateUserRequest, imagePath string, userID int) (*models.UserDetailResponse, error)
}

type userService struct {
	db        *gorm.DB
	jwtSecret []byte
}

func NewUserService(db *gorm.DB, jwtSecret string) UserService {
	return &userService{db: db, jwtSecret: []byte(jwtSecret)}
}

func (s *userService) Register(req models.RegisterRequest) (*models.UserAuthResponse, error) {
	var existing models.User
	err := s.db.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		logger.Log.Warn("register rejected, username taken", zap.String("username", req.Username))
		return nil, apperrors.New(apperrors.ErrConflict, "Username already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to create user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, "Failed to hash password", err)
	}

	token, err := mintToken(s.jwtSecret, req.Username)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, "Failed to generate token", err)
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Token:    token,
	}

	if err := s.db.Create(&user).Error; err != nil {
		// The precheck only covers username; a duplicate email lands here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(apperrors.ErrConflict, "Username already exists")
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to create user", err)
	}

	logger.Log.Info("user registered", zap.Int("user_id", user.ID))
	return &models.UserAuthResponse{UserID: user.ID, Token: user.Token}, nil
}

// Login verifies the credentials and rotates the stored token, which is what
// invalidates any previous session. Unknown user and wrong password answer
// with the same message so the caller can't tell which check failed.
func (s *userService) Login(req models.LoginRequest) (*models.UserAuthResponse, error) {
	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "Invalid credentials")
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to log in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.New(apperrors.ErrInvalidCredentials, "Invalid credentials")
	}

	token, err := mintToken(s.jwtSecret, user.Username)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, "Failed to generate token", err)
	}

	if err := s.db.Model(&user).Update("token", token).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to log in", err)
	}

	logger.Log.Info("user logged in", zap.Int("user_id", user.ID))
	return &models.UserAuthResponse{UserID: user.ID, Token: token}, nil
}

func (s *userService) FindByID(userID int) (*models.UserDetailResponse, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "User not found")
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to fetch user", err)
	}

	return &models.UserDetailResponse{
		Username:     user.Username,
		ProfileImage: user.ProfileImage,
	}, nil
}

func (s *userService) Update(req models.UpdateUserRequest, imagePath string, userID int) (*models.UserDetailResponse, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "User not found")
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to fetch user", err)
	}

	user.Username = req.Username
	user.ProfileImage = imagePath

	if err := s.db.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(apperrors.ErrConflict, "Username already exists")
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "Failed to update user", err)
	}

	return &models.UserDetailResponse{
		Username:     user.Username,
		ProfileImage: user.ProfileImage,
	}, nil
}

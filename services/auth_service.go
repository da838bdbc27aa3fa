package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Rufidatul726/jotter-backend/config"
	"github.com/Rufidatul726/jotter-backend/logger"
	"github.com/Rufidatul726/jotter-backend/models"
	"github.com/Rufidatul726/jotter-backend/repositories"
	"github.com/Rufidatul726/jotter-backend/utils"

	"gorm.io/gorm"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LoginOutput struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

type ProfileOutput struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	StorageQuota int64     `json:"storage_quota"`
	StorageUsed  int64     `json:"storage_used"`
	CreatedAt    time.Time `json:"created_at"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (AuthUser, error)
	Login(ctx context.Context, in LoginInput) (LoginOutput, error)
	GetProfile(ctx context.Context, userID uint) (ProfileOutput, error)
	ChangeName(ctx context.Context, userID uint, name string) error
	ChangePassword(ctx context.Context, userID uint, currentPassword string, newPassword string) error
	DeleteAccount(ctx context.Context, userID uint) error
}

type authService struct {
	txManager  TxManager
	users      repositories.UserRepository
	nodes      repositories.FileNodeRepository
	usageCache repositories.UsageCacheRepository
}

func NewAuthService(
	txManager TxManager,
	users repositories.UserRepository,
	nodes repositories.FileNodeRepository,
	usageCache repositories.UsageCacheRepository,
) AuthService {
	return &authService{txManager: txManager, users: users, nodes: nodes, usageCache: usageCache}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (AuthUser, error) {
	count, err := s.users.CountByEmail(ctx, in.Email)
	if err != nil {
		return AuthUser{}, newAppError(http.StatusInternalServerError, "failed to check email", err)
	}
	if count > 0 {
		return AuthUser{}, newValidationError("email already exists")
	}

	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		return AuthUser{}, newAppError(http.StatusInternalServerError, "failed to hash password", err)
	}

	user := models.User{
		Name:         in.Name,
		Email:        in.Email,
		Password:     hashedPassword,
		StorageQuota: config.AppConfig.Storage.DefaultUserQuota,
	}
	if err := s.users.Create(ctx, nil, &user); err != nil {
		return AuthUser{}, newAppError(http.StatusInternalServerError, "failed to create user", err)
	}

	return AuthUser{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	user, err := s.users.GetByEmail(ctx, nil, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginOutput{}, newAuthError("invalid email or password")
		}
		return LoginOutput{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	if !utils.CheckPassword(in.Password, user.Password) {
		return LoginOutput{}, newAuthError("invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return LoginOutput{}, newAppError(http.StatusInternalServerError, "failed to generate token", err)
	}

	return LoginOutput{
		Token: token,
		User:  AuthUser{ID: user.ID, Name: user.Name, Email: user.Email},
	}, nil
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (ProfileOutput, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileOutput{}, newNotFoundError("user not found")
		}
		return ProfileOutput{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	return ProfileOutput{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		StorageQuota: user.StorageQuota,
		StorageUsed:  user.StorageUsed,
		CreatedAt:    user.CreatedAt,
	}, nil
}

func (s *authService) ChangeName(ctx context.Context, userID uint, name string) error {
	if name == "" {
		return newValidationError("name is required")
	}
	if _, err := s.users.GetByID(ctx, nil, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFoundError("user not found")
		}
		return newAppError(http.StatusInternalServerError, "failed to query user", err)
	}
	if err := s.users.UpdateByID(ctx, nil, userID, map[string]interface{}{"name": name}); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to update name", err)
	}
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, currentPassword string, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return newValidationError("both passwords are required")
	}

	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFoundError("user not found")
		}
		return newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	if !utils.CheckPassword(currentPassword, user.Password) {
		return newValidationError("incorrect current password")
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to hash password", err)
	}
	if err := s.users.UpdateByID(ctx, nil, userID, map[string]interface{}{"password": hashedPassword}); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to update password", err)
	}
	return nil
}

// DeleteAccount removes the user together with every node they own, so no
// orphaned metadata is left behind.
func (s *authService) DeleteAccount(ctx context.Context, userID uint) error {
	if _, err := s.users.GetByID(ctx, nil, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFoundError("user not found")
		}
		return newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	err := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.nodes.DeleteByOwner(ctx, tx, userID); err != nil {
			return err
		}
		return s.users.DeleteByID(ctx, tx, userID)
	})
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to delete account", err)
	}

	if err := s.usageCache.Invalidate(ctx, userID); err != nil {
		logger.Errorf("invalidate usage cache for user %d: %v", userID, err)
	}
	return nil
}

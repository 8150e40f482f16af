package services

import (
	"context"
	"errors"
	"strings"

	"salonsuite/configs/configslog"
	"salonsuite/models"
	"salonsuite/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthServiceError string

func (e AuthServiceError) Error() string { return string(e) }

const (
	ErrInvalidCredentials AuthServiceError = "invalid e-mail or password"
	ErrUserInactive       AuthServiceError = "this account is inactive"
	ErrUserNotFound       AuthServiceError = "user not found"
	ErrEmailTaken         AuthServiceError = "a user with this e-mail already exists"
	ErrUserInvalidInput   AuthServiceError = "invalid user input"
	ErrAuthFailed         AuthServiceError = "authentication failed"
)

type IAuthService interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	CurrentUser(ctx context.Context, id uint) (*models.User, error)
}

type AuthService struct {
	repo repositories.IUserRepository
}

func NewAuthService(db *gorm.DB) IAuthService {
	return &AuthService{repo: repositories.NewUserRepository(db)}
}

// Authenticate e-posta ve parolayı doğrular. Bilinmeyen e-posta ile yanlış parola aynı hatayı döner.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, ErrAuthFailed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		configslog.Log.Info("Hatalı giriş denemesi", zap.String("email", user.Email))
		return nil, ErrInvalidCredentials
	}
	if !user.Status {
		return nil, ErrUserInactive
	}
	return user, nil
}

// CurrentUser oturumdaki kullanıcıyı yükler; pasif hesaplar ErrUserInactive döner.
func (s *AuthService) CurrentUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, ErrAuthFailed
	}
	if !user.Status {
		return user, ErrUserInactive
	}
	return user, nil
}

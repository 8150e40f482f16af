package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salonsuite/configs/configslog"
	"salonsuite/models"
	"salonsuite/pkg/queryparams"
	"salonsuite/pkg/validation"
	"salonsuite/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserInput struct {
	Name     string `json:"name" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email,max=150"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
	IsAdmin  bool   `json:"isAdmin"`
	Status   *bool  `json:"status"`
}

type IUserService interface {
	List(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	Get(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, actorID uint, input UserInput) (*models.User, error)
	Update(ctx context.Context, actorID, id uint, input UserInput) (*models.User, error)
	Deactivate(ctx context.Context, actorID, id uint) error
}

type UserService struct {
	repo repositories.IUserRepository
}

func NewUserService(db *gorm.DB) IUserService {
	return &UserService{repo: repositories.NewUserRepository(db)}
}

func userError(err error, msg string, fields ...zap.Field) error {
	if err == nil {
		return nil
	}
	var svcErr AuthServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	configslog.Log.Error(msg, append(fields, zap.Error(err))...)
	return ErrAuthFailed
}

// HashPassword parolayı bcrypt ile özetler.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *UserService) List(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	users, total, err := s.repo.FindAllPaginated(ctx, params)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return queryparams.NewPaginatedResult(users, total, params), nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, ErrAuthFailed
	}
	return user, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, excludeID uint) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != excludeID {
		return ErrEmailTaken
	}
	return nil
}

func (s *UserService) Create(ctx context.Context, actorID uint, input UserInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validation.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInvalidInput, err)
	}
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrUserInvalidInput)
	}
	if err := s.ensureEmailFree(ctx, input.Email, 0); err != nil {
		return nil, userError(err, "E-posta kontrolü yapılamadı")
	}
	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, userError(err, "Parola özetlenemedi")
	}
	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hash,
		IsAdmin:  input.IsAdmin,
		Status:   true,
	}
	if err := s.repo.Create(models.ContextWithUserID(ctx, actorID), user); err != nil {
		return nil, userError(err, "Kullanıcı oluşturulamadı", zap.String("email", input.Email))
	}
	// Status varsayılanı true olduğundan pasif oluşturma ayrı bir güncelleme ister.
	if input.Status != nil && !*input.Status {
		user.Status = false
		if err := s.repo.Update(models.ContextWithUserID(ctx, actorID), user); err != nil {
			return nil, userError(err, "Kullanıcı durumu yazılamadı", zap.Uint("user_id", user.ID))
		}
	}
	configslog.Log.Info("Kullanıcı oluşturuldu", zap.Uint("user_id", user.ID), zap.Uint("by", actorID))
	return user, nil
}

func (s *UserService) Update(ctx context.Context, actorID, id uint, input UserInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validation.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInvalidInput, err)
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID == id && (!input.IsAdmin || (input.Status != nil && !*input.Status)) {
		return nil, fmt.Errorf("%w: you cannot remove your own admin access", ErrUserInvalidInput)
	}
	if err := s.ensureEmailFree(ctx, input.Email, id); err != nil {
		return nil, userError(err, "E-posta kontrolü yapılamadı")
	}
	user.Name = input.Name
	user.Email = input.Email
	user.IsAdmin = input.IsAdmin
	if input.Status != nil {
		user.Status = *input.Status
	}
	if input.Password != "" {
		if user.Password, err = HashPassword(input.Password); err != nil {
			return nil, userError(err, "Parola özetlenemedi")
		}
	}
	if err := s.repo.Update(models.ContextWithUserID(ctx, actorID), user); err != nil {
		return nil, userError(err, "Kullanıcı güncellenemedi", zap.Uint("user_id", id))
	}
	return user, nil
}

func (s *UserService) Deactivate(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return fmt.Errorf("%w: you cannot deactivate your own account", ErrUserInvalidInput)
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !user.Status {
		return nil
	}
	user.Status = false
	return userError(s.repo.Update(models.ContextWithUserID(ctx, actorID), user), "Kullanıcı pasifleştirilemedi", zap.Uint("user_id", id))
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salonsuite/configs/configslog"
	"salonsuite/models"
	"salonsuite/pkg/validation"
	"salonsuite/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type JobInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	IsActive *bool  `json:"isActive"`
}

type IJobService interface {
	List(ctx context.Context, onlyActive bool) ([]models.Job, error)
	Create(ctx context.Context, actorID uint, input JobInput) (*models.Job, error)
	Update(ctx context.Context, actorID uint, id uint, input JobInput) (*models.Job, error)
	Deactivate(ctx context.Context, actorID uint, id uint) error
}

type JobService struct {
	jobs repositories.IJobRepository
}

func NewJobService(db *gorm.DB) IJobService {
	return &JobService{jobs: repositories.NewJobRepository(db)}
}

func (s *JobService) List(ctx context.Context, onlyActive bool) ([]models.Job, error) {
	jobs, err := s.jobs.FindAll(ctx, onlyActive)
	if err != nil {
		configslog.Log.Error("İşler listelenemedi", zap.Error(err))
		return nil, ErrTimeClockFailed
	}
	return jobs, nil
}

func (s *JobService) nameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	existing, err := s.jobs.FindByName(ctx, name)
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID != excludeID, nil
}

func (s *JobService) Create(ctx context.Context, actorID uint, input JobInput) (*models.Job, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimeClockInvalidInput, err)
	}
	taken, err := s.nameTaken(ctx, input.Name, 0)
	if err != nil {
		return nil, ErrTimeClockFailed
	}
	if taken {
		return nil, ErrJobNameTaken
	}
	job := &models.Job{Name: input.Name, IsActive: true}
	if err := s.jobs.Create(models.ContextWithUserID(ctx, actorID), job); err != nil {
		configslog.Log.Error("İş oluşturulamadı", zap.String("name", input.Name), zap.Error(err))
		return nil, ErrTimeClockFailed
	}
	return job, nil
}

func (s *JobService) Update(ctx context.Context, actorID uint, id uint, input JobInput) (*models.Job, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimeClockInvalidInput, err)
	}
	job, err := s.jobs.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, ErrTimeClockFailed
	}
	taken, err := s.nameTaken(ctx, input.Name, job.ID)
	if err != nil {
		return nil, ErrTimeClockFailed
	}
	if taken {
		return nil, ErrJobNameTaken
	}
	job.Name = input.Name
	if input.IsActive != nil {
		job.IsActive = *input.IsActive
	}
	if err := s.jobs.Update(models.ContextWithUserID(ctx, actorID), job); err != nil {
		configslog.Log.Error("İş güncellenemedi", zap.Uint("job_id", id), zap.Error(err))
		return nil, ErrTimeClockFailed
	}
	return job, nil
}

func (s *JobService) Deactivate(ctx context.Context, actorID uint, id uint) error {
	job, err := s.jobs.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrJobNotFound
	}
	if err != nil {
		return ErrTimeClockFailed
	}
	job.IsActive = false
	if err := s.jobs.Update(models.ContextWithUserID(ctx, actorID), job); err != nil {
		return ErrTimeClockFailed
	}
	return nil
}

var _ IJobService = (*JobService)(nil)

package repositories

import (
	"context"
	"errors"

	"salonsuite/models"

	"gorm.io/gorm"
)

type IJobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id uint) (*models.Job, error)
	FindByName(ctx context.Context, name string) (*models.Job, error)
	FindAll(ctx context.Context, onlyActive bool) ([]models.Job, error)
	Update(ctx context.Context, job *models.Job) error
}

type JobRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.Job]
}

func NewJobRepository(db *gorm.DB) IJobRepository {
	return &JobRepository{db: db, base: NewBaseRepository[models.Job](db)}
}

func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.base.Create(ctx, job)
}

func (r *JobRepository) FindByID(ctx context.Context, id uint) (*models.Job, error) {
	return r.base.FindByID(ctx, id)
}

func (r *JobRepository) FindByName(ctx context.Context, name string) (*models.Job, error) {
	var job models.Job
	if err := dbFromContext(ctx, r.db).Where("name = ?", name).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) FindAll(ctx context.Context, onlyActive bool) ([]models.Job, error) {
	var jobs []models.Job
	q := dbFromContext(ctx, r.db).Order("name asc")
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	return jobs, q.Find(&jobs).Error
}

func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	return r.base.Save(ctx, job)
}

var _ IJobRepository = (*JobRepository)(nil)

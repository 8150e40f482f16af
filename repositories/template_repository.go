package repositories

import (
	"context"

	"salonsuite/models"
	"salonsuite/pkg/queryparams"

	"gorm.io/gorm"
)

type ITemplateRepository interface {
	Create(ctx context.Context, tpl *models.EnvelopeTemplate) error
	FindByID(ctx context.Context, id uint) (*models.EnvelopeTemplate, error)
	FindAllPaginated(ctx context.Context, ownerUserID *uint, params queryparams.ListParams) ([]models.EnvelopeTemplate, int64, error)
	Update(ctx context.Context, tpl *models.EnvelopeTemplate) error
	Delete(ctx context.Context, tpl *models.EnvelopeTemplate) error
}

type TemplateRepository struct {
	base *BaseRepository[models.EnvelopeTemplate]
}

func NewTemplateRepository(db *gorm.DB) ITemplateRepository {
	base := NewBaseRepository[models.EnvelopeTemplate](db)
	base.SetAllowedSortColumns([]string{"id", "created_at", "name"})
	return &TemplateRepository{base: base}
}

func (r *TemplateRepository) Create(ctx context.Context, tpl *models.EnvelopeTemplate) error {
	return r.base.Create(ctx, tpl)
}

func (r *TemplateRepository) FindByID(ctx context.Context, id uint) (*models.EnvelopeTemplate, error) {
	return r.base.FindByID(ctx, id)
}

func (r *TemplateRepository) FindAllPaginated(ctx context.Context, ownerUserID *uint, params queryparams.ListParams) ([]models.EnvelopeTemplate, int64, error) {
	return r.base.FindPaginated(ctx, params, func(q *gorm.DB) *gorm.DB {
		if ownerUserID != nil {
			q = q.Where("owner_user_id = ?", *ownerUserID)
		}
		if params.Name != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+params.Name+"%")
		}
		return q
	})
}

func (r *TemplateRepository) Update(ctx context.Context, tpl *models.EnvelopeTemplate) error {
	return r.base.Save(ctx, tpl)
}

func (r *TemplateRepository) Delete(ctx context.Context, tpl *models.EnvelopeTemplate) error {
	return r.base.Delete(ctx, tpl)
}

var _ ITemplateRepository = (*TemplateRepository)(nil)

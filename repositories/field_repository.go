package repositories

import (
	"context"

	"salonsuite/models"

	"gorm.io/gorm"
)

type IFieldRepository interface {
	Create(ctx context.Context, field *models.Field) error
	FindByID(ctx context.Context, id uint) (*models.Field, error)
	FindByRecipient(ctx context.Context, recipientID uint) ([]models.Field, error)
	CountByRecipient(ctx context.Context, recipientID uint) (int64, error)
	Update(ctx context.Context, field *models.Field) error
	Delete(ctx context.Context, field *models.Field) error
	DeleteByDocument(ctx context.Context, documentID uint) error
	DeleteByRecipient(ctx context.Context, recipientID uint) error
}

type FieldRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.Field]
}

func NewFieldRepository(db *gorm.DB) IFieldRepository {
	return &FieldRepository{db: db, base: NewBaseRepository[models.Field](db)}
}

func (r *FieldRepository) Create(ctx context.Context, field *models.Field) error {
	return r.base.Create(ctx, field)
}

func (r *FieldRepository) FindByID(ctx context.Context, id uint) (*models.Field, error) {
	return r.base.FindByID(ctx, id)
}

func (r *FieldRepository) FindByRecipient(ctx context.Context, recipientID uint) ([]models.Field, error) {
	var fields []models.Field
	err := dbFromContext(ctx, r.db).Where("recipient_id = ?", recipientID).Order("document_id asc, page asc, id asc").Find(&fields).Error
	return fields, err
}

func (r *FieldRepository) CountByRecipient(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&models.Field{}).Where("recipient_id = ?", recipientID).Count(&count).Error
	return count, err
}

func (r *FieldRepository) Update(ctx context.Context, field *models.Field) error {
	return r.base.Save(ctx, field)
}

func (r *FieldRepository) Delete(ctx context.Context, field *models.Field) error {
	return r.base.Delete(ctx, field)
}

func (r *FieldRepository) DeleteByDocument(ctx context.Context, documentID uint) error {
	return dbFromContext(ctx, r.db).Where("document_id = ?", documentID).Delete(&models.Field{}).Error
}

func (r *FieldRepository) DeleteByRecipient(ctx context.Context, recipientID uint) error {
	return dbFromContext(ctx, r.db).Where("recipient_id = ?", recipientID).Delete(&models.Field{}).Error
}

var _ IFieldRepository = (*FieldRepository)(nil)

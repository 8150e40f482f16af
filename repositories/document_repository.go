package repositories

import (
	"context"
	"database/sql"

	"salonsuite/models"

	"gorm.io/gorm"
)

type IDocumentRepository interface {
	Create(ctx context.Context, doc *models.EnvelopeDocument) error
	FindByID(ctx context.Context, id uint) (*models.EnvelopeDocument, error)
	FindByEnvelope(ctx context.Context, envelopeID uint) ([]models.EnvelopeDocument, error)
	NextSortOrder(ctx context.Context, envelopeID uint) (int, error)
	UpdateSortOrder(ctx context.Context, id uint, order int) error
	Delete(ctx context.Context, doc *models.EnvelopeDocument) error
}

type DocumentRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.EnvelopeDocument]
}

func NewDocumentRepository(db *gorm.DB) IDocumentRepository {
	return &DocumentRepository{db: db, base: NewBaseRepository[models.EnvelopeDocument](db)}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *models.EnvelopeDocument) error {
	return r.base.Create(ctx, doc)
}

func (r *DocumentRepository) FindByID(ctx context.Context, id uint) (*models.EnvelopeDocument, error) {
	return r.base.FindByID(ctx, id)
}

func (r *DocumentRepository) FindByEnvelope(ctx context.Context, envelopeID uint) ([]models.EnvelopeDocument, error) {
	var docs []models.EnvelopeDocument
	err := dbFromContext(ctx, r.db).Where("envelope_id = ?", envelopeID).Order("sort_order asc, id asc").Find(&docs).Error
	return docs, err
}

// NextSortOrder zarftaki en büyük sıranın bir fazlası; belge yoksa 0.
func (r *DocumentRepository) NextSortOrder(ctx context.Context, envelopeID uint) (int, error) {
	var max sql.NullInt64
	row := dbFromContext(ctx, r.db).Model(&models.EnvelopeDocument{}).
		Where("envelope_id = ?", envelopeID).
		Select("MAX(sort_order)").Row()
	if err := row.Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

func (r *DocumentRepository) UpdateSortOrder(ctx context.Context, id uint, order int) error {
	return dbFromContext(ctx, r.db).Model(&models.EnvelopeDocument{}).Where("id = ?", id).Update("sort_order", order).Error
}

func (r *DocumentRepository) Delete(ctx context.Context, doc *models.EnvelopeDocument) error {
	return r.base.Delete(ctx, doc)
}

var _ IDocumentRepository = (*DocumentRepository)(nil)

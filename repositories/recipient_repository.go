package repositories

import (
	"context"
	"errors"

	"salonsuite/configs/configslog"
	"salonsuite/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type IRecipientRepository interface {
	Create(ctx context.Context, recipient *models.Recipient) error
	FindByID(ctx context.Context, id uint) (*models.Recipient, error)
	FindByToken(ctx context.Context, token string) (*models.Recipient, error)
	FindByEnvelope(ctx context.Context, envelopeID uint) ([]models.Recipient, error)
	EmailExists(ctx context.Context, envelopeID uint, email string, excludeID uint) (bool, error)
	Update(ctx context.Context, recipient *models.Recipient) error
	Delete(ctx context.Context, recipient *models.Recipient) error
}

type RecipientRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.Recipient]
}

func NewRecipientRepository(db *gorm.DB) IRecipientRepository {
	return &RecipientRepository{db: db, base: NewBaseRepository[models.Recipient](db)}
}

func (r *RecipientRepository) Create(ctx context.Context, recipient *models.Recipient) error {
	return r.base.Create(ctx, recipient)
}

func (r *RecipientRepository) FindByID(ctx context.Context, id uint) (*models.Recipient, error) {
	return r.base.FindByID(ctx, id)
}

func (r *RecipientRepository) FindByToken(ctx context.Context, token string) (*models.Recipient, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	var recipient models.Recipient
	err := dbFromContext(ctx, r.db).Where("access_token = ?", token).First(&recipient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("RecipientRepository.FindByToken: DB error", zap.Error(err))
		return nil, err
	}
	return &recipient, nil
}

func (r *RecipientRepository) FindByEnvelope(ctx context.Context, envelopeID uint) ([]models.Recipient, error) {
	var recipients []models.Recipient
	err := dbFromContext(ctx, r.db).Where("envelope_id = ?", envelopeID).Order("signing_order asc, id asc").Find(&recipients).Error
	return recipients, err
}

func (r *RecipientRepository) EmailExists(ctx context.Context, envelopeID uint, email string, excludeID uint) (bool, error) {
	var count int64
	q := dbFromContext(ctx, r.db).Model(&models.Recipient{}).Where("envelope_id = ? AND LOWER(email) = LOWER(?)", envelopeID, email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *RecipientRepository) Update(ctx context.Context, recipient *models.Recipient) error {
	return r.base.Save(ctx, recipient)
}

func (r *RecipientRepository) Delete(ctx context.Context, recipient *models.Recipient) error {
	return r.base.Delete(ctx, recipient)
}

var _ IRecipientRepository = (*RecipientRepository)(nil)

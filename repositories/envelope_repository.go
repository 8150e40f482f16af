package repositories

import (
	"context"
	"errors"

	"salonsuite/configs/configslog"
	"salonsuite/models"
	"salonsuite/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IEnvelopeRepository imza zarfları için arayüz.
type IEnvelopeRepository interface {
	Create(ctx context.Context, envelope *models.Envelope) error
	FindByID(ctx context.Context, id uint) (*models.Envelope, error)
	// FindByIDForUpdate satırı transaction sonuna kadar kilitler (SELECT ... FOR UPDATE) ve ilişkileriyle okur.
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Envelope, error)
	FindByUUID(ctx context.Context, uuid string) (*models.Envelope, error)
	FindAllPaginated(ctx context.Context, ownerUserID *uint, params queryparams.ListParams) ([]models.Envelope, int64, error)
	Update(ctx context.Context, envelope *models.Envelope) error
	// UpdateStatus durumu yalnızca mevcut durum from listesindeyse değiştirir; değişmezse false döner.
	UpdateStatus(ctx context.Context, id uint, from []models.EnvelopeStatus, values map[string]interface{}) (bool, error)
	Delete(ctx context.Context, envelope *models.Envelope) error
}

type EnvelopeRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.Envelope]
}

func NewEnvelopeRepository(db *gorm.DB) IEnvelopeRepository {
	base := NewBaseRepository[models.Envelope](db)
	base.SetAllowedSortColumns([]string{"id", "created_at", "updated_at", "title", "status", "sent_at"})
	return &EnvelopeRepository{db: db, base: base}
}

func withEnvelopeRelations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order asc, id asc") }).
		Preload("Recipients", func(db *gorm.DB) *gorm.DB { return db.Order("signing_order asc, id asc") }).
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order("document_id asc, page asc, id asc") })
}

func (r *EnvelopeRepository) Create(ctx context.Context, envelope *models.Envelope) error {
	if envelope == nil || envelope.UUID == "" {
		return errors.New("UUID'siz zarf oluşturulamaz")
	}
	return dbFromContext(ctx, r.db).Omit("Documents", "Recipients", "Fields").Create(envelope).Error
}

func (r *EnvelopeRepository) FindByID(ctx context.Context, id uint) (*models.Envelope, error) {
	var envelope models.Envelope
	err := withEnvelopeRelations(dbFromContext(ctx, r.db)).First(&envelope, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("EnvelopeRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &envelope, nil
}

func (r *EnvelopeRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Envelope, error) {
	var locked models.Envelope
	err := dbFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&locked, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("EnvelopeRepository.FindByIDForUpdate: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	// Kilit alındıktan sonraki okuma, kilidi bırakan transaction'ın yazdıklarını görür.
	return r.FindByID(ctx, id)
}

func (r *EnvelopeRepository) FindByUUID(ctx context.Context, uuid string) (*models.Envelope, error) {
	var envelope models.Envelope
	err := withEnvelopeRelations(dbFromContext(ctx, r.db)).Where("uuid = ?", uuid).First(&envelope).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("EnvelopeRepository.FindByUUID: DB error", zap.String("uuid", uuid), zap.Error(err))
		return nil, err
	}
	return &envelope, nil
}

func (r *EnvelopeRepository) FindAllPaginated(ctx context.Context, ownerUserID *uint, params queryparams.ListParams) ([]models.Envelope, int64, error) {
	return r.base.FindPaginated(ctx, params, func(q *gorm.DB) *gorm.DB {
		if ownerUserID != nil {
			q = q.Where("owner_user_id = ?", *ownerUserID)
		}
		if params.Status != "" {
			q = q.Where("status = ?", params.Status)
		}
		if params.Name != "" {
			q = q.Where("LOWER(title) LIKE LOWER(?)", "%"+params.Name+"%")
		}
		return q
	})
}

func (r *EnvelopeRepository) Update(ctx context.Context, envelope *models.Envelope) error {
	if envelope == nil || envelope.ID == 0 {
		return errors.New("güncellenecek zarf geçerli değil")
	}
	return dbFromContext(ctx, r.db).Omit("Documents", "Recipients", "Fields").Save(envelope).Error
}

func (r *EnvelopeRepository) UpdateStatus(ctx context.Context, id uint, from []models.EnvelopeStatus, values map[string]interface{}) (bool, error) {
	result := dbFromContext(ctx, r.db).Model(&models.Envelope{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(values)
	if result.Error != nil {
		configslog.Log.Error("EnvelopeRepository.UpdateStatus: DB error", zap.Uint("id", id), zap.Error(result.Error))
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *EnvelopeRepository) Delete(ctx context.Context, envelope *models.Envelope) error {
	return r.base.Delete(ctx, envelope)
}

var _ IEnvelopeRepository = (*EnvelopeRepository)(nil)

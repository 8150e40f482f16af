package repositories

import (
	"context"
	"errors"

	"salonsuite/models"

	"gorm.io/gorm"
)

// IAuditRepository yalnızca ekleme ve okuma sunar.
type IAuditRepository interface {
	Append(ctx context.Context, entry *models.AuditEntry) error
	FindByEnvelope(ctx context.Context, envelopeID uint) ([]models.AuditEntry, error)
}

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) IAuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, entry *models.AuditEntry) error {
	if entry == nil || entry.EnvelopeID == 0 || entry.Action == "" {
		return errors.New("eksik denetim kaydı")
	}
	if entry.ID != 0 {
		return errors.New("denetim kayıtları değiştirilemez")
	}
	return dbFromContext(ctx, r.db).Create(entry).Error
}

func (r *AuditRepository) FindByEnvelope(ctx context.Context, envelopeID uint) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := dbFromContext(ctx, r.db).Where("envelope_id = ?", envelopeID).Order("created_at asc, id asc").Find(&entries).Error
	return entries, err
}

var _ IAuditRepository = (*AuditRepository)(nil)

package repositories

import (
	"context"
	"errors"
	"time"

	"salonsuite/configs/configslog"
	"salonsuite/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ICommissionCacheRepository komisyon sonuç önbelleği tablosu.
type ICommissionCacheRepository interface {
	FindByRangeKey(ctx context.Context, key string) (*models.CommissionCache, error)
	Upsert(ctx context.Context, entry *models.CommissionCache) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type CommissionCacheRepository struct {
	db *gorm.DB
}

func NewCommissionCacheRepository(db *gorm.DB) ICommissionCacheRepository {
	return &CommissionCacheRepository{db: db}
}

func (r *CommissionCacheRepository) FindByRangeKey(ctx context.Context, key string) (*models.CommissionCache, error) {
	var entry models.CommissionCache
	err := dbFromContext(ctx, r.db).Where("range_key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("CommissionCacheRepository.FindByRangeKey: DB error", zap.String("range_key", key), zap.Error(err))
		return nil, err
	}
	return &entry, nil
}

// Upsert aynı anahtarlı kaydı günceller, yoksa oluşturur.
func (r *CommissionCacheRepository) Upsert(ctx context.Context, entry *models.CommissionCache) error {
	return dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var existing models.CommissionCache
		err := tx.Unscoped().Where("range_key = ?", entry.RangeKey).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(entry).Error
		case err != nil:
			return err
		}
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		return tx.Unscoped().Model(&existing).Updates(map[string]interface{}{
			"start_date": entry.StartDate,
			"end_date":   entry.EndDate,
			"payload":    entry.Payload,
			"expires_at": entry.ExpiresAt,
			"deleted_at": nil,
		}).Error
	})
}

// DeleteExpired süresi dolmuş satırları kalıcı olarak siler.
func (r *CommissionCacheRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := dbFromContext(ctx, r.db).Unscoped().Where("expires_at <= ?", now).Delete(&models.CommissionCache{})
	if result.Error != nil {
		configslog.Log.Error("CommissionCacheRepository.DeleteExpired: DB error", zap.Error(result.Error))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

var _ ICommissionCacheRepository = (*CommissionCacheRepository)(nil)

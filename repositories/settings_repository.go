package repositories

import (
	"context"
	"errors"

	"salonsuite/models"

	"gorm.io/gorm"
)

// ISettingsRepository tek satırlık saat kartı ayarları. Satır yoksa varsayılan oluşturulur.
type ISettingsRepository interface {
	GetOvertime(ctx context.Context) (*models.OvertimeSettings, error)
	SaveOvertime(ctx context.Context, s *models.OvertimeSettings) error
	GetLocation(ctx context.Context) (*models.LocationSettings, error)
	SaveLocation(ctx context.Context, s *models.LocationSettings) error
}

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) ISettingsRepository {
	return &SettingsRepository{db: db}
}

func firstOrCreate[T any](db *gorm.DB, defaults T) (*T, error) {
	var row T
	err := db.Order("id asc").First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	row = defaults
	if err := db.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *SettingsRepository) GetOvertime(ctx context.Context) (*models.OvertimeSettings, error) {
	return firstOrCreate(dbFromContext(ctx, r.db), models.DefaultOvertimeSettings())
}

func (r *SettingsRepository) SaveOvertime(ctx context.Context, s *models.OvertimeSettings) error {
	return dbFromContext(ctx, r.db).Save(s).Error
}

func (r *SettingsRepository) GetLocation(ctx context.Context) (*models.LocationSettings, error) {
	return firstOrCreate(dbFromContext(ctx, r.db), models.DefaultLocationSettings())
}

func (r *SettingsRepository) SaveLocation(ctx context.Context, s *models.LocationSettings) error {
	return dbFromContext(ctx, r.db).Save(s).Error
}

var _ ISettingsRepository = (*SettingsRepository)(nil)

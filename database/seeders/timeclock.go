package seeders

import (
	"errors"

	"salonsuite/configs/configslog"
	"salonsuite/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DefaultJobName = "General"

// SeedTimeClock tek satırlık ayarları ve varsayılan işi oluşturur.
func SeedTimeClock(db *gorm.DB) error {
	var overtimeCount, locationCount int64
	if err := db.Model(&models.OvertimeSettings{}).Count(&overtimeCount).Error; err != nil {
		return err
	}
	if overtimeCount == 0 {
		defaults := models.DefaultOvertimeSettings()
		if err := db.Create(&defaults).Error; err != nil {
			configslog.Log.Error("Fazla mesai ayarları oluşturulamadı", zap.Error(err))
			return err
		}
		configslog.SLog.Info("Varsayılan fazla mesai ayarları oluşturuldu.")
	}

	if err := db.Model(&models.LocationSettings{}).Count(&locationCount).Error; err != nil {
		return err
	}
	if locationCount == 0 {
		defaults := models.DefaultLocationSettings()
		if err := db.Create(&defaults).Error; err != nil {
			configslog.Log.Error("Lokasyon ayarları oluşturulamadı", zap.Error(err))
			return err
		}
		configslog.SLog.Info("Varsayılan lokasyon ayarları oluşturuldu.")
	}

	var job models.Job
	err := db.Where("name = ?", DefaultJobName).First(&job).Error
	switch {
	case err == nil:
		configslog.SLog.Debugf("İş '%s' zaten mevcut.", DefaultJobName)
	case errors.Is(err, gorm.ErrRecordNotFound):
		job = models.Job{Name: DefaultJobName, IsActive: true}
		if err := db.Create(&job).Error; err != nil {
			configslog.Log.Error("Varsayılan iş oluşturulamadı", zap.Error(err))
			return err
		}
		configslog.SLog.Infof("İş '%s' oluşturuldu.", DefaultJobName)
	default:
		return err
	}
	return nil
}

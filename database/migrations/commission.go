package migrations

import (
	"salonsuite/configs/configslog"
	"salonsuite/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateCommissionCacheTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating commission_caches table...")
	if err := db.AutoMigrate(&models.CommissionCache{}); err != nil {
		configslog.Log.Error("Failed to migrate commission_caches table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Commission cache table migrated successfully")
	return nil
}

package migrations

import (
	"fmt"

	"salonsuite/configs/configslog"
	"salonsuite/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateESignTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating e-sign tables...")
	tables := []interface{}{
		&models.EnvelopeTemplate{},
		&models.Envelope{},
		&models.EnvelopeDocument{},
		&models.Recipient{},
		&models.Field{},
		&models.AuditEntry{},
	}
	for _, table := range tables {
		if err := db.AutoMigrate(table); err != nil {
			configslog.Log.Error("Failed to migrate e-sign table", zap.String("model", modelName(table)), zap.Error(err))
			return err
		}
	}
	configslog.SLog.Info("E-sign tables migrated successfully")
	return nil
}

func modelName(v interface{}) string {
	return fmt.Sprintf("%T", v)
}

package migrations

import (
	"salonsuite/configs/configslog"
	"salonsuite/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateTimeClockTables sıra önemlidir: employees → jobs FK, time_entries → employees FK.
func MigrateTimeClockTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating time clock tables...")
	tables := []interface{}{
		&models.Job{},
		&models.Employee{},
		&models.TimeEntry{},
		&models.OvertimeSettings{},
		&models.LocationSettings{},
	}
	for _, table := range tables {
		if err := db.AutoMigrate(table); err != nil {
			configslog.Log.Error("Failed to migrate time clock table", zap.String("model", modelName(table)), zap.Error(err))
			return err
		}
	}
	configslog.SLog.Info("Time clock tables migrated successfully")
	return nil
}

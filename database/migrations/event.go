package migrations

import (
	"orbit.events/configs/configslog"
	"orbit.events/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateEventsTable creates/updates the events table. Users must already
// exist for the host FK.
func MigrateEventsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating events table...")
	if err := db.AutoMigrate(&models.Event{}); err != nil {
		configslog.Log.Error("Failed to migrate events table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Events table migrated successfully")
	return nil
}

package migrations

import (
	"orbit.events/configs/configslog"
	"orbit.events/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateRSVPsTable creates/updates the rsvps table, including the composite
// unique index on (user_id, event_id) that backs the upsert.
func MigrateRSVPsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating rsvps table...")
	if err := db.AutoMigrate(&models.RSVP{}); err != nil {
		configslog.Log.Error("Failed to migrate rsvps table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("RSVPs table migrated successfully")
	return nil
}

package seeders

import (
	"errors"
	"os"
	"strings"

	"orbit.events/configs/configslog"
	"orbit.events/models"
	"orbit.events/pkg/catalog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedDefaultEvents inserts the default catalog once, owned by the system
// user. Idempotent: if any seed event already exists the seeder leaves the
// store alone — the reset job handles replacement from then on.
func SeedDefaultEvents(db *gorm.DB) error {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("RESET_HOST_EMAIL")))
	if email == "" {
		configslog.SLog.Info("RESET_HOST_EMAIL not set, skipping default event seed.")
		return nil
	}

	var seedCount int64
	if err := db.Model(&models.Event{}).Where("is_seed = ?", true).Count(&seedCount).Error; err != nil {
		return err
	}
	if seedCount > 0 {
		configslog.SLog.Infof("Seed events already present (%d), skipping.", seedCount)
		return nil
	}

	var host models.User
	if err := db.Where("email = ?", email).First(&host).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("system user must be seeded before default events")
		}
		return err
	}

	seedFile := os.Getenv("SEED_FILE")
	if seedFile == "" {
		seedFile = catalog.DefaultSeedFile
	}
	templates, err := catalog.Load(seedFile)
	if err != nil {
		configslog.Log.Error("Default catalog could not be loaded", zap.String("seedFile", seedFile), zap.Error(err))
		return err
	}

	events := catalog.ToEvents(templates, host.ID)
	if len(events) == 0 {
		configslog.SLog.Warn("Default catalog is empty, nothing to seed.")
		return nil
	}
	if err := db.Create(&events).Error; err != nil {
		configslog.Log.Error("Default events could not be created", zap.Error(err))
		return err
	}

	configslog.SLog.Infof("%d default events seeded.", len(events))
	return nil
}

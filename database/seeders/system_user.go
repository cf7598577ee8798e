package seeders

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"strings"

	"orbit.events/configs/configslog"
	"orbit.events/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedSystemUser ensures the configured reset host account exists. The reset
// job reassigns the default catalog to this identity on every run. The
// account gets an unguessable generated credential; operators log in by
// resetting it out of band.
func SeedSystemUser(db *gorm.DB) error {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("RESET_HOST_EMAIL")))
	if email == "" {
		configslog.SLog.Info("RESET_HOST_EMAIL not set, skipping system user seed.")
		return nil
	}

	var existing models.User
	result := db.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		configslog.SLog.Infof("System user '%s' already exists, skipping.", email)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		configslog.Log.Error("System user lookup failed", zap.Error(result.Error))
		return result.Error
	}

	secret := make([]byte, 24)
	if _, err := rand.Read(secret); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(secret)), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		FirstName:    "Orbit",
		LastName:     "Events",
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		configslog.Log.Error("System user could not be created", zap.String("email", email), zap.Error(err))
		return err
	}

	configslog.SLog.Infof("System user '%s' created (ID: %d).", email, user.ID)
	return nil
}

package database

import (
	"orbit.events/configs/configslog"
	"orbit.events/database/migrations"
	"orbit.events/database/seeders"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Initialize runs migrations and/or seeders inside one transaction.
func Initialize(db *gorm.DB, migrate bool, seed bool) {
	if !migrate && !seed {
		configslog.SLog.Info("Neither migrate nor seed flag given, nothing to do.")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		configslog.Log.Fatal("Database transaction could not be started", zap.Error(tx.Error))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			configslog.Log.Fatal("Database initialization failed (panic)", zap.Any("panic_info", r))
		} else if err := tx.Error; err != nil && err != gorm.ErrInvalidTransaction {
			configslog.SLog.Warn("Rolling back because initialization hit an error.", zap.Error(err))
			rbErr := tx.Rollback().Error
			if rbErr != nil && rbErr != gorm.ErrInvalidTransaction {
				configslog.Log.Error("Additional error during rollback", zap.Error(rbErr))
			}
		}
	}()

	configslog.SLog.Info("Database initialization starting...")

	if migrate {
		configslog.SLog.Info("Running migrations...")
		if err := RunMigrationsInOrder(tx); err != nil {
			configslog.Log.Error("Migration failed", zap.Error(err))
			return
		}
		configslog.SLog.Info("Migrations completed.")
	} else {
		configslog.SLog.Info("Migrate flag not given, skipping migration step.")
	}

	if seed {
		configslog.SLog.Info("Running seeders...")
		if err := CheckAndRunSeeders(tx); err != nil {
			configslog.Log.Error("Seeding failed", zap.Error(err))
			return
		}
		configslog.SLog.Info("Seeders completed.")
	} else {
		configslog.SLog.Info("Seed flag not given, skipping seeder step.")
	}

	configslog.SLog.Info("Committing...")
	if err := tx.Commit().Error; err != nil {
		tx.Error = err
		configslog.Log.Error("Commit failed", zap.Error(err))
		return
	}

	configslog.SLog.Info("Database initialization finished successfully")
}

// RunMigrationsInOrder migrates parents before children so foreign keys
// always have a target: users, then events, then rsvps.
func RunMigrationsInOrder(db *gorm.DB) error {
	configslog.SLog.Info(" -> Running user migrations...")
	if err := migrations.MigrateUsersTable(db); err != nil {
		configslog.Log.Error("Users table migration failed", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> User migrations done.")

	configslog.SLog.Info(" -> Running event migrations...")
	if err := migrations.MigrateEventsTable(db); err != nil {
		configslog.Log.Error("Events table migration failed", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Event migrations done.")

	configslog.SLog.Info(" -> Running RSVP migrations...")
	if err := migrations.MigrateRSVPsTable(db); err != nil {
		configslog.Log.Error("RSVPs table migration failed", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> RSVP migrations done.")

	configslog.SLog.Info("All migrations ran successfully.")
	return nil
}

// CheckAndRunSeeders runs the idempotent seeders: the reset host account
// first, then the default catalog it owns.
func CheckAndRunSeeders(db *gorm.DB) error {
	configslog.SLog.Info("Checking/creating system user...")
	if err := seeders.SeedSystemUser(db); err != nil {
		configslog.Log.Error("System user seed failed", zap.Error(err))
		return err
	}

	configslog.SLog.Info(" -> Running default event seeder...")
	if err := seeders.SeedDefaultEvents(db); err != nil {
		configslog.Log.Error("Default events could not be seeded", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Default event seeder done.")

	configslog.SLog.Info("All seeders checked/ran successfully.")
	return nil
}

package configsdatabase

import (
	"os"
	"time"

	"orbit.events/configs/configslog"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// db is the single process-wide connection handle. Lifecycle: InitDB once at
// startup, GetDB everywhere else, CloseDB on shutdown.
var db *gorm.DB

// InitDB opens the GORM connection using DATABASE_URL.
func InitDB() {
	if db != nil {
		return
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		configslog.Log.Fatal("DATABASE_URL is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		configslog.Log.Fatal("database connection failed", zap.Error(err))
	}

	sqlDB, err := conn.DB()
	if err != nil {
		configslog.Log.Fatal("database handle could not be obtained", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	db = conn
	configslog.SLog.Info("database connection established")
}

// GetDB returns the shared connection handle.
func GetDB() *gorm.DB {
	if db == nil {
		configslog.Log.Fatal("GetDB called before InitDB")
	}
	return db
}

// SetDB injects a connection handle. Used by tests and one-shot tooling that
// bring their own database.
func SetDB(conn *gorm.DB) {
	db = conn
}

// CloseDB closes the underlying sql.DB.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
	db = nil
}

package configslog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the structured logger, SLog the sugared variant of the same core.
var (
	Log  *zap.Logger
	SLog *zap.SugaredLogger
)

// InitLogger builds the process-wide zap logger. Call once from main.
func InitLogger() {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		panic("logger could not be initialized: " + err.Error())
	}

	Log = logger
	SLog = logger.Sugar()
}

// SyncLogger flushes buffered log entries. Intended for defer in main.
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}

func init() {
	// Packages log during tests without going through main; keep a usable
	// default until InitLogger replaces it.
	if Log == nil {
		Log = zap.NewNop()
		SLog = Log.Sugar()
	}
}

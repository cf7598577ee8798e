package configsapp

import (
	"errors"
	"os"
	"strings"

	"orbit.events/configs/configslog"

	"github.com/joho/godotenv"
)

// ResetMode selects how the scheduled reset treats user-authored events.
type ResetMode string

const (
	ResetModeRefresh ResetMode = "refresh" // replace seed events only
	ResetModeFull    ResetMode = "full"    // wipe everything, reinsert catalog
)

// ErrResetHostNotConfigured is fatal for any reset run: without a host
// identity the catalog cannot be owned by anyone.
var ErrResetHostNotConfigured = errors.New("RESET_HOST_EMAIL is not set")

// Config holds the environment-driven application settings.
type Config struct {
	AppPort        string
	DatabaseURL    string
	SessionSecret  string
	ResetMode      ResetMode
	ResetHostEmail string
	CronSecret     string
	SeedFile       string
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		configslog.SLog.Debug("no .env file found, using process environment only")
	}

	return Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		ResetMode:      ParseResetMode(os.Getenv("RESET_MODE")),
		ResetHostEmail: strings.ToLower(strings.TrimSpace(os.Getenv("RESET_HOST_EMAIL"))),
		CronSecret:     os.Getenv("CRON_SECRET"),
		SeedFile:       getEnv("SEED_FILE", "seed/default_events.json"),
	}
}

// ParseResetMode maps an env value onto a ResetMode, defaulting to refresh.
func ParseResetMode(raw string) ResetMode {
	if strings.EqualFold(strings.TrimSpace(raw), string(ResetModeFull)) {
		return ResetModeFull
	}
	return ResetModeRefresh
}

// RequireResetHost returns the configured reset host email or a fatal
// configuration error. Callers must not mutate anything before this check.
func (c Config) RequireResetHost() (string, error) {
	if c.ResetHostEmail == "" {
		return "", ErrResetHostNotConfigured
	}
	return c.ResetHostEmail, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

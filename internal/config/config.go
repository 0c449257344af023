package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type StorageKind string

const (
	StorageMemory   StorageKind = "memory"
	StorageSQLite   StorageKind = "sqlite"
	StoragePostgres StorageKind = "postgres"
)

type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// Storage local por defecto (privacidad): archivo SQLite.
	Storage    StorageKind `envconfig:"STORAGE" default:"sqlite"`
	SQLitePath string      `envconfig:"SQLITE_PATH" default:"medtracker.db"`
	DBDSN      string      `envconfig:"DB_DSN"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	AppName   string `envconfig:"APP_NAME" default:"medication-tracker"`

	ReportDir string `envconfig:"REPORT_DIR" default:"."`

	// Vacío => modo dev (X-Debug-User-ID).
	JWTSecret string `envconfig:"JWT_SECRET"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`
	RateLimitPerMinute int      `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`

	Reminders Reminders
}

type Reminders struct {
	Enabled    bool   `envconfig:"REMINDERS_ENABLED" default:"true"`
	Morning    string `envconfig:"REMINDER_MORNING" default:"0 8 * * *"`
	Afternoon  string `envconfig:"REMINDER_AFTERNOON" default:"0 13 * * *"`
	Evening    string `envconfig:"REMINDER_EVENING" default:"0 18 * * *"`
	Bedtime    string `envconfig:"REMINDER_BEDTIME" default:"0 21 * * *"`
	WebhookURL string `envconfig:"REMINDER_WEBHOOK_URL"`
}

// Load lee .env (si existe) y luego el entorno.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch StorageKind(strings.ToLower(string(c.Storage))) {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if strings.TrimSpace(c.DBDSN) == "" {
			return errors.New("config: STORAGE=postgres requires DB_DSN")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE %q", c.Storage)
	}
	if c.RateLimitPerMinute < 0 {
		return errors.New("config: RATE_LIMIT_PER_MINUTE must be >= 0")
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv             string
	Addr               string
	DbDriver           string
	DbDsn              string
	JwtSecret          string
	JwtAccessMinutes   int
	DefaultRole        string
	AllowedOriginsRaw  string
	MaxShiftHours      int
	GeofenceEnforced   bool
	ExceptionSweepCron string
	ExceptionReason    string
	SmtpHost           string
	SmtpPort           int
	SmtpUser           string
	SmtpPass           string
	SmtpFrom           string
	ExceptionDigestTo  string
}

func Load() (Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (Config, error) {
	cfg := Config{
		AppEnv:             getEnv("APP_ENV", "local"),
		Addr:               getEnv("APP_ADDR", ":8080"),
		DbDriver:           strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DbDsn:              os.Getenv("DB_DSN"),
		JwtSecret:          os.Getenv("JWT_SECRET"),
		JwtAccessMinutes:   getEnvInt("JWT_ACCESS_MINUTES", 720),
		DefaultRole:        strings.ToLower(getEnv("DEFAULT_ROLE", "admin")),
		AllowedOriginsRaw:  getEnv("ALLOWED_ORIGINS", ""),
		MaxShiftHours:      getEnvInt("MAX_SHIFT_HOURS", 14),
		GeofenceEnforced:   getEnvBool("GEOFENCE_ENFORCED", false),
		ExceptionSweepCron: getEnv("EXCEPTION_SWEEP_CRON", "5 0 * * *"),
		ExceptionReason:    getEnv("EXCEPTION_REASON", "no checkout recorded"),
		SmtpHost:           os.Getenv("SMTP_HOST"),
		SmtpPort:           getEnvInt("SMTP_PORT", 587),
		SmtpUser:           os.Getenv("SMTP_USER"),
		SmtpPass:           os.Getenv("SMTP_PASS"),
		SmtpFrom:           os.Getenv("SMTP_FROM"),
		ExceptionDigestTo:  os.Getenv("EXCEPTION_DIGEST_TO"),
	}

	missing := []string{}
	if cfg.DbDsn == "" {
		missing = append(missing, "DB_DSN")
	}
	// SMTP is optional, but a digest recipient needs the full relay config.
	if cfg.ExceptionDigestTo != "" {
		if cfg.SmtpHost == "" {
			missing = append(missing, "SMTP_HOST")
		}
		if cfg.SmtpFrom == "" {
			missing = append(missing, "SMTP_FROM")
		}
	}

	if len(missing) > 0 {
		return cfg, errors.New("missing env: " + strings.Join(missing, ", "))
	}

	switch cfg.DbDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return cfg, errors.New("unsupported DB_DRIVER: " + cfg.DbDriver)
	}
	if cfg.MaxShiftHours <= 0 {
		return cfg, errors.New("MAX_SHIFT_HOURS must be positive")
	}

	return cfg, nil
}

// LoadToken reads only the token keys, for tools that never open the
// database.
func LoadToken() (Config, error) {
	_ = godotenv.Load()
	cfg := Config{
		JwtSecret:        os.Getenv("JWT_SECRET"),
		JwtAccessMinutes: getEnvInt("JWT_ACCESS_MINUTES", 720),
		DefaultRole:      strings.ToLower(getEnv("DEFAULT_ROLE", "admin")),
	}
	if cfg.JwtSecret == "" {
		return cfg, errors.New("missing env: JWT_SECRET")
	}
	if cfg.JwtAccessMinutes <= 0 {
		return cfg, errors.New("JWT_ACCESS_MINUTES must be positive")
	}
	return cfg, nil
}

// DigestEnabled reports whether exception digests can be mailed.
func (c Config) DigestEnabled() bool {
	return c.ExceptionDigestTo != "" && c.SmtpHost != "" && c.SmtpFrom != ""
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "":
		return fallback
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

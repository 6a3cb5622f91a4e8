package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	ModeLegacy = "legacy"
	ModeStrict = "strict"
)

// Config holds application configuration values.
type Config struct {
	Secret      string
	DatabaseDSN string
	HTTPPort    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	ReconcileMode string
	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int

	SQLDumpDir    string
	MedicineCSV   string
	AdminUsername string
	AdminPassword string
	PhoneRegion   string
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	port := getEnv("HTTP_PORT", "5001")
	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		logrus.Warnf("invalid HTTP_PORT value %q, defaulting to 5001", port)
		port = "5001"
	}

	redisDB := getInt("REDIS_DB", 0)
	ttlHours := getInt("SESSION_TTL_HOURS", 24)
	if ttlHours <= 0 {
		logrus.Warnf("invalid SESSION_TTL_HOURS value %d, defaulting to 24", ttlHours)
		ttlHours = 24
	}

	maxSize := getInt("LOG_MAX_SIZE_MB", 10)
	if maxSize <= 0 {
		logrus.Warnf("invalid LOG_MAX_SIZE_MB value %d, defaulting to 10", maxSize)
		maxSize = 10
	}
	maxBackups := getInt("LOG_MAX_BACKUPS", 10)
	if maxBackups < 0 {
		logrus.Warnf("invalid LOG_MAX_BACKUPS value %d, defaulting to 10", maxBackups)
		maxBackups = 10
	}

	mode := strings.ToLower(getEnv("RECONCILE_MODE", ModeLegacy))
	if mode != ModeLegacy && mode != ModeStrict {
		logrus.Warnf("invalid RECONCILE_MODE value %q, defaulting to %s", mode, ModeLegacy)
		mode = ModeLegacy
	}

	return Config{
		Secret:        getEnv("SECRET", "dev_secret"),
		DatabaseDSN:   getEnv("DATABASE_DSN", "medsales.db"),
		HTTPPort:      port,
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		SessionTTL:    time.Duration(ttlHours) * time.Hour,
		ReconcileMode: mode,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnvAllowEmpty("LOG_FILE", "logs/app.log"),
		LogMaxSizeMB:  maxSize,
		LogMaxBackups: maxBackups,
		SQLDumpDir:    os.Getenv("SQL_DUMP_DIR"),
		MedicineCSV:   os.Getenv("MEDICINE_CSV"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		PhoneRegion:   strings.ToUpper(getEnv("PHONE_REGION", "CN")),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getEnvAllowEmpty returns fallback only when key is unset, so KEY= disables the value.
func getEnvAllowEmpty(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return strings.TrimSpace(v)
}

func getInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		logrus.Warnf("invalid %s value %q, defaulting to %d", key, raw, fallback)
		return fallback
	}
	return n
}

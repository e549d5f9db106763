package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	InboxDir  string
	OutputDir string

	RulesPath     string
	ReferenceDate string

	WatchIntervalSec int
	WatchBatchMax    int
	WatchAutoExport  bool

	LogLevel string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "assets.db")),
		InboxDir:  getEnv("INBOX_DIR", filepath.Join(cwd, "data", "inbox")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		RulesPath:     getEnv("RULES_PATH", ""),
		ReferenceDate: getEnv("REFERENCE_DATE", ""),

		WatchIntervalSec: getEnvInt("WATCH_INTERVAL_SEC", 60),
		WatchBatchMax:    getEnvInt("WATCH_BATCH_MAX", 10),
		WatchAutoExport:  getEnvBool("WATCH_AUTO_EXPORT", true),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// ReferenceTime resolves the enrichment reference date: REFERENCE_DATE when
// set, otherwise today in UTC. Ages are computed relative to this instant.
func (c Config) ReferenceTime() (time.Time, error) {
	if strings.TrimSpace(c.ReferenceDate) == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(c.ReferenceDate))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid REFERENCE_DATE %q: %w", c.ReferenceDate, err)
	}
	return t, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
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
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port    string
	BaseURL string
	Debug   bool

	// Database configuration
	DBType            string // sqlite, mysql, mariadb, postgres, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// SecretKey signs activation links
	SecretKey string

	// MediaRoot is the directory uploaded images are written to
	MediaRoot string

	// Mail configuration. An empty SMTPHost logs letters instead of sending them.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPTimeout  time.Duration
	MailFrom     string

	LogLevel string
}

// Load loads configuration from environment variables, after merging an optional .env file
func Load() (*Config, error) {
	cfg, err := LoadDatabase()
	if err != nil {
		return nil, err
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}
	return cfg, nil
}

// LoadDatabase loads configuration for tools that only talk to the database.
// SECRET_KEY is not required.
func LoadDatabase() (*Config, error) {
	if err := loadEnvFile(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	port := getEnv("PORT", "3000")
	cfg := &Config{
		Port:              port,
		BaseURL:           getEnv("BASE_URL", "http://localhost:"+port),
		Debug:             getEnvAsBool("DEBUG", false),
		DBType:            getEnv("DB_TYPE", "sqlite"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBDatabase:        getEnv("DB_DATABASE", "callboard.db"),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		SecretKey:         getEnv("SECRET_KEY", ""),
		MediaRoot:         getEnv("MEDIA_ROOT", "media"),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:          getEnv("SMTP_USER", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		SMTPTimeout:       getEnvAsDuration("SMTP_TIMEOUT", 5*time.Second),
		MailFrom:          getEnv("MAIL_FROM", "callboard@localhost"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.DBType != "sqlite" && cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required for %s", cfg.DBType)
	}

	return cfg, nil
}

// loadEnvFile merges the given .env file into the environment. A missing file is not an error.
// Variables already set in the environment win.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration ("5s", "1m") or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

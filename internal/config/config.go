package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Workday  WorkdayConfig
	Storage  StorageConfig
	Sweeper  SweeperConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	BaseURL  string
}

// WorkdayConfig holds the attendance policy times in "HH:MM" form.
type WorkdayConfig struct {
	ExpectedStart string
	Cutoff        string
}

type StorageConfig struct {
	BasePath string
	BaseURL  string
}

// SweeperConfig controls the daily absence sweep job.
type SweeperConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		BaseURL:  getEnv("APP_BASE_URL", fmt.Sprintf("http://localhost:%d", appPort)),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Workday policy
	config.Workday = WorkdayConfig{
		ExpectedStart: getEnv("WORKDAY_EXPECTED_START", "08:00"),
		Cutoff:        getEnv("WORKDAY_CUTOFF", "18:00"),
	}

	// File storage for justification attachments
	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", config.App.BaseURL+"/uploads"),
	}

	sweeperEnabled, err := strconv.ParseBool(getEnv("ABSENCE_SWEEPER_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid ABSENCE_SWEEPER_ENABLED: %w", err)
	}
	config.Sweeper = SweeperConfig{Enabled: sweeperEnabled}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Workday.ExpectedStart == "" {
		return fmt.Errorf("WORKDAY_EXPECTED_START is required")
	}
	if c.Workday.Cutoff == "" {
		return fmt.Errorf("WORKDAY_CUTOFF is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

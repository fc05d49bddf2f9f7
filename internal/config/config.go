package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"alegria_backend/pkg/pagination"
	"alegria_backend/pkg/utils"
)

// Config holds all configuration for the application.
type Config struct {
	Environment string `validate:"oneof=development production test"`
	Port        string `validate:"required,numeric"`

	DBHost     string `validate:"required"`
	DBPort     string `validate:"required,numeric"`
	DBUser     string `validate:"required"`
	DBPassword string
	DBName     string `validate:"required"`
	DBSSLMode  string `validate:"oneof=disable require verify-ca verify-full"`
	// ApplySchema runs the embedded schema on startup.
	ApplySchema bool

	JWTSecret string        `validate:"required,min=16"`
	JWTTTL    time.Duration `validate:"gt=0"`

	// RateLimit uses the limiter format, e.g. "100-M".
	RateLimit string `validate:"required"`

	CORSOrigins []string `validate:"dive,required"`

	DefaultPageSize int `validate:"gt=0"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=console json"`

	// Venue header printed on receipts and invoices.
	BusinessName    string
	BusinessTaxID   string
	BusinessAddress string
}

// Load reads configuration from the environment. A .env file is honoured unless the
// process environment already says production; it may itself set APP_ENV.
// Variables already present in the process win over the file.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Msg(".env file could not be loaded")
		}
	}
	env := utils.Getenv("APP_ENV", "development")

	pageSize, err := utils.GetenvInt("DEFAULT_PAGE_SIZE", pagination.DefaultItemsPerPage)
	if err != nil {
		return nil, err
	}
	ttl, err := utils.GetenvDuration("JWT_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	applySchema, err := utils.GetenvBool("DB_APPLY_SCHEMA", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment:     env,
		Port:            utils.Getenv("PORT", "8080"),
		DBHost:          utils.Getenv("DB_HOST", "localhost"),
		DBPort:          utils.Getenv("DB_PORT", "5432"),
		DBUser:          utils.Getenv("DB_USER", "postgres"),
		DBPassword:      utils.Getenv("DB_PASSWORD", "postgres"),
		DBName:          utils.Getenv("DB_NAME", "alegria"),
		DBSSLMode:       utils.Getenv("DB_SSLMODE", "disable"),
		ApplySchema:     applySchema,
		JWTSecret:       utils.Getenv("JWT_SECRET", ""),
		JWTTTL:          ttl,
		RateLimit:       utils.Getenv("RATE_LIMIT", "300-M"),
		CORSOrigins:     utils.SplitAndTrim(utils.Getenv("CORS_ORIGINS", "http://localhost:3000")),
		DefaultPageSize: pageSize,
		LogLevel:        utils.Getenv("LOG_LEVEL", "info"),
		LogFormat:       utils.Getenv("LOG_FORMAT", "console"),
		BusinessName:    utils.Getenv("BUSINESS_NAME", "Alegria"),
		BusinessTaxID:   utils.Getenv("BUSINESS_TAX_ID", ""),
		BusinessAddress: utils.Getenv("BUSINESS_ADDRESS", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags of the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	return nil
}

// DSN builds the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

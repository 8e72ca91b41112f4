package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"facturation-backend/logger"
)

type Config struct {
	// Server
	Port           string `mapstructure:"PORT"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	BodyLimitMB    int    `mapstructure:"BODY_LIMIT_MB"`
	RateLimitMax   int    `mapstructure:"RATE_LIMIT_MAX"`
	RateLimitSecs  int    `mapstructure:"RATE_LIMIT_WINDOW_SECONDS"`

	// Database
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`
	DBTimeZone string `mapstructure:"DB_TIMEZONE"`

	// Auth
	JWTSecret   string `mapstructure:"JWT_SECRET_KEY"`
	JWTTTLHours int    `mapstructure:"JWT_TTL_HOURS"`

	// Image studio
	OpenAIAPIKey     string `mapstructure:"OPENAI_API_KEY"`
	OpenAIImageModel string `mapstructure:"OPENAI_IMAGE_MODEL"`

	// Previews
	PDFFontPath string `mapstructure:"PDF_FONT_PATH"`

	// Logging
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	LogOutput string `mapstructure:"LOG_OUTPUT"`
}

var defaults = map[string]any{
	"PORT":                      "8080",
	"ALLOWED_ORIGINS":           "*",
	"BODY_LIMIT_MB":             8, // logos travel inside the settings document
	"RATE_LIMIT_MAX":            60,
	"RATE_LIMIT_WINDOW_SECONDS": 60,
	"DB_HOST":                   "localhost",
	"DB_PORT":                   "5432",
	"DB_USER":                   "postgres",
	"DB_PASSWORD":               "postgres",
	"DB_NAME":                   "facturation",
	"DB_SSLMODE":                "disable",
	"DB_TIMEZONE":               "UTC",
	"JWT_SECRET_KEY":            "",
	"JWT_TTL_HOURS":             24,
	"OPENAI_API_KEY":            "",
	"OPENAI_IMAGE_MODEL":        "dall-e-3",
	"PDF_FONT_PATH":             "",
	"LOG_LEVEL":                 "info",
	"LOG_FORMAT":                "console",
	"LOG_OUTPUT":                "stdout",
}

// Load reads the optional .env file, then the environment, on top of the defaults above.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.BodyLimitMB <= 0 {
		return fmt.Errorf("BODY_LIMIT_MB must be positive")
	}
	if c.JWTTTLHours <= 0 {
		return fmt.Errorf("JWT_TTL_HOURS must be positive")
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode, c.DBTimeZone)
}

// LoggerConfig returns the logging part of the config.
func (c *Config) LoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		Output: c.LogOutput,
	}
}

// ImagesEnabled reports whether the image studio has credentials.
func (c *Config) ImagesEnabled() bool {
	return strings.TrimSpace(c.OpenAIAPIKey) != ""
}

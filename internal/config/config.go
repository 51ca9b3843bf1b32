// Package config loads application settings from config files and the
// environment via viper.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

const placeholderSecret = "your-secret-key-change-in-production"

// Config holds every tunable the application reads at startup.
type Config struct {
	JWTSecret      string  `mapstructure:"JWT_SECRET"`
	Port           string  `mapstructure:"PORT"`
	DBHost         string  `mapstructure:"DB_HOST"`
	DBPort         string  `mapstructure:"DB_PORT"`
	DBUser         string  `mapstructure:"DB_USER"`
	DBPassword     string  `mapstructure:"DB_PASSWORD"`
	DBName         string  `mapstructure:"DB_NAME"`
	DBSSLMode      string  `mapstructure:"DB_SSLMODE"`
	RedisURL       string  `mapstructure:"REDIS_URL"`
	AllowedOrigins string  `mapstructure:"ALLOWED_ORIGINS"`
	Env            string  `mapstructure:"APP_ENV"`
	UploadDir      string  `mapstructure:"UPLOAD_DIR"`
	UploadMaxMB    int     `mapstructure:"UPLOAD_MAX_MB"`
	MediaBaseURL   string  `mapstructure:"MEDIA_BASE_URL"`
	TracingEnabled bool    `mapstructure:"TRACING_ENABLED"`
	TracingExport  string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint   string  `mapstructure:"OTLP_ENDPOINT"`
	TracingRatio   float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// defaults are development values; anything security-sensitive among them is
// rejected by Validate when APP_ENV is production.
var defaults = map[string]interface{}{
	"PORT":                  "8480",
	"DB_HOST":               "localhost",
	"DB_PORT":               "5432",
	"DB_USER":               "user",
	"DB_PASSWORD":           "password",
	"DB_NAME":               "ripple",
	"DB_SSLMODE":            "disable",
	"REDIS_URL":             "localhost:6379",
	"JWT_SECRET":            placeholderSecret,
	"ALLOWED_ORIGINS":       "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173",
	"APP_ENV":               "development",
	"UPLOAD_DIR":            "/tmp/ripple/uploads/images",
	"UPLOAD_MAX_MB":         10,
	"MEDIA_BASE_URL":        "/media",
	"TRACING_ENABLED":       false,
	"TRACING_EXPORTER":      "stdout",
	"OTLP_ENDPOINT":         "localhost:4318",
	"TRACING_SAMPLER_RATIO": 0.1,
}

// LoadConfig reads config.yml (plus a config.<env>.yml profile outside
// development), lets environment variables override both, and validates the
// result.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional; defaults and env vars can carry a dev setup.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}
	if env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("profile config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("loaded configuration profile config.%s.yml", env)
	}

	for key, value := range defaults {
		viper.SetDefault(key, value)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations that cannot run, and refuses development
// placeholders in production.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	if c.Env != "production" && c.Env != "prod" {
		if len(c.JWTSecret) < 32 {
			log.Println("WARNING: JWT_SECRET is shorter than 32 characters")
		}
		return nil
	}

	if c.JWTSecret == placeholderSecret {
		return errors.New("JWT_SECRET must be changed from the default value in production")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters in production")
	}
	if c.DBPassword == "" || c.DBPassword == "password" {
		return errors.New("a strong DB_PASSWORD is required in production")
	}
	if c.DBSSLMode == "" || c.DBSSLMode == "disable" {
		log.Println("WARNING: DB_SSLMODE is 'disable' in production")
	}
	if c.AllowedOrigins == "*" {
		log.Println("WARNING: ALLOWED_ORIGINS is '*' in production")
	}
	return nil
}

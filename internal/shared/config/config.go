package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration.
type Config struct {
	Port               string   `env:"PORT" envDefault:"8080"`
	Env                string   `env:"ENV" envDefault:"dev"`
	DatabaseURL        string   `env:"DATABASE_URL"`
	CORSAllowOrigin    []string `env:"CORS_ALLOW_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
	ObjectStoreType    string   `env:"OBJECT_STORE" envDefault:"local"`
	LocalStoreDir      string   `env:"LOCAL_STORE_DIR" envDefault:"./data"`
	AWSRegion          string   `env:"AWS_REGION"`
	S3Bucket           string   `env:"S3_BUCKET"`
	S3Prefix           string   `env:"S3_PREFIX"`
	SSEKMSKeyID        string   `env:"SSE_KMS_KEY_ID"`
	GoalTablePath      string   `env:"GOAL_TABLE_PATH"`
	GoogleClientID     string   `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string   `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string   `env:"GOOGLE_REDIRECT_URL"`
	UIRedirectURL      string   `env:"UI_REDIRECT_URL"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	cfg, err := Parse()
	if err != nil {
		log.Printf("config: %v; using defaults", err)
		cfg = Defaults()
	}
	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}
	return cfg
}

// Parse reads the environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg.normalize(), nil
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:            "8080",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		ObjectStoreType: "local",
		LocalStoreDir:   "./data",
	}
}

// IsDevLike reports whether the environment allows development shortcuts.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func (c Config) normalize() Config {
	c.Env = normalizeEnv(c.Env)
	c.ObjectStoreType = normalizeStoreType(c.ObjectStoreType)
	c.CORSAllowOrigin = trimAll(c.CORSAllowOrigin)
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.GoalTablePath = strings.TrimSpace(c.GoalTablePath)
	return c
}

func trimAll(parts []string) []string {
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the server needs, loaded once at startup.
// Supported env vars:
// - PORT: HTTP listen port
// - DB_URL / DATABASE_URL: Postgres DSN
// - REDIS_URL: Redis connection URL for refresh-token sessions
// - JWT_SECRET: HS256 signing secret for access tokens
// - ACCESS_TOKEN_TTL / REFRESH_TOKEN_TTL: Go durations
// - PINATA_API_KEY / PINATA_API_SECRET: pinning service credentials
// - BLOCKCHAIN_NODE_URL: ledger node endpoint
// - DEPLOYMENT_CONFIG_PATH: JSON descriptor with the Certification address
// - LEDGER_PRIVATE_KEY: hex key signing certificate transactions
// - LEDGER_CONFIRM_TIMEOUT: bound on the confirmation wait
// - VERIFY_BASE_URL: public verification page base for QR codes
// - WORK_DIR: directory for per-request document artifacts
type Config struct {
	Port                 string
	DatabaseURL          string
	RedisURL             string
	JWTSecret            string
	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	PinataAPIKey         string
	PinataAPISecret      string
	NodeURL              string
	DeploymentConfigPath string
	LedgerPrivateKey     string
	LedgerConfirmTimeout time.Duration
	VerifyBaseURL        string
	WorkDir              string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 envDefault("PORT", "8080"),
		DatabaseURL:          firstEnv("DB_URL", "DATABASE_URL"),
		RedisURL:             envDefault("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		PinataAPIKey:         os.Getenv("PINATA_API_KEY"),
		PinataAPISecret:      os.Getenv("PINATA_API_SECRET"),
		NodeURL:              envDefault("BLOCKCHAIN_NODE_URL", "http://127.0.0.1:8545"),
		DeploymentConfigPath: envDefault("DEPLOYMENT_CONFIG_PATH", "./deployment_config.json"),
		LedgerPrivateKey:     os.Getenv("LEDGER_PRIVATE_KEY"),
		VerifyBaseURL:        envDefault("VERIFY_BASE_URL", "http://localhost:3000"),
		WorkDir:              os.Getenv("WORK_DIR"),
	}

	var err error
	if cfg.AccessTokenTTL, err = durationEnv("ACCESS_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = durationEnv("REFRESH_TOKEN_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.LedgerConfirmTimeout, err = durationEnv("LEDGER_CONFIRM_TIMEOUT", 90*time.Second); err != nil {
		return nil, err
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DB_URL")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.PinataAPIKey == "" {
		missing = append(missing, "PINATA_API_KEY")
	}
	if cfg.PinataAPISecret == "" {
		missing = append(missing, "PINATA_API_SECRET")
	}
	if cfg.LedgerPrivateKey == "" {
		missing = append(missing, "LEDGER_PRIVATE_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the bootstrap layer injects into the core.
// Gateway credentials are configuration, never literals in code.
type Config struct {
	Port      string
	GinMode   string
	DBDSN     string
	JWTSecret string

	// Payment gateway
	MerchantID     string
	SaltKey        string
	SaltIndex      string
	GatewayBaseURL string
	AppBaseURL     string

	ReconcileInterval time.Duration
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8000"),
		GinMode:        os.Getenv("GIN_MODE"),
		DBDSN:          os.Getenv("DB_DSN"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		MerchantID:     os.Getenv("PHONEPE_MERCHANT_ID"),
		SaltKey:        os.Getenv("PHONEPE_SALT_KEY"),
		SaltIndex:      getEnv("PHONEPE_SALT_INDEX", "1"),
		GatewayBaseURL: getEnv("PHONEPE_BASE_URL", "https://api-preprod.phonepe.com/apis/pg-sandbox"),
		AppBaseURL:     os.Getenv("APP_BE_URL"),
	}

	interval := getEnv("PAYMENT_RECONCILE_INTERVAL", "5m")
	d, err := time.ParseDuration(interval)
	if err != nil {
		return nil, fmt.Errorf("invalid PAYMENT_RECONCILE_INTERVAL %q: %w", interval, err)
	}
	cfg.ReconcileInterval = d

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	if cfg.MerchantID == "" || cfg.SaltKey == "" {
		return nil, fmt.Errorf("PHONEPE_MERCHANT_ID and PHONEPE_SALT_KEY must be set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

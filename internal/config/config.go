package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`

	// Firebase Realtime Database
	FirebaseDatabaseURL     string `mapstructure:"FIREBASE_DATABASE_URL"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Redis (reconcile queue + catalog cache)
	RedisURL string `mapstructure:"REDIS_URL"`

	// Business
	// VATRate is the flat VAT applied to LPO/invoice subtotals, e.g. "0.16".
	VATRate string `mapstructure:"VAT_RATE"`

	// SweepIntervalSeconds controls how often the balance drift sweep runs.
	SweepIntervalSeconds int `mapstructure:"SWEEP_INTERVAL_SECONDS"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("WORKER_POOL_SIZE", 3)
	viper.SetDefault("FIREBASE_DATABASE_URL", "http://localhost:9000/?ns=tradeledger")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("VAT_RATE", "0.16")
	viper.SetDefault("SWEEP_INTERVAL_SECONDS", 300)

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

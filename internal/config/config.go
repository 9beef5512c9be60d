package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	ProviderBaseURL   string
	WalletBaseURL     string
	WebhookBaseURL    string
	RedisAddr         string
	AdminPasswordHash string
	TokenSecret       string
	ActivationTTL     time.Duration
	CatalogCacheTTL   time.Duration
	SweepInterval     time.Duration
	WorkerPoolSize    int
	SweepBatchSize    int
	ShutdownTimeout   time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultTokenSecret     = "change-me-in-production"
	defaultActivationTTL   = 1177 * time.Second
	defaultCatalogCacheTTL = 15 * time.Minute
	defaultSweepInterval   = 30 * time.Second
	defaultWorkerPoolSize  = 4
	defaultSweepBatchSize  = 32
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from a .env file (when present), environment
// variables and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		ProviderBaseURL:   getString(lookup, "PROVIDER_BASE_URL", ""),
		WalletBaseURL:     getString(lookup, "WALLET_BASE_URL", ""),
		WebhookBaseURL:    getString(lookup, "WEBHOOK_BASE_URL", ""),
		RedisAddr:         getString(lookup, "REDIS_ADDR", ""),
		AdminPasswordHash: getString(lookup, "ADMIN_PASSWORD_HASH", ""),
		TokenSecret:       getString(lookup, "TOKEN_SECRET", defaultTokenSecret),
		ActivationTTL:     getDuration(lookup, "ACTIVATION_TTL", defaultActivationTTL),
		CatalogCacheTTL:   getDuration(lookup, "CATALOG_CACHE_TTL", defaultCatalogCacheTTL),
		SweepInterval:     getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		WorkerPoolSize:    getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		SweepBatchSize:    getInt(lookup, "SWEEP_BATCH_SIZE", defaultSweepBatchSize),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("activate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		activationTTLStr   = cfg.ActivationTTL.String()
		sweepIntervalStr   = cfg.SweepInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.ProviderBaseURL, "p", cfg.ProviderBaseURL, "SMS provider API base URL")
	fs.StringVar(&cfg.WalletBaseURL, "w", cfg.WalletBaseURL, "Wallet platform API base URL")
	fs.StringVar(&cfg.WebhookBaseURL, "webhook-base", cfg.WebhookBaseURL, "Public base URL for rent SMS webhooks")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for the catalog cache")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for signing admin tokens")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent sweep workers")
	fs.StringVar(&activationTTLStr, "activation-ttl", activationTTLStr, "Lifetime of an activation order")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between expiry sweeps")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.SweepBatchSize, "sweep-batch", cfg.SweepBatchSize, "Maximum orders per sweep batch")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ActivationTTL, err = time.ParseDuration(activationTTLStr); err != nil {
		return nil, fmt.Errorf("invalid activation ttl: %w", err)
	}

	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("TOKEN_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read token secret file: %w", err)
		}
		cfg.TokenSecret = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.SweepBatchSize <= 0 {
		cfg.SweepBatchSize = defaultSweepBatchSize
	}

	if cfg.ActivationTTL <= 0 {
		cfg.ActivationTTL = defaultActivationTTL
	}

	if cfg.CatalogCacheTTL <= 0 {
		cfg.CatalogCacheTTL = defaultCatalogCacheTTL
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.ProviderBaseURL == "" {
		return nil, fmt.Errorf("provider base URL must be provided")
	}

	if cfg.WalletBaseURL == "" {
		return nil, fmt.Errorf("wallet base URL must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

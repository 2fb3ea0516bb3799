package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	Environment string
	ServiceName string
	Version     string
	APIKey      string // API key for settlement confirmation and admin reads
	LogDir      string // session log files are written here when set

	// HTTP edge
	TrustedProxies []string
	AllowedOrigins []string // realtime gateway origins; empty allows any
	ClaimBurst     int
	MaxBodyBytes   int64

	// Database
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// Optional shared rate-limit store; in-memory when empty
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Admission
	MaxMiningRange              float64
	WalletAttemptsPerMinute     int
	ConnectionAttemptsPerMinute int
	RapidSuccessionWindow       time.Duration
	NodeCacheSize               int
	NodeLayoutDir               string // session layouts seeded at startup when set

	// Claims
	ClaimSignerKey         string // hex secp256k1 private key
	ClaimContractAddress   string
	ChainID                int64
	ClaimTTL               time.Duration
	ClockDriftTolerance    time.Duration
	ClaimReconcileGrace    time.Duration // expired, unconfirmed claims stay reserved this long
	ClaimRequestsPerMinute int

	// Background work
	RespawnSweepInterval time.Duration
	WorkerCount          int
	DeadLetterPath       string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:   getEnv("LOG_FORMAT", DefaultLogFormat),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		Version:     getEnv("VERSION", DefaultVersion),
		APIKey:      getEnv("API_KEY", ""),
		LogDir:      getEnv("LOG_DIR", ""),

		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),
		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS"),
		ClaimBurst:     getEnvAsInt("CLAIM_BURST", DefaultClaimBurst),
		MaxBodyBytes:   int64(getEnvAsInt("MAX_BODY_BYTES", DefaultMaxBodyBytes)),

		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "oceanx"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		MaxMiningRange:              getEnvAsFloat("MAX_MINING_RANGE", DefaultMaxMiningRange),
		WalletAttemptsPerMinute:     getEnvAsInt("WALLET_ATTEMPTS_PER_MINUTE", DefaultWalletAttemptsPerMinute),
		ConnectionAttemptsPerMinute: getEnvAsInt("CONNECTION_ATTEMPTS_PER_MINUTE", DefaultConnectionAttemptsPerMinute),
		RapidSuccessionWindow:       getEnvAsDuration("RAPID_SUCCESSION_WINDOW", DefaultRapidSuccessionWindow),
		NodeCacheSize:               getEnvAsInt("NODE_CACHE_SIZE", DefaultNodeCacheSize),
		NodeLayoutDir:               getEnv("NODE_LAYOUT_DIR", ""),

		ClaimSignerKey:         getEnv("CLAIM_SIGNER_KEY", ""),
		ClaimContractAddress:   getEnv("CLAIM_CONTRACT_ADDRESS", DefaultClaimContractAddress),
		ClaimTTL:               getEnvAsDuration("CLAIM_TTL", DefaultClaimTTL),
		ClockDriftTolerance:    getEnvAsDuration("CLOCK_DRIFT_TOLERANCE", DefaultClockDriftTolerance),
		ClaimReconcileGrace:    getEnvAsDuration("CLAIM_RECONCILE_GRACE", DefaultClaimReconcileGrace),
		ClaimRequestsPerMinute: getEnvAsInt("CLAIM_REQUESTS_PER_MINUTE", DefaultClaimRequestsPerMinute),

		RespawnSweepInterval: getEnvAsDuration("RESPAWN_SWEEP_INTERVAL", DefaultRespawnSweepInterval),
		WorkerCount:          getEnvAsInt("WORKER_COUNT", DefaultWorkerCount),
		DeadLetterPath:       getEnv("DEAD_LETTER_PATH", DefaultDeadLetterPath),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	chainID, err := strconv.ParseInt(getEnv("CHAIN_ID", "1"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CHAIN_ID value: %w", err)
	}
	cfg.ChainID = chainID

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to defaultValue when unset or malformed
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat parses a float variable, falling back to defaultValue when unset or malformed
func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses a time.Duration variable, falling back to defaultValue when unset or malformed
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated variable, dropping empty entries
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

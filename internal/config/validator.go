package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const minAPIKeyLength = 32

// Validate rejects settings the server cannot run with. Every problem is
// reported, not just the first.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Port > 0 && c.Port <= 65535, "PORT %d out of range", c.Port)
	check(c.LogFormat == "text" || c.LogFormat == "json", "LOG_FORMAT must be text or json, got %q", c.LogFormat)
	check(c.ChainID > 0, "CHAIN_ID must be positive, got %d", c.ChainID)
	check(common.IsHexAddress(c.ClaimContractAddress), "CLAIM_CONTRACT_ADDRESS %q is not a hex address", c.ClaimContractAddress)
	if c.ClaimSignerKey != "" {
		key := strings.TrimPrefix(c.ClaimSignerKey, "0x")
		check(len(key) == 64 && isHex(key), "CLAIM_SIGNER_KEY must be 32 bytes of hex")
	}

	check(c.MaxMiningRange > 0, "MAX_MINING_RANGE must be positive")
	check(c.WalletAttemptsPerMinute > 0, "WALLET_ATTEMPTS_PER_MINUTE must be positive")
	check(c.ConnectionAttemptsPerMinute > 0, "CONNECTION_ATTEMPTS_PER_MINUTE must be positive")
	check(c.ClaimRequestsPerMinute > 0, "CLAIM_REQUESTS_PER_MINUTE must be positive")
	check(c.ClaimTTL > 0, "CLAIM_TTL must be positive")
	check(c.ClockDriftTolerance >= 0 && c.ClockDriftTolerance < c.ClaimTTL,
		"CLOCK_DRIFT_TOLERANCE %s must be shorter than CLAIM_TTL %s", c.ClockDriftTolerance, c.ClaimTTL)
	check(c.ClaimReconcileGrace > 0, "CLAIM_RECONCILE_GRACE must be positive")
	check(c.RespawnSweepInterval > 0, "RESPAWN_SWEEP_INTERVAL must be positive")
	check(c.WorkerCount > 0, "WORKER_COUNT must be positive")

	return errors.Join(errs...)
}

// Warnings lists settings that work but should not reach production
func (c *Config) Warnings() []string {
	var warnings []string
	if len(c.APIKey) < minAPIKeyLength {
		warnings = append(warnings, fmt.Sprintf("API_KEY is shorter than %d characters - generate one with: openssl rand -hex 32", minAPIKeyLength))
	}
	if c.ClaimContractAddress == DefaultClaimContractAddress {
		warnings = append(warnings, "CLAIM_CONTRACT_ADDRESS is the zero address - claims will not verify on-chain")
	}
	if c.DBPassword == "postgres" && c.Environment == "prod" {
		warnings = append(warnings, "DB_PASSWORD is the default value")
	}
	if c.RedisAddr == "" && c.Environment == "prod" {
		warnings = append(warnings, "REDIS_ADDR is not set - rate limits are per-instance only")
	}
	return warnings
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

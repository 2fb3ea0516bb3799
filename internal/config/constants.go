package config

import "time"

// Defaults applied when the corresponding environment variable is unset
const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultEnvironment = "dev"
	DefaultServiceName = "oceanx-economy"
	DefaultVersion     = "dev"

	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultMaxMiningRange              = 50.0
	DefaultWalletAttemptsPerMinute     = 30
	DefaultConnectionAttemptsPerMinute = 60
	DefaultRapidSuccessionWindow       = 2 * time.Second
	DefaultNodeCacheSize               = 10000

	DefaultClaimContractAddress   = "0x0000000000000000000000000000000000000000"
	DefaultClaimTTL               = 5 * time.Minute
	DefaultClockDriftTolerance    = 30 * time.Second
	DefaultClaimReconcileGrace    = time.Hour
	DefaultClaimRequestsPerMinute = 20
	DefaultClaimBurst             = 5
	DefaultMaxBodyBytes           = 1 << 20

	DefaultRespawnSweepInterval = 10 * time.Second
	DefaultWorkerCount          = 4
	DefaultDeadLetterPath       = "logs/event_deadletter.jsonl"
)

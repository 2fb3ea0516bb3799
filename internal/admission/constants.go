package admission

import "time"

// Defaults used when Config leaves a field zero
const (
	DefaultWalletLimit     = 30
	DefaultConnectionLimit = 60
	DefaultWindow          = time.Minute
	DefaultMaxRange        = 50.0

	// DefaultShardCount splits the in-memory store to keep lock hold times short
	DefaultShardCount = 32

	// DefaultMaxKeys bounds the number of tracked windows across all shards
	DefaultMaxKeys = 100_000

	// DefaultPositionCacheSize bounds the node position cache
	DefaultPositionCacheSize = 10_000
)

// Key prefixes for rate limit buckets
const (
	keyPrefixWallet     = "wallet:"
	keyPrefixConnection = "conn:"
	redisKeyPrefix      = "oceanx:ratelimit:"
)

// Log messages
const (
	LogMsgRejected      = "Mining request rejected by admission"
	LogMsgStoreFailed   = "Rate limit store failed"
	LogMsgPublishFailed = "Failed to publish admission rejection"
)

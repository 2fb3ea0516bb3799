package mining

import "time"

// Defaults used when Config leaves a field zero
const (
	DefaultRapidSuccessionWindow = 2 * time.Second
	DefaultMaxRange              = 50.0

	// DistanceAnomalyRatio flags attempts made from the outer edge of the allowed range
	DistanceAnomalyRatio = 0.9
)

// Rejection context keys understood by the result builder
const (
	ctxKeyNodeStatus   = "nodeStatus"
	ctxKeyRespawnAt    = "respawnAt"
	ctxKeyRetryAfterMs = "retryAfterMs"
	ctxKeyDistance     = "distance"
	ctxKeyMaxRange     = "maxRange"
)

// Log messages
const (
	LogMsgReplay          = "Mining attempt replayed from audit log"
	LogMsgMined           = "Node harvested"
	LogMsgRejected        = "Mining attempt rejected"
	LogMsgRecordFailed    = "Failed to record rejected mining attempt"
	LogMsgPublishFailed   = "Failed to publish mining event"
	LogMsgLastAttemptFail = "Failed to read last attempt time, skipping rapid succession check"
)

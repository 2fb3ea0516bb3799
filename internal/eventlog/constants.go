package eventlog

// DefaultRetentionDays bounds how long journal rows are kept
const DefaultRetentionDays = 90

// Payload keys that identify who an event is about
const (
	PayloadKeyWallet   = "wallet"
	PayloadKeyPlayerID = "player_id"
	PayloadKeyFlags    = "flags"
)

// Log messages - service events
const (
	LogMsgPayloadNotObject = "Event payload is not an object, skipping journal"
	LogMsgFailedToLogEvent = "Failed to journal event"
	LogMsgEventLogged      = "Event journaled"
)

const (
	LogMsgCleanupJobFailed    = "Journal cleanup failed"
	LogMsgCleanupJobCompleted = "Journal cleanup completed"
)

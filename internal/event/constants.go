package event

import "time"

// EventSchemaVersion is stamped on every event this server emits
const EventSchemaVersion = "1.0"

const (
	// RetryQueueBufferSize bounds events waiting for redelivery; overflow goes
	// straight to the dead-letter file
	RetryQueueBufferSize = 1000

	// MaxRetryDelay caps the exponential backoff between redeliveries
	MaxRetryDelay = 5 * time.Minute

	DeadLetterFilePermissions = 0o644
)

const (
	LogMsgEventPublishFailed     = "Publishing event failed, queued for redelivery"
	LogMsgRetryQueueFull         = "Redelivery queue full, dead-lettering event"
	LogMsgDeadLetterWriteFailed  = "Could not append event to dead-letter file"
	LogMsgEventRetryExhausted    = "Redelivery attempts used up, dead-lettering event"
	LogMsgEventRetryFailed       = "Redelivery failed"
	LogMsgEventRetrySucceeded    = "Redelivered event"
	LogMsgEventDroppedShutdown   = "Publisher stopping, dead-lettering pending event"
	LogMsgQueueDrainedShutdown   = "Redelivery queue drained"
	LogMsgShutdownTimeout        = "Publisher did not stop before the deadline"
	LogMsgDeadLetterWriteFailedS = "Could not dead-letter pending event while stopping"

	ErrMsgHandlerFailuresFormat = "%d handler(s) failed for %s: %w"
)

// CalculateRetryDelay doubles baseDelay per attempt, capped at MaxRetryDelay
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 20 {
		return MaxRetryDelay
	}
	return min(baseDelay*time.Duration(1<<(attempt-1)), MaxRetryDelay)
}

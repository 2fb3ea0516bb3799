package claim

import "time"

// Conversion rates in basis points of a token per unit
const (
	BasisPoints = 10_000

	RateCoins     int64 = 10_000
	RateNickel    int64 = 1_000
	RateCopper    int64 = 2_000
	RateManganese int64 = 3_000
	RateCobalt    int64 = 5_000
)

// Defaults used when Config leaves a field zero
const (
	DefaultTTL            = 5 * time.Minute
	DefaultClockDrift     = 30 * time.Second
	DefaultReconcileGrace = time.Hour
	MaxIdempotencyKeySize = 128
)

// Log messages
const (
	LogMsgClaimIssued       = "Claim signature issued"
	LogMsgClaimReused       = "Returning existing claim for idempotency key"
	LogMsgClaimConfirmed    = "Claim confirmed"
	LogMsgClaimRejected     = "Claim request rejected"
	LogMsgDebitShortfall    = "Balance short of confirmed claim, debiting what is held"
	LogMsgPublishFailed     = "Failed to publish claim event"
	LogMsgConfirmIdempotent = "Claim already confirmed with the same reference"
)

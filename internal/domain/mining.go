package domain

import "time"

// FraudFlag marks a suspicious trait of a mining attempt
type FraudFlag string

const (
	FlagRapidSuccession FraudFlag = "rapid_succession"
	FlagDistanceAnomaly FraudFlag = "distance_anomaly"
	// FlagRateLimitEdge marks an attempt that used the wallet's last slot in
	// the admission window
	FlagRateLimitEdge FraudFlag = "rate_limit_edge"
)

// MiningRequest is what a client sends to harvest a node.
// ResourceType and Amount are hints; the node record is authoritative.
type MiningRequest struct {
	AttemptID    string   `json:"attemptId"`
	SessionID    string   `json:"sessionId"`
	Wallet       string   `json:"wallet"`
	NodeID       string   `json:"nodeId"`
	Position     Position `json:"position"`
	ResourceType string   `json:"resourceType,omitempty"`
	Amount       *int     `json:"amount,omitempty"`
}

// MiningResult is the response returned for a mining request. The serialized form
// is stored with the attempt so replays return identical bytes.
type MiningResult struct {
	Success        bool         `json:"success"`
	AttemptID      string       `json:"attemptId"`
	ResourceType   ResourceType `json:"resourceType,omitempty"`
	ResourceAmount int          `json:"resourceAmount,omitempty"`
	NewBalance     *int64       `json:"newBalance,omitempty"`
	Reason         ReasonCode   `json:"reason,omitempty"`
	NodeStatus     NodeStatus   `json:"nodeStatus,omitempty"`
	RespawnAt      *time.Time   `json:"respawnAt,omitempty"`
	RetryAfterMs   int64        `json:"retryAfterMs,omitempty"`
	Distance       *float64     `json:"distance,omitempty"`
	MaxRange       *float64     `json:"maxRange,omitempty"`
	Replayed       bool         `json:"-"`
}

// MiningCommand is the validated input to the mining transaction processor
type MiningCommand struct {
	AttemptID    string
	SessionID    string
	Wallet       string
	NodeID       string
	Position     Position
	ResourceType *ResourceType
	Distance     float64
	Flags        []FraudFlag // raised during admission
	ReceivedAt   time.Time   // admission time; rapid succession is judged from it
}

// MiningAttempt is the immutable audit record of a single attempt
type MiningAttempt struct {
	AttemptID      string       `json:"attempt_id"`
	PlayerID       *string      `json:"player_id,omitempty"`
	Wallet         string       `json:"wallet"`
	SessionID      string       `json:"session_id"`
	NodeID         string       `json:"node_id"`
	Position       Position     `json:"position"`
	DistanceToNode float64      `json:"distance_to_node"`
	Success        bool         `json:"success"`
	FailureReason  *ReasonCode  `json:"failure_reason,omitempty"`
	ResourceType   ResourceType `json:"resource_type,omitempty"`
	ResourceAmount int          `json:"resource_amount"`
	Flags          []FraudFlag  `json:"flags"`
	Outcome        []byte       `json:"outcome"`
	AttemptedAt    time.Time    `json:"attempted_at"`
}

// HasFlag reports whether the attempt carries f
func (a *MiningAttempt) HasFlag(f FraudFlag) bool {
	for _, flag := range a.Flags {
		if flag == f {
			return true
		}
	}
	return false
}

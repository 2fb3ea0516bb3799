package domain

// Event type constants published on the event bus.
//
// Event types follow the pattern: <entity>.<action> (e.g., "mining.succeeded")
const (
	// EventTypeMiningSucceeded is published after a mining transaction commits
	EventTypeMiningSucceeded = "mining.succeeded"

	// EventTypeMiningRejected is published for every failed mining attempt, admission included
	EventTypeMiningRejected = "mining.rejected"

	// EventTypeClaimIssued is published when a new claim signature is persisted
	EventTypeClaimIssued = "claim.issued"

	// EventTypeClaimConfirmed is published once settlement has been reconciled
	EventTypeClaimConfirmed = "claim.confirmed"

	// EventTypeNodesRespawned is published by the respawn sweep
	EventTypeNodesRespawned = "nodes.respawned"
)

package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Cleo-11/OceanX/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// Common event types
const (
	MiningSucceeded Type = domain.EventTypeMiningSucceeded
	MiningRejected  Type = domain.EventTypeMiningRejected
	ClaimIssued     Type = domain.EventTypeClaimIssued
	ClaimConfirmed  Type = domain.EventTypeClaimConfirmed
	NodesRespawned  Type = domain.EventTypeNodesRespawned
)

// MiningSucceededPayloadV1 is the typed payload for successful mining events
type MiningSucceededPayloadV1 struct {
	AttemptID      string   `json:"attempt_id"`
	PlayerID       string   `json:"player_id"`
	SessionID      string   `json:"session_id"`
	NodeID         string   `json:"node_id"`
	ResourceType   string   `json:"resource_type"`
	ResourceAmount int      `json:"resource_amount"`
	Flags          []string `json:"flags,omitempty"`
	Timestamp      int64    `json:"timestamp"`
}

// MiningRejectedPayloadV1 is the typed payload for rejected mining attempts
type MiningRejectedPayloadV1 struct {
	AttemptID string `json:"attempt_id"`
	Wallet    string `json:"wallet"`
	NodeID    string `json:"node_id"`
	Reason    string `json:"reason"`
	Timestamp int64  `json:"timestamp"`
}

// ClaimPayloadV1 is the typed payload for claim lifecycle events
type ClaimPayloadV1 struct {
	ClaimID     string `json:"claim_id"`
	Wallet      string `json:"wallet"`
	Amount      int64  `json:"amount"`
	Nonce       uint64 `json:"nonce"`
	TxReference string `json:"tx_reference,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}

// NodesRespawnedPayloadV1 is the typed payload for respawn sweeps
type NodesRespawnedPayloadV1 struct {
	Count     int64 `json:"count"`
	Timestamp int64 `json:"timestamp"`
}

// NewMiningSucceededEvent creates a new mining success event
func NewMiningSucceededEvent(attempt *domain.MiningAttempt) Event {
	playerID := ""
	if attempt.PlayerID != nil {
		playerID = *attempt.PlayerID
	}
	flags := make([]string, 0, len(attempt.Flags))
	for _, f := range attempt.Flags {
		flags = append(flags, string(f))
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    MiningSucceeded,
		Payload: MiningSucceededPayloadV1{
			AttemptID:      attempt.AttemptID,
			PlayerID:       playerID,
			SessionID:      attempt.SessionID,
			NodeID:         attempt.NodeID,
			ResourceType:   string(attempt.ResourceType),
			ResourceAmount: attempt.ResourceAmount,
			Flags:          flags,
			Timestamp:      attempt.AttemptedAt.Unix(),
		},
	}
}

// NewMiningRejectedEvent creates a new mining rejection event
func NewMiningRejectedEvent(attemptID, wallet, nodeID string, reason domain.ReasonCode) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    MiningRejected,
		Payload: MiningRejectedPayloadV1{
			AttemptID: attemptID,
			Wallet:    wallet,
			NodeID:    nodeID,
			Reason:    string(reason),
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewClaimEvent creates a claim lifecycle event of the given type
func NewClaimEvent(t Type, claim *domain.ClaimSignature) Event {
	txRef := ""
	if claim.TxReference != nil {
		txRef = *claim.TxReference
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: ClaimPayloadV1{
			ClaimID:     claim.ClaimID,
			Wallet:      claim.Wallet,
			Amount:      claim.Amount,
			Nonce:       claim.Nonce,
			TxReference: txRef,
			Timestamp:   time.Now().Unix(),
		},
	}
}

// NewNodesRespawnedEvent creates a new respawn sweep event
func NewNodesRespawnedEvent(count int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    NodesRespawned,
		Payload: NodesRespawnedPayloadV1{
			Count:     count,
			Timestamp: time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	// Handlers run synchronously on the publishing goroutine.
	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(ErrMsgHandlerFailuresFormat, len(errs), event.Type, errors.Join(errs...))
	}
	return nil
}

// Subscribe registers a handler for an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

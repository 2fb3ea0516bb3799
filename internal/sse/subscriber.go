package sse

import (
	"context"
	"log/slog"

	"github.com/Cleo-11/OceanX/internal/event"
)

// Subscriber bridges the internal event bus to the hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new Subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe registers handlers for the world events clients care about
func (s *Subscriber) Subscribe() {
	s.bus.Subscribe(event.MiningSucceeded, s.handleMiningSucceeded)
	s.bus.Subscribe(event.NodesRespawned, s.handleNodesRespawned)
	s.bus.Subscribe(event.ClaimIssued, s.handleClaim(EventTypeClaimIssued))
	s.bus.Subscribe(event.ClaimConfirmed, s.handleClaim(EventTypeClaimConfirmed))

	slog.Info(LogMsgSubscriberReady,
		"types", []string{
			string(event.MiningSucceeded),
			string(event.NodesRespawned),
			string(event.ClaimIssued),
			string(event.ClaimConfirmed),
		})
}

func (s *Subscriber) handleMiningSucceeded(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.MiningSucceededPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgBadPayload, "event_type", evt.Type, "error", err)
		return nil
	}

	s.hub.Broadcast(EventTypeNodeDepleted, p.SessionID, NodeDepletedPayload{
		SessionID:    p.SessionID,
		NodeID:       p.NodeID,
		ResourceType: p.ResourceType,
		PlayerID:     p.PlayerID,
	})
	slog.Debug(LogMsgEventBroadcast, "event_type", EventTypeNodeDepleted, "session_id", p.SessionID, "node_id", p.NodeID)
	return nil
}

func (s *Subscriber) handleNodesRespawned(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.NodesRespawnedPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgBadPayload, "event_type", evt.Type, "error", err)
		return nil
	}

	s.hub.Broadcast(EventTypeNodesRespawned, "", NodesRespawnedPayload{Count: p.Count})
	return nil
}

func (s *Subscriber) handleClaim(sseType string) event.Handler {
	return func(_ context.Context, evt event.Event) error {
		p, err := event.DecodePayload[event.ClaimPayloadV1](evt.Payload)
		if err != nil {
			slog.Warn(LogMsgBadPayload, "event_type", evt.Type, "error", err)
			return nil
		}

		s.hub.Broadcast(sseType, "", ClaimPayload{
			ClaimID:     p.ClaimID,
			Wallet:      p.Wallet,
			Amount:      p.Amount,
			Nonce:       p.Nonce,
			TxReference: p.TxReference,
		})
		return nil
	}
}

package metrics

import (
	"context"

	"github.com/Cleo-11/OceanX/internal/event"
	"github.com/Cleo-11/OceanX/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.MiningSucceeded,
		event.MiningRejected,
		event.ClaimIssued,
		event.ClaimConfirmed,
		event.NodesRespawned,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.MiningSucceeded:
		var p event.MiningSucceededPayloadV1
		if p, err = event.DecodePayload[event.MiningSucceededPayloadV1](evt.Payload); err == nil {
			MiningAttempts.WithLabelValues(OutcomeSuccess, "").Inc()
			ResourcesMined.WithLabelValues(p.ResourceType).Add(float64(p.ResourceAmount))
			for _, flag := range p.Flags {
				FraudFlags.WithLabelValues(flag).Inc()
			}
		}

	case event.MiningRejected:
		var p event.MiningRejectedPayloadV1
		if p, err = event.DecodePayload[event.MiningRejectedPayloadV1](evt.Payload); err == nil {
			MiningAttempts.WithLabelValues(OutcomeRejected, p.Reason).Inc()
		}

	case event.ClaimIssued:
		var p event.ClaimPayloadV1
		if p, err = event.DecodePayload[event.ClaimPayloadV1](evt.Payload); err == nil {
			ClaimsIssued.Inc()
			ClaimTokensIssued.Add(float64(p.Amount))
		}

	case event.ClaimConfirmed:
		var p event.ClaimPayloadV1
		if p, err = event.DecodePayload[event.ClaimPayloadV1](evt.Payload); err == nil {
			ClaimsConfirmed.Inc()
			ClaimTokensSettled.Add(float64(p.Amount))
		}

	case event.NodesRespawned:
		var p event.NodesRespawnedPayloadV1
		if p, err = event.DecodePayload[event.NodesRespawnedPayloadV1](evt.Payload); err == nil {
			NodesRespawned.Add(float64(p.Count))
		}
	}

	if err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

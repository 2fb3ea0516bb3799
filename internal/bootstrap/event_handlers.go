package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/Cleo-11/OceanX/internal/event"
	"github.com/Cleo-11/OceanX/internal/eventlog"
	"github.com/Cleo-11/OceanX/internal/metrics"
	"github.com/Cleo-11/OceanX/internal/sse"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus event.Bus
	Journal  eventlog.Service
	Hub      *sse.Hub
}

// RegisterEventHandlers sets up all bus subscribers:
// - Metrics collector (event counters)
// - Economy journal (claims, respawns, flagged mining)
// - Stream bridge (fans world events out to /events and websocket clients)
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	if err := metrics.NewEventMetricsCollector().Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	if deps.Journal != nil {
		if err := deps.Journal.Subscribe(deps.EventBus); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedSubscribeJournal, err)
		}
		slog.Info(LogMsgJournalSubscribed)
	}

	if deps.Hub != nil {
		sse.NewSubscriber(deps.Hub, deps.EventBus).Subscribe()
		slog.Info(LogMsgStreamBridgeSubscribed)
	}

	return nil
}

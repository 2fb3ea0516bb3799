package bootstrap

import (
	"context"
	"log/slog"

	"github.com/Cleo-11/OceanX/internal/event"
	"github.com/Cleo-11/OceanX/internal/scheduler"
	"github.com/Cleo-11/OceanX/internal/server"
	"github.com/Cleo-11/OceanX/internal/sse"
	"github.com/Cleo-11/OceanX/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	Workers            *worker.Pool
	Hub                *sse.Hub
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown stops components in order:
//  1. HTTP server (stop accepting requests; /ws and /events clients are hijacked
//     or streaming and end when the hub closes their channels)
//  2. Scheduler, then the worker pool (finish an in-flight sweep)
//  3. Event hub (close subscriber channels)
//  4. Event publisher (flush pending retries to the dead-letter file)
//
// Errors during shutdown are logged but do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}
	if components.Workers != nil {
		components.Workers.Stop()
	}
	slog.Info(LogMsgBackgroundJobsStopped)

	if components.Hub != nil {
		components.Hub.Stop()
	}

	if components.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}

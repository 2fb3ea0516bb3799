package worker

import (
	"context"
	"fmt"

	"github.com/Cleo-11/OceanX/internal/logger"
)

// Sweeper returns every node whose respawn time has passed to available
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// RespawnJob runs one reclaim sweep. Nodes are also reclaimed lazily when they
// are touched, so a missed sweep only delays what idle clients see.
type RespawnJob struct {
	sweeper Sweeper
}

// NewRespawnJob creates a sweep job
func NewRespawnJob(sweeper Sweeper) *RespawnJob {
	return &RespawnJob{sweeper: sweeper}
}

// Process implements Job
func (j *RespawnJob) Process(ctx context.Context) error {
	count, err := j.sweeper.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", LogMsgRespawnSweepFailed, err)
	}
	if count > 0 {
		logger.FromContext(ctx).Info(LogMsgRespawnSweepCompleted, "nodes", count)
	}
	return nil
}

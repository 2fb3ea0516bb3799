package eventlog

import (
	"context"
	"fmt"
	"time"

	"github.com/Cleo-11/OceanX/internal/logger"
	"github.com/Cleo-11/OceanX/internal/worker"
)

// NewCleanupJob prunes journal rows older than retentionDays on each run.
// Non-positive retention uses DefaultRetentionDays.
func NewCleanupJob(svc Service, retentionDays int) worker.JobFunc {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return func(ctx context.Context) error {
		start := time.Now()
		deleted, err := svc.CleanupOldEvents(ctx, retentionDays)
		if err != nil {
			return fmt.Errorf("%s: %w", LogMsgCleanupJobFailed, err)
		}
		logger.FromContext(ctx).Info(LogMsgCleanupJobCompleted,
			"deleted", deleted,
			"retention_days", retentionDays,
			"took", time.Since(start))
		return nil
	}
}

package worker

import "time"

// DefaultJobTimeout bounds a single job run
const DefaultJobTimeout = 30 * time.Second

const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobPanicked = "Worker job panicked"

	LogMsgRespawnSweepCompleted = "Respawn sweep completed"
	LogMsgRespawnSweepFailed    = "Respawn sweep failed"
)

package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0644
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of older log files kept when a new one is opened
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingOceanX      = "Starting OceanX"
	LogMsgConfigurationLoaded = "Configuration loaded"
	ErrMsgFailedCreateLogsDir = "failed to create logs directory"
	ErrMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	// EventDefaultMaxRetries is the number of retry attempts for failed event publishing
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the base delay between retry attempts (exponential backoff)
	EventDefaultRetryDelay = 2 * time.Second

	// EventDefaultDeadLetterPath is used when no dead-letter path is configured
	EventDefaultDeadLetterPath = "logs/event_deadletter.jsonl"
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	ErrMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	ErrMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// =============================================================================
// Event Handler Configuration
// =============================================================================

const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgJournalSubscribed          = "Economy journal subscribed"
	LogMsgStreamBridgeSubscribed     = "Event stream bridge subscribed"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
	ErrMsgFailedSubscribeJournal     = "failed to subscribe economy journal"
)

// =============================================================================
// Layout Seeding
// =============================================================================

const (
	LogMsgSeedingLayouts     = "Seeding session layouts..."
	LogMsgLayoutSeeded       = "Session layout seeded"
	LogMsgNoLayoutDir        = "No node layout directory configured, skipping seed"
	ErrMsgFailedLoadLayouts  = "failed to load session layouts"
	ErrMsgFailedSeedLayout   = "failed to seed session layout"
	ErrMsgFailedLayoutLoader = "failed to compile layout schema"
)

// =============================================================================
// Application Wiring
// =============================================================================

const (
	// JournalCleanupInterval is how often expired journal entries are pruned
	JournalCleanupInterval = 24 * time.Hour

	// WorkerQueueSize bounds the background job queue
	WorkerQueueSize = 16

	// MigrationTimeout bounds startup schema migration
	MigrationTimeout = 2 * time.Minute

	// RedisPingTimeout bounds the startup connectivity check for the shared store
	RedisPingTimeout = 5 * time.Second
)

const (
	JobNameRespawnSweep   = "respawn_sweep"
	JobNameJournalCleanup = "journal_cleanup"
)

const (
	LogMsgDatabaseConnected     = "Database connected"
	LogMsgMigrationsApplied     = "Database migrations applied"
	LogMsgAdmissionStoreRedis   = "Admission counters backed by redis"
	LogMsgAdmissionStoreMemory  = "Admission counters held in memory"
	LogMsgClaimSignerReady      = "Claim signer ready"
	LogMsgBackgroundJobsStarted = "Background jobs scheduled"

	ErrMsgFailedConnectDatabase = "failed to connect to database"
	ErrMsgFailedMigrate         = "failed to apply migrations"
	ErrMsgFailedConnectRedis    = "failed to connect to redis"
	ErrMsgFailedPositionCache   = "failed to create node position cache"
	ErrMsgFailedCreateSigner    = "failed to create claim signer"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgBackgroundJobsStopped      = "Background jobs stopped"
	LogMsgRedisCloseFailed           = "Redis client close failed"
)

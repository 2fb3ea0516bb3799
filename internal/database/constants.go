package database

// DefaultMinConnections is kept open even when idle
const DefaultMinConnections int32 = 2

const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToLoadMigrations  = "failed to load migrations"
	ErrMsgFailedToApplyMigrations = "failed to apply migrations"
)

const (
	LogMsgConnectedToDatabase = "Connected to database"
	LogMsgAppliedMigration    = "Applied migration"
)

package repository

import (
	"context"
	"time"

	"github.com/Cleo-11/OceanX/internal/domain"
)

// AuditLog is the append-only record of mining attempts keyed by attempt id
type AuditLog interface {
	// GetAttempt returns the recorded attempt or domain.ErrAttemptNotFound
	GetAttempt(ctx context.Context, attemptID string) (*domain.MiningAttempt, error)

	// RecordAttempt inserts the attempt if its id is unseen. It reports whether a row was written.
	RecordAttempt(ctx context.Context, attempt *domain.MiningAttempt) (bool, error)

	// LastAttemptAt returns the time of the wallet's most recent attempt, nil when none
	LastAttemptAt(ctx context.Context, wallet string) (*time.Time, error)

	// ListFlaggedAttempts returns the most recent attempts carrying any fraud flag
	ListFlaggedAttempts(ctx context.Context, limit int) ([]domain.MiningAttempt, error)
}

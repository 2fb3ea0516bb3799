package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Cleo-11/OceanX/internal/logger"
)

// SafeRollback is deferred after Begin. Rolling back a committed transaction
// is a no-op; any other failure is logged with the request id.
func SafeRollback(ctx context.Context, tx Tx) {
	err := tx.Rollback(ctx)
	if err == nil || errors.Is(err, pgx.ErrTxClosed) {
		return
	}
	logger.FromContext(ctx).Error("Transaction rollback failed", "error", err)
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Cleo-11/OceanX/internal/domain"
)

// AuditRepository implements repository.AuditLog for PostgreSQL
type AuditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository creates a new audit log repository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// GetAttempt retrieves a recorded attempt by id
func (r *AuditRepository) GetAttempt(ctx context.Context, attemptID string) (*domain.MiningAttempt, error) {
	a, err := scanAttempt(r.db.QueryRow(ctx, queryGetAttempt, attemptID))
	if err != nil {
		if errors.Is(err, domain.ErrAttemptNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	return a, nil
}

// RecordAttempt appends an attempt outside any mining transaction; existing ids are left as they are
func (r *AuditRepository) RecordAttempt(ctx context.Context, attempt *domain.MiningAttempt) (bool, error) {
	args, err := attemptArgs(attempt)
	if err != nil {
		return false, err
	}
	tag, err := r.db.Exec(ctx, queryRecordAttempt, args...)
	if err != nil {
		return false, fmt.Errorf("failed to record attempt: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// LastAttemptAt returns when the wallet last attempted to mine
func (r *AuditRepository) LastAttemptAt(ctx context.Context, wallet string) (*time.Time, error) {
	var at time.Time
	err := r.db.QueryRow(ctx, queryLastAttemptAt, wallet).Scan(&at)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last attempt: %w", err)
	}
	return &at, nil
}

// ListFlaggedAttempts returns recent attempts carrying fraud flags, newest first
func (r *AuditRepository) ListFlaggedAttempts(ctx context.Context, limit int) ([]domain.MiningAttempt, error) {
	rows, err := r.db.Query(ctx, queryListFlaggedAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list flagged attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.MiningAttempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

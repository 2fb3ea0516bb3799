package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Cleo-11/OceanX/internal/eventlog"
)

type eventLogRepository struct {
	db *pgxpool.Pool
}

// NewEventLogRepository creates a new PostgreSQL journal repository
func NewEventLogRepository(db *pgxpool.Pool) eventlog.Repository {
	return &eventLogRepository{db: db}
}

// LogEvent appends an entry to the journal
func (r *eventLogRepository) LogEvent(ctx context.Context, eventType string, subjectID *string, payload, metadata map[string]interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	var metadataJSON []byte
	if metadata != nil {
		if metadataJSON, err = json.Marshal(metadata); err != nil {
			return fmt.Errorf("failed to encode metadata: %w", err)
		}
	}

	if _, err = r.db.Exec(ctx, queryLogEvent, eventType, subjectID, payloadJSON, metadataJSON); err != nil {
		return fmt.Errorf("failed to log event: %w", err)
	}
	return nil
}

// GetEvents retrieves entries matching the filter, newest first
func (r *eventLogRepository) GetEvents(ctx context.Context, filter eventlog.Filter) ([]eventlog.Entry, error) {
	var qb strings.Builder
	qb.WriteString(querySelectEvents)

	args := []interface{}{}
	argNum := 1

	if filter.SubjectID != nil {
		fmt.Fprintf(&qb, " AND subject_id = $%d", argNum)
		args = append(args, *filter.SubjectID)
		argNum++
	}
	if filter.EventType != nil {
		fmt.Fprintf(&qb, " AND event_type = $%d", argNum)
		args = append(args, *filter.EventType)
		argNum++
	}
	if filter.Since != nil {
		fmt.Fprintf(&qb, " AND created_at >= $%d", argNum)
		args = append(args, *filter.Since)
		argNum++
	}

	qb.WriteString(" ORDER BY created_at DESC, id DESC")

	if filter.Limit > 0 {
		fmt.Fprintf(&qb, " LIMIT $%d", argNum)
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// CleanupOldEvents removes entries older than retentionDays
func (r *eventLogRepository) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	result, err := r.db.Exec(ctx, queryCleanupEvents, retentionDays)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up events: %w", err)
	}
	return result.RowsAffected(), nil
}

func scanEvents(rows pgx.Rows) ([]eventlog.Entry, error) {
	var entries []eventlog.Entry

	for rows.Next() {
		var e eventlog.Entry
		var payloadJSON, metadataJSON []byte

		if err := rows.Scan(&e.ID, &e.EventType, &e.SubjectID, &payloadJSON, &metadataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payloadJSON, &e.Payload); err != nil {
			return nil, err
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &e.Metadata); err != nil {
				return nil, err
			}
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

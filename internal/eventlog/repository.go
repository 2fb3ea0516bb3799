package eventlog

import (
	"context"
	"time"
)

// Entry is one journaled economy event
type Entry struct {
	ID        int64                  `json:"id"`
	EventType string                 `json:"eventType"`
	SubjectID *string                `json:"subjectId,omitempty"`
	Payload   map[string]interface{} `json:"payload"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// Filter narrows journal queries
type Filter struct {
	SubjectID *string
	EventType *string
	Since     *time.Time
	Limit     int
}

// Repository stores journal entries
type Repository interface {
	// LogEvent appends an entry
	LogEvent(ctx context.Context, eventType string, subjectID *string, payload, metadata map[string]interface{}) error

	// GetEvents returns entries matching filter, newest first
	GetEvents(ctx context.Context, filter Filter) ([]Entry, error)

	// CleanupOldEvents removes entries older than retentionDays
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}

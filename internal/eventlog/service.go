// Package eventlog journals economy events (claims, respawn sweeps, flagged
// mining) so operators can review them after the fact.
package eventlog

import (
	"context"
	"encoding/json"

	"github.com/Cleo-11/OceanX/internal/event"
	"github.com/Cleo-11/OceanX/internal/logger"
)

// MaxQueryLimit caps GetEvents page size
const MaxQueryLimit = 500

// Service handles journaling
type Service interface {
	// Subscribe registers the journal on the bus
	Subscribe(bus event.Bus) error

	// Query returns journal entries matching filter
	Query(ctx context.Context, filter Filter) ([]Entry, error)

	// CleanupOldEvents removes entries older than the retention period
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}

type service struct {
	repo Repository
}

// NewService creates a new journal service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// JournaledTypes are the event types written to the journal. Clean mining
// successes are already in the attempt audit log and are skipped.
var JournaledTypes = []event.Type{
	event.ClaimIssued,
	event.ClaimConfirmed,
	event.NodesRespawned,
	event.MiningSucceeded,
}

func (s *service) Subscribe(bus event.Bus) error {
	for _, eventType := range JournaledTypes {
		bus.Subscribe(eventType, s.handleEvent)
	}
	return nil
}

func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, ok := toObject(evt.Payload)
	if !ok {
		log.Debug(LogMsgPayloadNotObject, "type", evt.Type)
		return nil
	}

	if evt.Type == event.MiningSucceeded {
		if flags, _ := payload[PayloadKeyFlags].([]interface{}); len(flags) == 0 {
			return nil
		}
	}

	var subjectID *string
	for _, key := range []string{PayloadKeyWallet, PayloadKeyPlayerID} {
		if v, ok := payload[key].(string); ok && v != "" {
			subjectID = &v
			break
		}
	}

	metadata, _ := toObject(evt.Metadata)
	if err := s.repo.LogEvent(ctx, string(evt.Type), subjectID, payload, metadata); err != nil {
		log.Error(LogMsgFailedToLogEvent, "error", err, "type", evt.Type)
		return err
	}

	log.Debug(LogMsgEventLogged, "type", evt.Type)
	return nil
}

func (s *service) Query(ctx context.Context, filter Filter) ([]Entry, error) {
	if filter.Limit <= 0 || filter.Limit > MaxQueryLimit {
		filter.Limit = MaxQueryLimit
	}
	return s.repo.GetEvents(ctx, filter)
}

func (s *service) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	return s.repo.CleanupOldEvents(ctx, retentionDays)
}

// toObject turns a typed payload into a JSON object map
func toObject(v interface{}) (map[string]interface{}, bool) {
	if v == nil {
		return nil, false
	}
	if m, ok := v.(map[string]interface{}); ok {
		return m, true
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false
	}
	return m, true
}

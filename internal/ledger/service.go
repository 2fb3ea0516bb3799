package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/event"
	"github.com/Cleo-11/OceanX/internal/logger"
	"github.com/Cleo-11/OceanX/internal/repository"
)

// Service runs the storage-backed side of the node lifecycle: lazy reclaim on
// read and the periodic respawn sweep.
type Service struct {
	repo repository.NodeRepository
	bus  event.Bus
	now  func() time.Time
}

// NewService creates a ledger service. bus may be nil.
func NewService(repo repository.NodeRepository, bus event.Bus) *Service {
	return &Service{
		repo: repo,
		bus:  bus,
		now:  time.Now,
	}
}

// ReclaimIfDue returns the node to available when its respawn time has passed
func (s *Service) ReclaimIfDue(ctx context.Context, sessionID, nodeID string) (bool, error) {
	reclaimed, err := s.repo.ReclaimNode(ctx, sessionID, nodeID, s.now())
	if err != nil {
		return false, err
	}
	if reclaimed {
		logger.FromContext(ctx).Debug("Node reclaimed on read", "session_id", sessionID, "node_id", nodeID)
	}
	return reclaimed, nil
}

// SessionNodes lists a session's nodes, reclaiming any that are due first
func (s *Service) SessionNodes(ctx context.Context, sessionID string) ([]domain.ResourceNode, error) {
	nodes, err := s.repo.ListSessionNodes(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range nodes {
		if !IsDue(&nodes[i], now) {
			continue
		}
		ok, err := s.repo.ReclaimNode(ctx, sessionID, nodes[i].NodeID, now)
		if err != nil {
			return nil, err
		}
		if ok {
			ReclaimIfDue(&nodes[i], now)
		}
	}
	return nodes, nil
}

// SeedSession upserts a node layout for a session
func (s *Service) SeedSession(ctx context.Context, nodes []domain.ResourceNode) error {
	for i := range nodes {
		if !nodes[i].ResourceType.Valid() {
			return fmt.Errorf("%w: node %s", domain.ErrInvalidResourceType, nodes[i].Key())
		}
		if err := s.repo.UpsertNode(ctx, &nodes[i]); err != nil {
			return err
		}
	}
	return nil
}

// Sweep returns every due node to available
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	count, err := s.repo.ReclaimDueNodes(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.FromContext(ctx).Info("Respawned nodes", "count", count)
		if s.bus != nil {
			if err := s.bus.Publish(ctx, event.NewNodesRespawnedEvent(count)); err != nil {
				logger.FromContext(ctx).Warn("Failed to publish respawn event", "error", err)
			}
		}
	}
	return count, nil
}

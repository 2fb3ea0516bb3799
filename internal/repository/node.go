package repository

import (
	"context"
	"time"

	"github.com/Cleo-11/OceanX/internal/domain"
)

// NodeRepository handles resource node persistence outside the mining transaction
type NodeRepository interface {
	// GetNode returns the node or domain.ErrNodeNotFound
	GetNode(ctx context.Context, sessionID, nodeID string) (*domain.ResourceNode, error)

	// ListSessionNodes returns every node of a session ordered by node id
	ListSessionNodes(ctx context.Context, sessionID string) ([]domain.ResourceNode, error)

	// UpsertNode seeds or replaces a node definition
	UpsertNode(ctx context.Context, node *domain.ResourceNode) error

	// ReclaimNode returns a single node to available if its respawn time has passed
	ReclaimNode(ctx context.Context, sessionID, nodeID string, now time.Time) (bool, error)

	// ReclaimDueNodes returns every node whose respawn time has passed to available
	ReclaimDueNodes(ctx context.Context, now time.Time) (int64, error)
}

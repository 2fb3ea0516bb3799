package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Cleo-11/OceanX/internal/domain"
)

// NodeRepository implements repository.NodeRepository for PostgreSQL
type NodeRepository struct {
	db *pgxpool.Pool
}

// NewNodeRepository creates a new node repository
func NewNodeRepository(db *pgxpool.Pool) *NodeRepository {
	return &NodeRepository{db: db}
}

// GetNode retrieves a node without locking it
func (r *NodeRepository) GetNode(ctx context.Context, sessionID, nodeID string) (*domain.ResourceNode, error) {
	n, err := scanNode(r.db.QueryRow(ctx, queryGetNode, sessionID, nodeID))
	if err != nil {
		if errors.Is(err, domain.ErrNodeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get node: %w", err)
	}
	return n, nil
}

// ListSessionNodes retrieves every node of a session
func (r *NodeRepository) ListSessionNodes(ctx context.Context, sessionID string) ([]domain.ResourceNode, error) {
	rows, err := r.db.Query(ctx, queryListSessionNodes, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session nodes: %w", err)
	}
	defer rows.Close()

	var nodes []domain.ResourceNode
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		nodes = append(nodes, *n)
	}
	return nodes, rows.Err()
}

// UpsertNode seeds a node definition. Live state (status, claim, respawn) and position are left untouched on conflict.
func (r *NodeRepository) UpsertNode(ctx context.Context, node *domain.ResourceNode) error {
	status := node.Status
	if status == "" {
		status = domain.NodeAvailable
	}
	rarity := node.Rarity
	if rarity == "" {
		rarity = domain.RarityCommon
	}
	_, err := r.db.Exec(ctx, queryUpsertNode,
		node.SessionID, node.NodeID, string(node.ResourceType), node.ResourceAmount,
		node.Position.X, node.Position.Y, node.Position.Z,
		string(status), node.RespawnDelaySeconds, string(rarity),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert node %s: %w", node.Key(), err)
	}
	return nil
}

// ReclaimNode returns a depleted node to available once its respawn time has passed
func (r *NodeRepository) ReclaimNode(ctx context.Context, sessionID, nodeID string, now time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, queryReclaimNode, sessionID, nodeID, now)
	if err != nil {
		return false, fmt.Errorf("failed to reclaim node: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ReclaimDueNodes returns all due nodes to available, skipping rows locked by in-flight mining
func (r *NodeRepository) ReclaimDueNodes(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, queryReclaimDueNodes, now)
	if err != nil {
		return 0, fmt.Errorf("failed to reclaim due nodes: %w", err)
	}
	return tag.RowsAffected(), nil
}

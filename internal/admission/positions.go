package admission

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/repository"
)

// NodePositions resolves node positions through an LRU cache. Reseeding a
// session never moves an existing node, so entries never go stale.
type NodePositions struct {
	repo  repository.NodeRepository
	cache *lru.Cache[domain.NodeKey, domain.Position]
}

// NewNodePositions creates a position cache holding up to size nodes
func NewNodePositions(repo repository.NodeRepository, size int) (*NodePositions, error) {
	if size <= 0 {
		size = DefaultPositionCacheSize
	}
	cache, err := lru.New[domain.NodeKey, domain.Position](size)
	if err != nil {
		return nil, err
	}
	return &NodePositions{repo: repo, cache: cache}, nil
}

// Position returns the node's position or domain.ErrNodeNotFound
func (p *NodePositions) Position(ctx context.Context, sessionID, nodeID string) (domain.Position, error) {
	key := domain.NodeKey{SessionID: sessionID, NodeID: nodeID}
	if pos, ok := p.cache.Get(key); ok {
		return pos, nil
	}

	node, err := p.repo.GetNode(ctx, sessionID, nodeID)
	if err != nil {
		return domain.Position{}, err
	}
	p.cache.Add(key, node.Position)
	return node.Position, nil
}

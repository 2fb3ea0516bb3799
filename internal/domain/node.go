package domain

import (
	"math"
	"time"
)

// NodeStatus is the lifecycle state of a resource node
type NodeStatus string

const (
	NodeAvailable  NodeStatus = "available"
	NodeClaimed    NodeStatus = "claimed"
	NodeDepleted   NodeStatus = "depleted"
	NodeRespawning NodeStatus = "respawning"
)

// Position is a point in world space
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DistanceTo returns the euclidean distance between two points
func (p Position) DistanceTo(o Position) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	dz := p.Z - o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// IsFinite rejects NaN and infinite coordinates sent by broken or hostile clients
func (p Position) IsFinite() bool {
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ResourceNode is a finite-yield extraction point inside a game session
type ResourceNode struct {
	SessionID           string       `json:"session_id"`
	NodeID              string       `json:"node_id"`
	ResourceType        ResourceType `json:"resource_type"`
	ResourceAmount      int          `json:"resource_amount"`
	Position            Position     `json:"position"`
	Status              NodeStatus   `json:"status"`
	ClaimedBy           *string      `json:"claimed_by,omitempty"`
	ClaimedAt           *time.Time   `json:"claimed_at,omitempty"`
	RespawnAt           *time.Time   `json:"respawn_at,omitempty"`
	RespawnDelaySeconds int          `json:"respawn_delay_seconds"`
	Rarity              Rarity       `json:"rarity"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// NodeKey identifies a node across sessions
type NodeKey struct {
	SessionID string
	NodeID    string
}

func (n *ResourceNode) Key() NodeKey {
	return NodeKey{SessionID: n.SessionID, NodeID: n.NodeID}
}

func (k NodeKey) String() string {
	return k.SessionID + "/" + k.NodeID
}

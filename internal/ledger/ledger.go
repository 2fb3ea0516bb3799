// Package ledger owns the resource node lifecycle:
//
//	available -> claimed -> depleted -> available
//
// The transition functions are pure and only mutate the node passed in. Callers
// are responsible for holding the row lock while applying them.
package ledger

import (
	"fmt"
	"time"

	"github.com/Cleo-11/OceanX/internal/domain"
)

// TryClaim moves an available node to claimed by playerID. It reports whether the
// claim happened and the status the node had before the call.
func TryClaim(node *domain.ResourceNode, playerID string, now time.Time) (bool, domain.NodeStatus) {
	previous := node.Status
	if previous != domain.NodeAvailable {
		return false, previous
	}
	claimedAt := now
	node.Status = domain.NodeClaimed
	node.ClaimedBy = &playerID
	node.ClaimedAt = &claimedAt
	node.RespawnAt = nil
	return true, previous
}

// ScheduleRespawn depletes a claimed node and sets its respawn time
func ScheduleRespawn(node *domain.ResourceNode, delay time.Duration, now time.Time) error {
	if node.Status != domain.NodeClaimed {
		return fmt.Errorf("%w: cannot deplete node %s in status %s", domain.ErrNodeUnavailable, node.Key(), node.Status)
	}
	respawnAt := now.Add(delay)
	node.Status = domain.NodeDepleted
	node.RespawnAt = &respawnAt
	return nil
}

// RespawnDelay is the node's configured delay as a duration
func RespawnDelay(node *domain.ResourceNode) time.Duration {
	return time.Duration(node.RespawnDelaySeconds) * time.Second
}

// IsDue reports whether a depleted or respawning node may return to available at now
func IsDue(node *domain.ResourceNode, now time.Time) bool {
	if node.Status != domain.NodeDepleted && node.Status != domain.NodeRespawning {
		return false
	}
	return node.RespawnAt != nil && !node.RespawnAt.After(now)
}

// ReclaimIfDue returns a due node to available and clears its claim
func ReclaimIfDue(node *domain.ResourceNode, now time.Time) bool {
	if !IsDue(node, now) {
		return false
	}
	node.Status = domain.NodeAvailable
	node.ClaimedBy = nil
	node.ClaimedAt = nil
	node.RespawnAt = nil
	return true
}

// Harvest applies claim then deplete in one step, the only path the mining
// processor uses. On failure the node is left unchanged.
func Harvest(node *domain.ResourceNode, playerID string, now time.Time) (domain.NodeStatus, error) {
	snapshot := *node
	ok, previous := TryClaim(node, playerID, now)
	if !ok {
		return previous, domain.Reject(domain.ReasonNodeUnavailable, "nodeStatus", previous)
	}
	if err := ScheduleRespawn(node, RespawnDelay(node), now); err != nil {
		*node = snapshot
		return previous, err
	}
	return previous, nil
}

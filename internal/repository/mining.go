package repository

import (
	"context"

	"github.com/Cleo-11/OceanX/internal/domain"
)

// MiningRepository is the storage boundary of the mining transaction processor
type MiningRepository interface {
	AuditLog

	// Transaction support
	BeginTx(ctx context.Context) (MiningTx, error)
}

// MiningTx is one all-or-nothing mining transaction. Callers lock the player
// before the node on every path.
type MiningTx interface {
	Tx

	// GetPlayerForUpdate locks the player row (FOR UPDATE); domain.ErrPlayerNotFound when absent
	GetPlayerForUpdate(ctx context.Context, wallet string) (*domain.Player, error)

	// GetNodeForUpdateNoWait locks the node row without waiting (FOR UPDATE NOWAIT).
	// A held lock yields domain.ErrConcurrentClaim; a missing node domain.ErrNodeNotFound.
	GetNodeForUpdateNoWait(ctx context.Context, sessionID, nodeID string) (*domain.ResourceNode, error)

	// UpdateNodeState persists status, claim and respawn fields of a locked node
	UpdateNodeState(ctx context.Context, node *domain.ResourceNode) error

	// CreditResource adds amount to one resource balance and the mined counter, returning the new balance
	CreditResource(ctx context.Context, playerID string, rt domain.ResourceType, amount int) (int64, error)

	// InsertAttempt appends the audit row; domain.ErrDuplicateAttempt when the id already exists
	InsertAttempt(ctx context.Context, attempt *domain.MiningAttempt) error
}

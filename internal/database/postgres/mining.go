package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/repository"
)

// MiningRepository implements repository.MiningRepository for PostgreSQL
type MiningRepository struct {
	*AuditRepository
	db *pgxpool.Pool
}

// NewMiningRepository creates a new mining repository
func NewMiningRepository(db *pgxpool.Pool) *MiningRepository {
	return &MiningRepository{
		AuditRepository: NewAuditRepository(db),
		db:              db,
	}
}

// BeginTx starts a transaction and returns a MiningTx
func (r *MiningRepository) BeginTx(ctx context.Context) (repository.MiningTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginMiningTx, err)
	}
	return &miningTx{tx: tx}, nil
}

// miningTx implements repository.MiningTx
type miningTx struct {
	tx pgx.Tx
}

// Commit commits the transaction
func (t *miningTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *miningTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// GetPlayerForUpdate locks the player row
func (t *miningTx) GetPlayerForUpdate(ctx context.Context, wallet string) (*domain.Player, error) {
	p, err := scanPlayer(t.tx.QueryRow(ctx, queryGetPlayerForUpdate, wallet))
	if err != nil {
		if errors.Is(err, domain.ErrPlayerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to lock player: %w", err)
	}
	return p, nil
}

// GetNodeForUpdateNoWait locks the node row or fails immediately when another transaction holds it
func (t *miningTx) GetNodeForUpdateNoWait(ctx context.Context, sessionID, nodeID string) (*domain.ResourceNode, error) {
	n, err := scanNode(t.tx.QueryRow(ctx, queryGetNodeForUpdateNoWait, sessionID, nodeID))
	if err != nil {
		if isLockNotAvailable(err) {
			return nil, domain.ErrConcurrentClaim
		}
		if errors.Is(err, domain.ErrNodeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to lock node: %w", err)
	}
	return n, nil
}

// UpdateNodeState writes the lifecycle fields of a locked node
func (t *miningTx) UpdateNodeState(ctx context.Context, node *domain.ResourceNode) error {
	claimedBy, err := optionalUUID("player", node.ClaimedBy)
	if err != nil {
		return err
	}
	_, err = t.tx.Exec(ctx, queryUpdateNodeState,
		node.SessionID, node.NodeID, string(node.Status), claimedBy, node.ClaimedAt, node.RespawnAt)
	if err != nil {
		return fmt.Errorf("failed to update node state: %w", err)
	}
	return nil
}

// CreditResource adds amount to the player's balance for rt
func (t *miningTx) CreditResource(ctx context.Context, playerID string, rt domain.ResourceType, amount int) (int64, error) {
	query, err := creditStatement(rt)
	if err != nil {
		return 0, err
	}
	id, err := parseUUID("player", playerID)
	if err != nil {
		return 0, err
	}

	var balance int64
	if err := t.tx.QueryRow(ctx, query, id, int64(amount)).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrPlayerNotFound
		}
		return 0, fmt.Errorf("failed to credit %s: %w", rt, err)
	}
	return balance, nil
}

// InsertAttempt appends the audit row inside the transaction
func (t *miningTx) InsertAttempt(ctx context.Context, attempt *domain.MiningAttempt) error {
	args, err := attemptArgs(attempt)
	if err != nil {
		return err
	}
	if _, err := t.tx.Exec(ctx, queryInsertAttempt, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateAttempt
		}
		return fmt.Errorf("failed to insert attempt: %w", err)
	}
	return nil
}

// creditStatement selects the fixed update statement for a resource type
func creditStatement(rt domain.ResourceType) (string, error) {
	switch rt {
	case domain.ResourceNickel:
		return queryCreditNickel, nil
	case domain.ResourceCobalt:
		return queryCreditCobalt, nil
	case domain.ResourceCopper:
		return queryCreditCopper, nil
	case domain.ResourceManganese:
		return queryCreditManganese, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidResourceType, rt)
	}
}

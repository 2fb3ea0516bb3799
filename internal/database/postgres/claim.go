package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/repository"
)

// ClaimRepository implements repository.ClaimRepository for PostgreSQL
type ClaimRepository struct {
	db *pgxpool.Pool
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(db *pgxpool.Pool) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// GetPlayerByWallet reads the player without locking
func (r *ClaimRepository) GetPlayerByWallet(ctx context.Context, wallet string) (*domain.Player, error) {
	p, err := getPlayerByWallet(ctx, r.db, wallet)
	if err != nil {
		if errors.Is(err, domain.ErrPlayerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// SumReserved totals unused claims expiring after cutoff
func (r *ClaimRepository) SumReserved(ctx context.Context, wallet string, cutoff time.Time) (int64, error) {
	total, err := sumReserved(ctx, r.db, wallet, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sum reserved claims: %w", err)
	}
	return total, nil
}

// GetClaimByNonce retrieves a claim by its (wallet, nonce) key
func (r *ClaimRepository) GetClaimByNonce(ctx context.Context, wallet string, nonce uint64) (*domain.ClaimSignature, error) {
	return getClaim(ctx, r.db, queryGetClaimByNonce, wallet, int64(nonce))
}

// BeginTx starts a transaction and returns a ClaimTx
func (r *ClaimRepository) BeginTx(ctx context.Context) (repository.ClaimTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginClaimTx, err)
	}
	return &claimTx{tx: tx}, nil
}

// claimTx implements repository.ClaimTx
type claimTx struct {
	tx pgx.Tx
}

// Commit commits the transaction
func (t *claimTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *claimTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *claimTx) GetPlayerForUpdate(ctx context.Context, wallet string) (*domain.Player, error) {
	p, err := scanPlayer(t.tx.QueryRow(ctx, queryGetPlayerForUpdate, wallet))
	if err != nil {
		if errors.Is(err, domain.ErrPlayerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to lock player: %w", err)
	}
	return p, nil
}

func (t *claimTx) SumReserved(ctx context.Context, wallet string, cutoff time.Time) (int64, error) {
	total, err := sumReserved(ctx, t.tx, wallet, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sum reserved claims: %w", err)
	}
	return total, nil
}

func (t *claimTx) GetClaimByIdempotencyKey(ctx context.Context, wallet, key string) (*domain.ClaimSignature, error) {
	return getClaim(ctx, t.tx, queryGetClaimByIdempotencyKey, wallet, key)
}

// NextNonce allocates the next nonce with a single atomic upsert
func (t *claimTx) NextNonce(ctx context.Context, wallet string) (uint64, error) {
	var nonce int64
	if err := t.tx.QueryRow(ctx, queryNextNonce, wallet).Scan(&nonce); err != nil {
		return 0, fmt.Errorf("failed to allocate nonce: %w", err)
	}
	return uint64(nonce), nil
}

func (t *claimTx) InsertClaim(ctx context.Context, claim *domain.ClaimSignature) error {
	claimID, err := parseUUID("claim", claim.ClaimID)
	if err != nil {
		return err
	}
	playerID, err := parseUUID("player", claim.PlayerID)
	if err != nil {
		return err
	}

	var key *string
	if claim.IdempotencyKey != nil {
		key = nullString(*claim.IdempotencyKey)
	}
	metadata := claim.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	createdAt := claim.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = t.tx.Exec(ctx, queryInsertClaim,
		claimID, claim.Wallet, playerID, claim.Amount, int64(claim.Nonce), claim.ExpiresAt,
		claim.Signature, claim.ClaimType, key, metadata, createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateClaim, uniqueConstraint(err))
		}
		return fmt.Errorf("failed to insert claim: %w", err)
	}
	return nil
}

func (t *claimTx) GetClaimByNonceForUpdate(ctx context.Context, wallet string, nonce uint64) (*domain.ClaimSignature, error) {
	return getClaim(ctx, t.tx, queryGetClaimByNonceForUpdate, wallet, int64(nonce))
}

func (t *claimTx) MarkClaimUsed(ctx context.Context, claimID string, usedAt time.Time, txReference string) error {
	id, err := parseUUID("claim", claimID)
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx, queryMarkClaimUsed, id, usedAt, txReference)
	if err != nil {
		return fmt.Errorf("failed to mark claim used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSignatureAlreadyUsed
	}
	return nil
}

// ApplyDebit subtracts the debit in one statement; balance CHECK constraints reject overdrafts
func (t *claimTx) ApplyDebit(ctx context.Context, playerID string, debit domain.BalanceDebit, tokens int64) error {
	id, err := parseUUID("player", playerID)
	if err != nil {
		return err
	}
	res := debit.Resources
	tag, err := t.tx.Exec(ctx, queryApplyDebit, id,
		debit.Coins,
		res[domain.ResourceNickel],
		res[domain.ResourceCobalt],
		res[domain.ResourceCopper],
		res[domain.ResourceManganese],
		tokens,
	)
	if err != nil {
		return fmt.Errorf("failed to debit player: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}

func getClaim(ctx context.Context, q querier, query string, args ...any) (*domain.ClaimSignature, error) {
	c, err := scanClaim(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, domain.ErrClaimNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}
	return c, nil
}

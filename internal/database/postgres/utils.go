package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Cleo-11/OceanX/internal/domain"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so reads can run in or out of a transaction
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == PgErrorCodeUniqueViolation
}

func isLockNotAvailable(err error) bool {
	return pgErrorCode(err) == PgErrorCodeLockNotAvailable
}

func uniqueConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// parseUUID parses an id string to uuid.UUID with consistent error message.
func parseUUID(kind, id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id: %w", kind, err)
	}
	return u, nil
}

// optionalUUID maps a nil or empty id to SQL NULL
func optionalUUID(kind string, id *string) (*uuid.UUID, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	u, err := parseUUID(kind, *id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// nullString maps "" to SQL NULL
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanPlayer(row rowScanner) (*domain.Player, error) {
	var (
		p                                 domain.Player
		nickel, cobalt, copper, manganese int64
	)
	err := row.Scan(
		&p.ID, &p.Wallet, &p.Username, &p.Coins,
		&nickel, &cobalt, &copper, &manganese,
		&p.TotalResourcesMined, &p.TotalTokensEarned, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, err
	}
	p.Balances = map[domain.ResourceType]int64{
		domain.ResourceNickel:    nickel,
		domain.ResourceCobalt:    cobalt,
		domain.ResourceCopper:    copper,
		domain.ResourceManganese: manganese,
	}
	return &p, nil
}

func scanNode(row rowScanner) (*domain.ResourceNode, error) {
	var (
		n            domain.ResourceNode
		resourceType string
		status       string
		rarity       string
	)
	err := row.Scan(
		&n.SessionID, &n.NodeID, &resourceType, &n.ResourceAmount,
		&n.Position.X, &n.Position.Y, &n.Position.Z,
		&status, &n.ClaimedBy, &n.ClaimedAt, &n.RespawnAt, &n.RespawnDelaySeconds, &rarity, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNodeNotFound
		}
		return nil, err
	}
	n.ResourceType = domain.ResourceType(resourceType)
	n.Status = domain.NodeStatus(status)
	n.Rarity = domain.Rarity(rarity)
	return &n, nil
}

func scanAttempt(row rowScanner) (*domain.MiningAttempt, error) {
	var (
		a             domain.MiningAttempt
		failureReason *string
		resourceType  string
		flags         []string
	)
	err := row.Scan(
		&a.AttemptID, &a.PlayerID, &a.Wallet, &a.SessionID, &a.NodeID,
		&a.Position.X, &a.Position.Y, &a.Position.Z, &a.DistanceToNode, &a.Success, &failureReason,
		&resourceType, &a.ResourceAmount, &flags, &a.Outcome, &a.AttemptedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAttemptNotFound
		}
		return nil, err
	}
	if failureReason != nil {
		reason := domain.ReasonCode(*failureReason)
		a.FailureReason = &reason
	}
	a.ResourceType = domain.ResourceType(resourceType)
	a.Flags = make([]domain.FraudFlag, 0, len(flags))
	for _, f := range flags {
		a.Flags = append(a.Flags, domain.FraudFlag(f))
	}
	return &a, nil
}

func attemptArgs(a *domain.MiningAttempt) ([]any, error) {
	playerID, err := optionalUUID("player", a.PlayerID)
	if err != nil {
		return nil, err
	}
	var failureReason *string
	if a.FailureReason != nil {
		reason := string(*a.FailureReason)
		failureReason = &reason
	}
	flags := make([]string, 0, len(a.Flags))
	for _, f := range a.Flags {
		flags = append(flags, string(f))
	}
	attemptedAt := a.AttemptedAt
	if attemptedAt.IsZero() {
		attemptedAt = time.Now()
	}
	return []any{
		a.AttemptID, playerID, a.Wallet, a.SessionID, a.NodeID,
		a.Position.X, a.Position.Y, a.Position.Z, a.DistanceToNode, a.Success, failureReason,
		string(a.ResourceType), a.ResourceAmount, flags, a.Outcome, attemptedAt,
	}, nil
}

func scanClaim(row rowScanner) (*domain.ClaimSignature, error) {
	var (
		c     domain.ClaimSignature
		nonce int64
	)
	err := row.Scan(
		&c.ClaimID, &c.Wallet, &c.PlayerID, &c.Amount, &nonce, &c.ExpiresAt, &c.Signature,
		&c.Used, &c.UsedAt, &c.ClaimType, &c.IdempotencyKey, &c.TxReference, &c.Metadata, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClaimNotFound
		}
		return nil, err
	}
	c.Nonce = uint64(nonce)
	return &c, nil
}

func getPlayerByWallet(ctx context.Context, q querier, wallet string) (*domain.Player, error) {
	return scanPlayer(q.QueryRow(ctx, queryGetPlayerByWallet, wallet))
}

func sumReserved(ctx context.Context, q querier, wallet string, cutoff time.Time) (int64, error) {
	var total int64
	if err := q.QueryRow(ctx, querySumReserved, wallet, cutoff).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

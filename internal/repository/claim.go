package repository

import (
	"context"
	"time"

	"github.com/Cleo-11/OceanX/internal/domain"
)

// ClaimRepository handles claim signature persistence
type ClaimRepository interface {
	// GetPlayerByWallet returns the player or domain.ErrPlayerNotFound
	GetPlayerByWallet(ctx context.Context, wallet string) (*domain.Player, error)

	// SumReserved totals the amounts of unused claims expiring after cutoff
	SumReserved(ctx context.Context, wallet string, cutoff time.Time) (int64, error)

	// GetClaimByNonce returns the claim or domain.ErrClaimNotFound
	GetClaimByNonce(ctx context.Context, wallet string, nonce uint64) (*domain.ClaimSignature, error)

	// Transaction support
	BeginTx(ctx context.Context) (ClaimTx, error)
}

// ClaimTx covers issuance and confirmation. Issuance serializes per player through
// the player row lock.
type ClaimTx interface {
	Tx

	GetPlayerForUpdate(ctx context.Context, wallet string) (*domain.Player, error)
	SumReserved(ctx context.Context, wallet string, cutoff time.Time) (int64, error)

	// GetClaimByIdempotencyKey returns the claim or domain.ErrClaimNotFound
	GetClaimByIdempotencyKey(ctx context.Context, wallet, key string) (*domain.ClaimSignature, error)

	// NextNonce atomically allocates the wallet's next nonce, starting at 1
	NextNonce(ctx context.Context, wallet string) (uint64, error)

	// InsertClaim persists a new claim; domain.ErrDuplicateClaim on (wallet, nonce) or key reuse
	InsertClaim(ctx context.Context, claim *domain.ClaimSignature) error

	// GetClaimByNonceForUpdate locks the claim row; domain.ErrClaimNotFound when absent
	GetClaimByNonceForUpdate(ctx context.Context, wallet string, nonce uint64) (*domain.ClaimSignature, error)

	// MarkClaimUsed flips used and records the settlement reference
	MarkClaimUsed(ctx context.Context, claimID string, usedAt time.Time, txReference string) error

	// ApplyDebit removes the debit from the player's holdings and adds tokens to the earned counter
	ApplyDebit(ctx context.Context, playerID string, debit domain.BalanceDebit, tokens int64) error
}

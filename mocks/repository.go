// Package mocks holds testify mocks for the repository interfaces.
// Regenerate with `go run github.com/vektra/mockery/v2` (see .mockery.yaml).
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/repository"
)

// MockNodeRepository is a mock implementation of repository.NodeRepository
type MockNodeRepository struct {
	mock.Mock
}

func (m *MockNodeRepository) GetNode(ctx context.Context, sessionID, nodeID string) (*domain.ResourceNode, error) {
	args := m.Called(ctx, sessionID, nodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResourceNode), args.Error(1)
}

func (m *MockNodeRepository) ListSessionNodes(ctx context.Context, sessionID string) ([]domain.ResourceNode, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResourceNode), args.Error(1)
}

func (m *MockNodeRepository) UpsertNode(ctx context.Context, node *domain.ResourceNode) error {
	return m.Called(ctx, node).Error(0)
}

func (m *MockNodeRepository) ReclaimNode(ctx context.Context, sessionID, nodeID string, now time.Time) (bool, error) {
	args := m.Called(ctx, sessionID, nodeID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockNodeRepository) ReclaimDueNodes(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockPlayerRepository is a mock implementation of repository.PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) GetPlayerByWallet(ctx context.Context, wallet string) (*domain.Player, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Player), args.Error(1)
}

func (m *MockPlayerRepository) EnsurePlayer(ctx context.Context, wallet, username, usernameKey string) (*domain.Player, error) {
	args := m.Called(ctx, wallet, username, usernameKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Player), args.Error(1)
}

// MockMiningRepository is a mock implementation of repository.MiningRepository
type MockMiningRepository struct {
	mock.Mock
}

func (m *MockMiningRepository) GetAttempt(ctx context.Context, attemptID string) (*domain.MiningAttempt, error) {
	args := m.Called(ctx, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MiningAttempt), args.Error(1)
}

func (m *MockMiningRepository) RecordAttempt(ctx context.Context, attempt *domain.MiningAttempt) (bool, error) {
	args := m.Called(ctx, attempt)
	return args.Bool(0), args.Error(1)
}

func (m *MockMiningRepository) LastAttemptAt(ctx context.Context, wallet string) (*time.Time, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockMiningRepository) ListFlaggedAttempts(ctx context.Context, limit int) ([]domain.MiningAttempt, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MiningAttempt), args.Error(1)
}

func (m *MockMiningRepository) BeginTx(ctx context.Context) (repository.MiningTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.MiningTx), args.Error(1)
}

// MockMiningTx is a mock implementation of repository.MiningTx
type MockMiningTx struct {
	mock.Mock
}

func (m *MockMiningTx) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockMiningTx) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockMiningTx) GetPlayerForUpdate(ctx context.Context, wallet string) (*domain.Player, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Player), args.Error(1)
}

func (m *MockMiningTx) GetNodeForUpdateNoWait(ctx context.Context, sessionID, nodeID string) (*domain.ResourceNode, error) {
	args := m.Called(ctx, sessionID, nodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResourceNode), args.Error(1)
}

func (m *MockMiningTx) UpdateNodeState(ctx context.Context, node *domain.ResourceNode) error {
	return m.Called(ctx, node).Error(0)
}

func (m *MockMiningTx) CreditResource(ctx context.Context, playerID string, rt domain.ResourceType, amount int) (int64, error) {
	args := m.Called(ctx, playerID, rt, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMiningTx) InsertAttempt(ctx context.Context, attempt *domain.MiningAttempt) error {
	return m.Called(ctx, attempt).Error(0)
}

// MockClaimRepository is a mock implementation of repository.ClaimRepository
type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) GetPlayerByWallet(ctx context.Context, wallet string) (*domain.Player, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Player), args.Error(1)
}

func (m *MockClaimRepository) SumReserved(ctx context.Context, wallet string, now time.Time) (int64, error) {
	args := m.Called(ctx, wallet, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClaimRepository) GetClaimByNonce(ctx context.Context, wallet string, nonce uint64) (*domain.ClaimSignature, error) {
	args := m.Called(ctx, wallet, nonce)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClaimSignature), args.Error(1)
}

func (m *MockClaimRepository) BeginTx(ctx context.Context) (repository.ClaimTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.ClaimTx), args.Error(1)
}

// MockClaimTx is a mock implementation of repository.ClaimTx
type MockClaimTx struct {
	mock.Mock
}

func (m *MockClaimTx) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockClaimTx) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockClaimTx) GetPlayerForUpdate(ctx context.Context, wallet string) (*domain.Player, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Player), args.Error(1)
}

func (m *MockClaimTx) SumReserved(ctx context.Context, wallet string, now time.Time) (int64, error) {
	args := m.Called(ctx, wallet, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClaimTx) GetClaimByIdempotencyKey(ctx context.Context, wallet, key string) (*domain.ClaimSignature, error) {
	args := m.Called(ctx, wallet, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClaimSignature), args.Error(1)
}

func (m *MockClaimTx) NextNonce(ctx context.Context, wallet string) (uint64, error) {
	args := m.Called(ctx, wallet)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockClaimTx) InsertClaim(ctx context.Context, claim *domain.ClaimSignature) error {
	return m.Called(ctx, claim).Error(0)
}

func (m *MockClaimTx) GetClaimByNonceForUpdate(ctx context.Context, wallet string, nonce uint64) (*domain.ClaimSignature, error) {
	args := m.Called(ctx, wallet, nonce)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClaimSignature), args.Error(1)
}

func (m *MockClaimTx) MarkClaimUsed(ctx context.Context, claimID string, usedAt time.Time, txReference string) error {
	return m.Called(ctx, claimID, usedAt, txReference).Error(0)
}

func (m *MockClaimTx) ApplyDebit(ctx context.Context, playerID string, debit domain.BalanceDebit, tokens int64) error {
	return m.Called(ctx, playerID, debit, tokens).Error(0)
}

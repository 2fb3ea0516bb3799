package claim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/event"
	"github.com/Cleo-11/OceanX/mocks"
)

const walletA = "0x00000000000000000000000000000000000000aa"

var issueTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, store *memoryClaims, bus event.Bus) *Service {
	t.Helper()
	svc := NewService(store, newTestSigner(t), bus, Config{TTL: 5 * time.Minute, ClockDrift: 30 * time.Second})
	svc.now = func() time.Time { return issueTime }
	return svc
}

func reasonOf(t *testing.T, err error) domain.ReasonCode {
	t.Helper()
	rej, ok := domain.AsRejection(err)
	require.True(t, ok, "expected a rejection, got %v", err)
	return rej.Code
}

func TestIssue_ScenarioA(t *testing.T) {
	t.Run("request at the ceiling succeeds", func(t *testing.T) {
		store := newMemoryClaims(scenarioAPlayer())
		svc := newTestService(t, store, nil)

		signed, err := svc.Issue(context.Background(), domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 70})
		require.NoError(t, err)
		assert.Equal(t, int64(70), signed.Amount)
		assert.Equal(t, uint64(1), signed.Nonce)
		assert.Equal(t, issueTime.Add(5*time.Minute).Unix(), signed.ExpiresAt)
		assert.NotEmpty(t, signed.Signature)
	})

	t.Run("one over the ceiling fails with the ceiling", func(t *testing.T) {
		store := newMemoryClaims(scenarioAPlayer())
		svc := newTestService(t, store, nil)

		_, err := svc.Issue(context.Background(), domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 71})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAmountExceedsLimit)
		rej, _ := domain.AsRejection(err)
		assert.Equal(t, int64(70), rej.Context["ceiling"])
		assert.Zero(t, store.claimCount())
	})
}

func TestIssue_InvalidAmount(t *testing.T) {
	svc := newTestService(t, newMemoryClaims(scenarioAPlayer()), nil)
	for _, amount := range []int64{0, -5} {
		_, err := svc.Issue(context.Background(), domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: amount})
		assert.Equal(t, domain.ReasonInvalidAmount, reasonOf(t, err))
	}
}

func TestIssue_UnknownPlayer(t *testing.T) {
	svc := newTestService(t, newMemoryClaims(), nil)
	_, err := svc.Issue(context.Background(), domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 1})
	assert.Equal(t, domain.ReasonPlayerNotFound, reasonOf(t, err))
}

func TestIssue_ScenarioD_IdempotencyKeyReturnsSameClaim(t *testing.T) {
	store := newMemoryClaims(scenarioAPlayer())
	svc := newTestService(t, store, nil)
	ctx := context.Background()
	req := domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 30, IdempotencyKey: "k-1"}

	first, err := svc.Issue(ctx, req)
	require.NoError(t, err)

	second, err := svc.Issue(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.Nonce, second.Nonce)
	assert.Equal(t, first.Signature, second.Signature)
	assert.Equal(t, first.SignatureParts, second.SignatureParts)
	assert.Equal(t, first.ClaimID, second.ClaimID)
	assert.True(t, second.Reused)
	assert.Equal(t, 1, store.claimCount())

	// A fresh key gets the next nonce
	third, err := svc.Issue(ctx, domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 30, IdempotencyKey: "k-2"})
	require.NoError(t, err)
	assert.Equal(t, first.Nonce+1, third.Nonce)
}

func TestIssue_IdempotencyKeyTerminalStates(t *testing.T) {
	ctx := context.Background()

	t.Run("different amount", func(t *testing.T) {
		svc := newTestService(t, newMemoryClaims(scenarioAPlayer()), nil)
		_, err := svc.Issue(ctx, domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 10, IdempotencyKey: "k"})
		require.NoError(t, err)
		_, err = svc.Issue(ctx, domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 11, IdempotencyKey: "k"})
		assert.Equal(t, domain.ReasonInvalidRequest, reasonOf(t, err))
	})

	t.Run("expired", func(t *testing.T) {
		svc := newTestService(t, newMemoryClaims(scenarioAPlayer()), nil)
		_, err := svc.Issue(ctx, domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 10, IdempotencyKey: "k"})
		require.NoError(t, err)

		svc.now = func() time.Time { return issueTime.Add(6 * time.Minute) }
		_, err = svc.Issue(ctx, domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 10, IdempotencyKey: "k"})
		assert.Equal(t, domain.ReasonSignatureExpired, reasonOf(t, err))
	})

	t.Run("used", func(t *testing.T) {
		svc := newTestService(t, newMemoryClaims(scenarioAPlayer()), nil)
		signed, err := svc.Issue(ctx, domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 10, IdempotencyKey: "k"})
		require.NoError(t, err)
		require.NoError(t, svc.Confirm(ctx, domain.ClaimConfirmation{Wallet: walletA, Nonce: signed.Nonce, TxReference: "0xfeed"}))

		_, err = svc.Issue(ctx, domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 10, IdempotencyKey: "k"})
		assert.Equal(t, domain.ReasonSignatureAlreadyUsed, reasonOf(t, err))
	})
}

func TestIssue_OutstandingClaimsAreReserved(t *testing.T) {
	store := newMemoryClaims(scenarioAPlayer())
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	_, err := svc.Issue(ctx, domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 50})
	require.NoError(t, err)

	_, err = svc.Issue(ctx, domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 21})
	assert.Equal(t, domain.ReasonAmountExceedsLimit, reasonOf(t, err))

	ceiling, err := svc.ComputeMaxClaimable(ctx, walletA)
	require.NoError(t, err)
	assert.Equal(t, int64(20), ceiling.Amount)
	assert.Equal(t, int64(50), ceiling.Reserved)

	// Expired but unconfirmed, the claim is held through the reconciliation grace
	svc.now = func() time.Time { return issueTime.Add(10 * time.Minute) }
	ceiling, err = svc.ComputeMaxClaimable(ctx, walletA)
	require.NoError(t, err)
	assert.Equal(t, int64(20), ceiling.Amount)

	svc.now = func() time.Time {
		return issueTime.Add(5*time.Minute + 30*time.Second + DefaultReconcileGrace + time.Second)
	}
	ceiling, err = svc.ComputeMaxClaimable(ctx, walletA)
	require.NoError(t, err)
	assert.Equal(t, int64(70), ceiling.Amount)
}

func TestIssue_ConcurrentRequestsNeverShareNonces(t *testing.T) {
	player := scenarioAPlayer()
	player.Coins = 1000
	store := newMemoryClaims(player)
	svc := newTestService(t, store, nil)

	const n = 20
	nonces := make([]uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			signed, err := svc.Issue(context.Background(), domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 10})
			if assert.NoError(t, err) {
				nonces[i] = signed.Nonce
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[uint64]bool)
	for _, nonce := range nonces {
		assert.False(t, seen[nonce], "nonce %d issued twice", nonce)
		seen[nonce] = true
	}
	assert.Len(t, seen, n)
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	issue := func(t *testing.T) (*Service, *domain.SignedClaim) {
		svc := newTestService(t, newMemoryClaims(scenarioAPlayer()), nil)
		signed, err := svc.Issue(ctx, domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 70})
		require.NoError(t, err)
		return svc, signed
	}
	redemption := func(s *domain.SignedClaim) domain.ClaimRedemption {
		return domain.ClaimRedemption{Wallet: s.Wallet, Amount: s.Amount, Nonce: s.Nonce, ExpiresAt: s.ExpiresAt, Signature: s.Signature}
	}

	t.Run("valid", func(t *testing.T) {
		svc, signed := issue(t)
		stored, err := svc.Verify(ctx, redemption(signed))
		require.NoError(t, err)
		assert.Equal(t, signed.ClaimID, stored.ClaimID)
	})

	t.Run("inside drift tolerance", func(t *testing.T) {
		svc, signed := issue(t)
		svc.now = func() time.Time { return time.Unix(signed.ExpiresAt, 0).Add(20 * time.Second) }
		_, err := svc.Verify(ctx, redemption(signed))
		assert.NoError(t, err)
	})

	t.Run("expired is terminal", func(t *testing.T) {
		svc, signed := issue(t)
		svc.now = func() time.Time { return time.Unix(signed.ExpiresAt, 0).Add(31 * time.Second) }
		_, err := svc.Verify(ctx, redemption(signed))
		assert.Equal(t, domain.ReasonSignatureExpired, reasonOf(t, err))
		assert.ErrorIs(t, err, domain.ErrSignatureExpired)
	})

	t.Run("foreign signer", func(t *testing.T) {
		svc, signed := issue(t)
		other := newTestSigner(t)
		forged, _, err := other.Sign(domain.ClaimPayload{Wallet: signed.Wallet, Amount: signed.Amount, Nonce: signed.Nonce, ExpiresAt: signed.ExpiresAt})
		require.NoError(t, err)

		r := redemption(signed)
		r.Signature = forged
		_, err = svc.Verify(ctx, r)
		assert.Equal(t, domain.ReasonUnauthorizedSigner, reasonOf(t, err))
	})

	t.Run("inflated amount", func(t *testing.T) {
		svc, signed := issue(t)
		r := redemption(signed)
		r.Amount = 700
		_, err := svc.Verify(ctx, r)
		assert.Equal(t, domain.ReasonUnauthorizedSigner, reasonOf(t, err))
	})

	t.Run("already used", func(t *testing.T) {
		svc, signed := issue(t)
		require.NoError(t, svc.Confirm(ctx, domain.ClaimConfirmation{Wallet: walletA, Nonce: signed.Nonce, TxReference: "0x01"}))
		_, err := svc.Verify(ctx, redemption(signed))
		assert.Equal(t, domain.ReasonSignatureAlreadyUsed, reasonOf(t, err))
	})
}

func TestConfirm_DebitsOnSettlement(t *testing.T) {
	store := newMemoryClaims(scenarioAPlayer())
	bus := event.NewMemoryBus()
	var confirmed []event.Event
	bus.Subscribe(event.ClaimConfirmed, func(ctx context.Context, evt event.Event) error {
		confirmed = append(confirmed, evt)
		return nil
	})
	svc := newTestService(t, store, bus)
	ctx := context.Background()

	signed, err := svc.Issue(ctx, domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 65})
	require.NoError(t, err)

	before := store.playerSnapshot(walletA)
	assert.Equal(t, int64(50), before.Coins, "issuance does not debit")

	require.NoError(t, svc.Confirm(ctx, domain.ClaimConfirmation{Wallet: walletA, Nonce: signed.Nonce, TxReference: "0xabc"}))

	after := store.playerSnapshot(walletA)
	assert.Zero(t, after.Coins)
	assert.Zero(t, after.Balance(domain.ResourceNickel))
	assert.Equal(t, int64(10), after.Balance(domain.ResourceCobalt))
	assert.Equal(t, int64(65), after.TotalTokensEarned)

	stored, err := store.GetClaimByNonce(ctx, walletA, signed.Nonce)
	require.NoError(t, err)
	assert.True(t, stored.Used)
	assert.Equal(t, "0xabc", *stored.TxReference)
	require.Len(t, confirmed, 1)

	ceiling, err := svc.ComputeMaxClaimable(ctx, walletA)
	require.NoError(t, err)
	assert.Equal(t, int64(5), ceiling.Amount)
}

func TestConfirm_Replays(t *testing.T) {
	store := newMemoryClaims(scenarioAPlayer())
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	signed, err := svc.Issue(ctx, domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 10})
	require.NoError(t, err)

	conf := domain.ClaimConfirmation{Wallet: walletA, Nonce: signed.Nonce, TxReference: "0xabc"}
	require.NoError(t, svc.Confirm(ctx, conf))
	require.NoError(t, svc.Confirm(ctx, conf), "same reference is idempotent")
	assert.Equal(t, int64(40), store.playerSnapshot(walletA).Coins, "debited once")

	conf.TxReference = "0xother"
	err = svc.Confirm(ctx, conf)
	assert.Equal(t, domain.ReasonSignatureAlreadyUsed, reasonOf(t, err))
}

func TestConfirm_ExpiryJudgedAtSettlement(t *testing.T) {
	store := newMemoryClaims(scenarioAPlayer())
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	late, err := svc.Issue(ctx, domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 10})
	require.NoError(t, err)
	lapsed, err := svc.Issue(ctx, domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 10})
	require.NoError(t, err)

	svc.now = func() time.Time { return issueTime.Add(time.Hour) }

	// The watcher reports late, but the block landed inside the window
	settled := issueTime.Add(time.Minute)
	require.NoError(t, svc.Confirm(ctx, domain.ClaimConfirmation{Wallet: walletA, Nonce: late.Nonce, TxReference: "0x1", SettledAt: &settled}))

	err = svc.Confirm(ctx, domain.ClaimConfirmation{Wallet: walletA, Nonce: lapsed.Nonce, TxReference: "0x2"})
	assert.Equal(t, domain.ReasonSignatureExpired, reasonOf(t, err))
}

func TestConfirm_LateReportKeepsClaimReserved(t *testing.T) {
	store := newMemoryClaims(scenarioAPlayer())
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	signed, err := svc.Issue(ctx, domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 70})
	require.NoError(t, err)

	// Paid out on-chain, reported after expiry without a block time
	svc.now = func() time.Time { return issueTime.Add(10 * time.Minute) }
	err = svc.Confirm(ctx, domain.ClaimConfirmation{Wallet: walletA, Nonce: signed.Nonce, TxReference: "0xsettled"})
	assert.Equal(t, domain.ReasonSignatureExpired, reasonOf(t, err))
	assert.Equal(t, int64(50), store.playerSnapshot(walletA).Coins)

	ceiling, err := svc.ComputeMaxClaimable(ctx, walletA)
	require.NoError(t, err)
	assert.Zero(t, ceiling.Amount)
	assert.Equal(t, int64(70), ceiling.Reserved)

	_, err = svc.Issue(ctx, domain.ClaimIssueRequest{Wallet: walletA, RequestedAmount: 70})
	assert.Equal(t, domain.ReasonAmountExceedsLimit, reasonOf(t, err))

	// The watcher resends with the block time and the debit lands
	settled := issueTime.Add(2 * time.Minute)
	require.NoError(t, svc.Confirm(ctx, domain.ClaimConfirmation{
		Wallet: walletA, Nonce: signed.Nonce, TxReference: "0xsettled", SettledAt: &settled,
	}))
	assert.Zero(t, store.playerSnapshot(walletA).Coins)

	stored, err := store.GetClaimByNonce(ctx, walletA, signed.Nonce)
	require.NoError(t, err)
	require.NotNil(t, stored.UsedAt)
	assert.Equal(t, settled, *stored.UsedAt, "usedAt is the block time")

	ceiling, err = svc.ComputeMaxClaimable(ctx, walletA)
	require.NoError(t, err)
	assert.Zero(t, ceiling.Amount)
	assert.Zero(t, ceiling.Reserved)
}

func TestConfirm_UnknownClaim(t *testing.T) {
	svc := newTestService(t, newMemoryClaims(scenarioAPlayer()), nil)
	err := svc.Confirm(context.Background(), domain.ClaimConfirmation{Wallet: walletA, Nonce: 9, TxReference: "0x1"})
	assert.Equal(t, domain.ReasonClaimNotFound, reasonOf(t, err))
}

func TestConfirm_StorageErrorRollsBack(t *testing.T) {
	repo := new(mocks.MockClaimRepository)
	tx := new(mocks.MockClaimTx)
	ctx := context.Background()

	signer := newTestSigner(t)
	svc := NewService(repo, signer, nil, Config{})
	svc.now = func() time.Time { return issueTime }

	claim := &domain.ClaimSignature{ClaimID: "c1", Wallet: walletA, PlayerID: "p1", Amount: 10, Nonce: 1, ExpiresAt: issueTime.Add(time.Minute)}
	sig, _, err := signer.Sign(payloadOf(claim))
	require.NoError(t, err)
	claim.Signature = &sig

	repo.On("BeginTx", ctx).Return(tx, nil)
	tx.On("GetPlayerForUpdate", ctx, walletA).Return(scenarioAPlayer(), nil)
	tx.On("GetClaimByNonceForUpdate", ctx, walletA, uint64(1)).Return(claim, nil)
	tx.On("ApplyDebit", ctx, "p1", mock.AnythingOfType("domain.BalanceDebit"), int64(10)).Return(nil)
	tx.On("MarkClaimUsed", ctx, "c1", issueTime, "0x1").Return(errors.New("deadlock detected"))
	tx.On("Rollback", ctx).Return(nil)

	err = svc.Confirm(ctx, domain.ClaimConfirmation{Wallet: walletA, Nonce: 1, TxReference: "0x1"})
	assert.ErrorContains(t, err, "deadlock detected")
	tx.AssertNotCalled(t, "Commit", mock.Anything)
	tx.AssertCalled(t, "Rollback", ctx)
}

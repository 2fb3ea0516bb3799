// Package claim converts mined holdings into signed, single-use token claims
// and reconciles them once the settlement contract has paid out.
//
// Holdings are debited on confirmed settlement. Until then an issued, unused
// claim is reserved against the ceiling, and it stays reserved for a
// reconciliation grace period after expiry because the contract may have paid
// it out before the watcher reports. Issuance for one player is serialized by
// the player row lock.
package claim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/event"
	"github.com/Cleo-11/OceanX/internal/logger"
	"github.com/Cleo-11/OceanX/internal/metrics"
	"github.com/Cleo-11/OceanX/internal/repository"
)

// Config holds claim timing
type Config struct {
	TTL        time.Duration
	ClockDrift time.Duration
	// ReconcileGrace keeps an expired, unconfirmed claim reserved this long
	// past expiresAt plus drift
	ReconcileGrace time.Duration
}

// Service issues, verifies and confirms claims
type Service struct {
	repo   repository.ClaimRepository
	signer *Signer
	bus    event.Bus
	config Config
	now    func() time.Time
}

// NewService creates a claim service. bus may be nil.
func NewService(repo repository.ClaimRepository, signer *Signer, bus event.Bus, cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.ClockDrift <= 0 {
		cfg.ClockDrift = DefaultClockDrift
	}
	if cfg.ReconcileGrace <= 0 {
		cfg.ReconcileGrace = DefaultReconcileGrace
	}
	return &Service{
		repo:   repo,
		signer: signer,
		bus:    bus,
		config: cfg,
		now:    time.Now,
	}
}

// SignerAddress is the identity claims are signed with
func (s *Service) SignerAddress() string {
	return s.signer.Address().Hex()
}

// ComputeMaxClaimable recomputes the wallet's ceiling from current balances
func (s *Service) ComputeMaxClaimable(ctx context.Context, wallet string) (*domain.Ceiling, error) {
	wallet, err := domain.NormalizeWallet(wallet)
	if err != nil {
		return nil, s.rejected(ctx, domain.Reject(domain.ReasonInvalidRequest, "wallet", wallet))
	}

	player, err := s.repo.GetPlayerByWallet(ctx, wallet)
	if err != nil {
		if errors.Is(err, domain.ErrPlayerNotFound) {
			return nil, s.rejected(ctx, domain.Reject(domain.ReasonPlayerNotFound))
		}
		return nil, err
	}
	reserved, err := s.repo.SumReserved(ctx, wallet, s.reservationCutoff(s.now()))
	if err != nil {
		return nil, err
	}

	ceiling := ComputeCeiling(player, reserved)
	return &ceiling, nil
}

// Issue signs a new claim for req, or returns the live claim already issued
// under the same idempotency key
func (s *Service) Issue(ctx context.Context, req domain.ClaimIssueRequest) (*domain.SignedClaim, error) {
	log := logger.FromContext(ctx)

	wallet, err := domain.NormalizeWallet(req.Wallet)
	if err != nil {
		return nil, s.rejected(ctx, domain.Reject(domain.ReasonInvalidRequest, "wallet", req.Wallet))
	}
	if req.RequestedAmount <= 0 {
		return nil, s.rejected(ctx, domain.Reject(domain.ReasonInvalidAmount, "requestedAmount", req.RequestedAmount))
	}
	if len(req.IdempotencyKey) > MaxIdempotencyKeySize {
		return nil, s.rejected(ctx, domain.Reject(domain.ReasonInvalidRequest, "idempotencyKey", "too long"))
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	player, err := tx.GetPlayerForUpdate(ctx, wallet)
	if err != nil {
		if errors.Is(err, domain.ErrPlayerNotFound) {
			return nil, s.rejected(ctx, domain.Reject(domain.ReasonPlayerNotFound))
		}
		return nil, err
	}

	now := s.now()

	if req.IdempotencyKey != "" {
		existing, err := tx.GetClaimByIdempotencyKey(ctx, wallet, req.IdempotencyKey)
		switch {
		case err == nil:
			return s.reuse(ctx, existing, req, now)
		case !errors.Is(err, domain.ErrClaimNotFound):
			return nil, err
		}
	}

	reserved, err := tx.SumReserved(ctx, wallet, s.reservationCutoff(now))
	if err != nil {
		return nil, err
	}
	ceiling := ComputeCeiling(player, reserved)
	if req.RequestedAmount > ceiling.Amount {
		return nil, s.rejected(ctx, domain.Reject(domain.ReasonAmountExceedsLimit,
			"ceiling", ceiling.Amount, "reason", ceiling.Reason))
	}

	nonce, err := tx.NextNonce(ctx, wallet)
	if err != nil {
		return nil, err
	}

	claim := &domain.ClaimSignature{
		ClaimID:   uuid.NewString(),
		Wallet:    wallet,
		PlayerID:  player.ID,
		Amount:    req.RequestedAmount,
		Nonce:     nonce,
		ExpiresAt: now.Add(s.config.TTL).Truncate(time.Second),
		ClaimType: domain.ClaimTypeToken,
		Metadata: map[string]any{
			"ceiling":  ceiling.Amount,
			"reserved": reserved,
			"signer":   s.signer.Address().Hex(),
		},
		CreatedAt: now,
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		claim.IdempotencyKey = &key
	}

	sig, parts, err := s.signer.Sign(payloadOf(claim))
	if err != nil {
		return nil, err
	}
	claim.Signature = &sig

	if err := tx.InsertClaim(ctx, claim); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info(LogMsgClaimIssued, "claim_id", claim.ClaimID, "wallet", wallet, "amount", claim.Amount, "nonce", nonce)
	s.publish(ctx, event.NewClaimEvent(event.ClaimIssued, claim))

	return signedClaim(claim, sig, parts, false), nil
}

// reuse answers a repeated idempotency key. Only a live claim for the same
// amount is handed back; anything else is terminal.
func (s *Service) reuse(ctx context.Context, existing *domain.ClaimSignature, req domain.ClaimIssueRequest, now time.Time) (*domain.SignedClaim, error) {
	switch {
	case existing.Amount != req.RequestedAmount:
		return nil, s.rejected(ctx, domain.Reject(domain.ReasonInvalidRequest,
			"idempotencyKey", req.IdempotencyKey, "amount", existing.Amount))
	case existing.Used:
		return nil, s.rejected(ctx, domain.Reject(domain.ReasonSignatureAlreadyUsed, "nonce", existing.Nonce))
	case !existing.RedeemableAt(now) || existing.Signature == nil:
		return nil, s.rejected(ctx, domain.Reject(domain.ReasonSignatureExpired, "nonce", existing.Nonce))
	}

	sig, err := decodeSignature(*existing.Signature)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info(LogMsgClaimReused, "claim_id", existing.ClaimID, "nonce", existing.Nonce)
	return signedClaim(existing, *existing.Signature, SplitSignature(sig), true), nil
}

// Verify checks a presented payload: the signer must be ours, the claim must
// not have expired, and the stored record must still be unused
func (s *Service) Verify(ctx context.Context, r domain.ClaimRedemption) (*domain.ClaimSignature, error) {
	wallet, err := domain.NormalizeWallet(r.Wallet)
	if err != nil {
		return nil, s.rejected(ctx, domain.Reject(domain.ReasonInvalidRequest, "wallet", r.Wallet))
	}
	payload := domain.ClaimPayload{Wallet: wallet, Amount: r.Amount, Nonce: r.Nonce, ExpiresAt: r.ExpiresAt}

	if err := s.checkSignature(payload, r.Signature); err != nil {
		return nil, s.rejected(ctx, err)
	}
	if err := s.checkExpiry(r.ExpiresAt, s.now()); err != nil {
		return nil, s.rejected(ctx, err)
	}

	stored, err := s.repo.GetClaimByNonce(ctx, wallet, r.Nonce)
	if err != nil {
		if errors.Is(err, domain.ErrClaimNotFound) {
			return nil, s.rejected(ctx, domain.Reject(domain.ReasonClaimNotFound, "nonce", r.Nonce))
		}
		return nil, err
	}
	if stored.Amount != r.Amount || stored.ExpiresAt.Unix() != r.ExpiresAt {
		return nil, s.rejected(ctx, domain.Reject(domain.ReasonInvalidRequest, "nonce", r.Nonce))
	}
	if stored.Used {
		return nil, s.rejected(ctx, domain.Reject(domain.ReasonSignatureAlreadyUsed, "nonce", r.Nonce))
	}
	return stored, nil
}

// Confirm reconciles a settled claim: it re-verifies the stored signature and
// then, in one transaction, marks the claim used and debits the player.
// Repeating a confirmation with the same reference is a no-op.
func (s *Service) Confirm(ctx context.Context, c domain.ClaimConfirmation) error {
	log := logger.FromContext(ctx)

	wallet, err := domain.NormalizeWallet(c.Wallet)
	if err != nil {
		return s.rejected(ctx, domain.Reject(domain.ReasonInvalidRequest, "wallet", c.Wallet))
	}
	if c.TxReference == "" {
		return s.rejected(ctx, domain.Reject(domain.ReasonInvalidRequest, "txReference", ""))
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	// Player before claim, the same order as issuance
	player, err := tx.GetPlayerForUpdate(ctx, wallet)
	if err != nil {
		if errors.Is(err, domain.ErrPlayerNotFound) {
			return s.rejected(ctx, domain.Reject(domain.ReasonPlayerNotFound))
		}
		return err
	}
	claim, err := tx.GetClaimByNonceForUpdate(ctx, wallet, c.Nonce)
	if err != nil {
		if errors.Is(err, domain.ErrClaimNotFound) {
			return s.rejected(ctx, domain.Reject(domain.ReasonClaimNotFound, "nonce", c.Nonce))
		}
		return err
	}

	if claim.Used {
		if claim.TxReference != nil && *claim.TxReference == c.TxReference {
			log.Info(LogMsgConfirmIdempotent, "claim_id", claim.ClaimID)
			return nil
		}
		return s.rejected(ctx, domain.Reject(domain.ReasonSignatureAlreadyUsed, "nonce", c.Nonce))
	}

	if claim.Signature == nil {
		return s.rejected(ctx, domain.Reject(domain.ReasonUnauthorizedSigner, "nonce", c.Nonce))
	}
	if err := s.checkSignature(payloadOf(claim), *claim.Signature); err != nil {
		return s.rejected(ctx, err)
	}

	settledAt := s.now()
	if c.SettledAt != nil {
		settledAt = *c.SettledAt
	}
	if err := s.checkExpiry(claim.ExpiresAt.Unix(), settledAt); err != nil {
		return s.rejected(ctx, err)
	}

	debit, shortfall := PlanDebit(player, claim.Amount)
	if shortfall > 0 {
		log.Error(LogMsgDebitShortfall, "claim_id", claim.ClaimID, "shortfall_bps", shortfall)
	}
	if err := tx.ApplyDebit(ctx, player.ID, debit, claim.Amount); err != nil {
		return err
	}
	if err := tx.MarkClaimUsed(ctx, claim.ClaimID, settledAt, c.TxReference); err != nil {
		if errors.Is(err, domain.ErrSignatureAlreadyUsed) {
			return s.rejected(ctx, domain.Reject(domain.ReasonSignatureAlreadyUsed, "nonce", c.Nonce))
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	claim.Used = true
	claim.UsedAt = &settledAt
	claim.TxReference = &c.TxReference

	log.Info(LogMsgClaimConfirmed, "claim_id", claim.ClaimID, "wallet", wallet, "amount", claim.Amount, "tx_reference", c.TxReference)
	s.publish(ctx, event.NewClaimEvent(event.ClaimConfirmed, claim))
	return nil
}

func (s *Service) checkSignature(p domain.ClaimPayload, sigHex string) error {
	signer, err := s.signer.Recover(p, sigHex)
	if err != nil || signer != s.signer.Address() {
		return domain.Reject(domain.ReasonUnauthorizedSigner, "nonce", p.Nonce)
	}
	return nil
}

// reservationCutoff is the earliest expiresAt still held against the ceiling
func (s *Service) reservationCutoff(now time.Time) time.Time {
	return now.Add(-(s.config.ClockDrift + s.config.ReconcileGrace))
}

// checkExpiry treats expiry as terminal once at is past expiresAt plus drift
func (s *Service) checkExpiry(expiresAt int64, at time.Time) error {
	deadline := time.Unix(expiresAt, 0).Add(s.config.ClockDrift)
	if at.After(deadline) {
		return domain.Reject(domain.ReasonSignatureExpired, "expiresAt", expiresAt)
	}
	return nil
}

// rejected records the rejection and passes it through
func (s *Service) rejected(ctx context.Context, err error) error {
	if rej, ok := domain.AsRejection(err); ok {
		metrics.ClaimRejections.WithLabelValues(string(rej.Code)).Inc()
		logger.FromContext(ctx).Info(LogMsgClaimRejected, "reason", rej.Code, "context", rej.Context)
	}
	return err
}

func (s *Service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}

func payloadOf(c *domain.ClaimSignature) domain.ClaimPayload {
	return domain.ClaimPayload{
		ClaimID:   c.ClaimID,
		Wallet:    c.Wallet,
		Amount:    c.Amount,
		Nonce:     c.Nonce,
		ExpiresAt: c.ExpiresAt.Unix(),
	}
}

func signedClaim(c *domain.ClaimSignature, sig string, parts domain.SignatureParts, reused bool) *domain.SignedClaim {
	return &domain.SignedClaim{
		ClaimID:        c.ClaimID,
		Wallet:         c.Wallet,
		Amount:         c.Amount,
		Nonce:          c.Nonce,
		ExpiresAt:      c.ExpiresAt.Unix(),
		Signature:      sig,
		SignatureParts: parts,
		Reused:         reused,
	}
}

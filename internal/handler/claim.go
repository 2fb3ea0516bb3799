package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/logger"
)

// ClaimService is the claim pipeline as seen by the HTTP layer
type ClaimService interface {
	ComputeMaxClaimable(ctx context.Context, wallet string) (*domain.Ceiling, error)
	Issue(ctx context.Context, req domain.ClaimIssueRequest) (*domain.SignedClaim, error)
	Verify(ctx context.Context, r domain.ClaimRedemption) (*domain.ClaimSignature, error)
	Confirm(ctx context.Context, c domain.ClaimConfirmation) error
	SignerAddress() string
}

// IssueClaimRequest represents a request for a signed token claim
type IssueClaimRequest struct {
	Wallet          string `json:"wallet" validate:"required,wallet"`
	RequestedAmount int64  `json:"requestedAmount"`
	IdempotencyKey  string `json:"idempotencyKey,omitempty" validate:"max=128,excludesall=\x00\n\r\t"`
}

// VerifyClaimRequest is a signed payload presented before redemption
type VerifyClaimRequest struct {
	Wallet    string `json:"wallet" validate:"required,wallet"`
	Amount    int64  `json:"amount" validate:"required"`
	Nonce     uint64 `json:"nonce" validate:"required"`
	ExpiresAt int64  `json:"expiresAt" validate:"required"`
	Signature string `json:"signature" validate:"required,hexadecimal,len=132"`
}

// VerifyClaimResponse reports a redeemable claim
type VerifyClaimResponse struct {
	Valid     bool   `json:"valid"`
	ClaimID   string `json:"claimId"`
	Wallet    string `json:"wallet"`
	Amount    int64  `json:"amount"`
	Nonce     uint64 `json:"nonce"`
	ExpiresAt int64  `json:"expiresAt"`
	Signer    string `json:"signer"`
}

// ConfirmClaimRequest is the settlement report from the chain watcher.
// SettledAt is the block timestamp in unix seconds.
type ConfirmClaimRequest struct {
	Wallet      string `json:"wallet" validate:"required,wallet"`
	Nonce       uint64 `json:"nonce" validate:"required"`
	TxReference string `json:"txReference" validate:"required,max=128,excludesall=\x00\n\r\t "`
	SettledAt   *int64 `json:"settledAt,omitempty" validate:"omitempty,gt=0"`
}

// ClaimHandler serves the claim API
type ClaimHandler struct {
	svc ClaimService
}

// NewClaimHandler creates a new claim handler
func NewClaimHandler(svc ClaimService) *ClaimHandler {
	return &ClaimHandler{svc: svc}
}

// HandleIssue issues a signed claim
// @Summary Issue a token claim
// @Description Signs a single-use, time-bounded claim for at most the wallet's current ceiling. Repeating an idempotency key returns the same claim.
// @Tags claims
// @Accept json
// @Produce json
// @Param request body IssueClaimRequest true "Claim request"
// @Success 201 {object} domain.SignedClaim "Claim issued"
// @Success 200 {object} domain.SignedClaim "Existing claim for the idempotency key"
// @Failure 400 {object} ErrorResponse "invalid_amount or invalid_request"
// @Failure 404 {object} ErrorResponse "player_not_found"
// @Failure 422 {object} ErrorResponse "amount_exceeds_limit, with ceiling"
// @Router /api/v1/claims [post]
func (h *ClaimHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	var req IssueClaimRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpIssueClaim); err != nil {
		return
	}

	ctx := logger.WithWallet(r.Context(), req.Wallet)
	signed, err := h.svc.Issue(ctx, domain.ClaimIssueRequest{
		Wallet:          req.Wallet,
		RequestedAmount: req.RequestedAmount,
		IdempotencyKey:  req.IdempotencyKey,
	})
	if err != nil {
		respondServiceError(w, r.WithContext(ctx), OpIssueClaim, err)
		return
	}

	status := http.StatusCreated
	if signed.Reused {
		status = http.StatusOK
	}
	respondJSON(w, status, signed)
}

// HandleGetCeiling returns the wallet's current claimable amount
// @Summary Current claim ceiling
// @Tags claims
// @Produce json
// @Param wallet query string true "Wallet address"
// @Success 200 {object} domain.Ceiling
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "player_not_found"
// @Router /api/v1/claims/ceiling [get]
func (h *ClaimHandler) HandleGetCeiling(w http.ResponseWriter, r *http.Request) {
	wallet, ok := GetQueryParam(r, w, "wallet")
	if !ok {
		return
	}

	ceiling, err := h.svc.ComputeMaxClaimable(r.Context(), wallet)
	if err != nil {
		respondServiceError(w, r, OpGetCeiling, err)
		return
	}
	respondJSON(w, http.StatusOK, ceiling)
}

// HandleVerify checks a signed payload before redemption
// @Summary Verify a signed claim
// @Tags claims
// @Accept json
// @Produce json
// @Param request body VerifyClaimRequest true "Signed payload"
// @Success 200 {object} VerifyClaimResponse
// @Failure 401 {object} ErrorResponse "unauthorized_signer"
// @Failure 409 {object} ErrorResponse "signature_already_used"
// @Failure 410 {object} ErrorResponse "signature_expired"
// @Router /api/v1/claims/verify [post]
func (h *ClaimHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyClaimRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpVerifyClaim); err != nil {
		return
	}

	claim, err := h.svc.Verify(r.Context(), domain.ClaimRedemption{
		Wallet:    req.Wallet,
		Amount:    req.Amount,
		Nonce:     req.Nonce,
		ExpiresAt: req.ExpiresAt,
		Signature: req.Signature,
	})
	if err != nil {
		respondServiceError(w, r, OpVerifyClaim, err)
		return
	}

	respondJSON(w, http.StatusOK, VerifyClaimResponse{
		Valid:     true,
		ClaimID:   claim.ClaimID,
		Wallet:    claim.Wallet,
		Amount:    claim.Amount,
		Nonce:     claim.Nonce,
		ExpiresAt: claim.ExpiresAt.Unix(),
		Signer:    h.svc.SignerAddress(),
	})
}

// HandleConfirm records an on-chain settlement and debits the player
// @Summary Confirm a settled claim
// @Tags claims
// @Accept json
// @Param request body ConfirmClaimRequest true "Settlement"
// @Success 204
// @Failure 404 {object} ErrorResponse "claim_not_found"
// @Failure 409 {object} ErrorResponse "signature_already_used"
// @Failure 410 {object} ErrorResponse "signature_expired"
// @Security ApiKeyAuth
// @Router /api/v1/claims/confirm [post]
func (h *ClaimHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmClaimRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpConfirmClaim); err != nil {
		return
	}

	conf := domain.ClaimConfirmation{
		Wallet:      req.Wallet,
		Nonce:       req.Nonce,
		TxReference: req.TxReference,
	}
	if req.SettledAt != nil {
		settled := time.Unix(*req.SettledAt, 0)
		conf.SettledAt = &settled
	}

	if err := h.svc.Confirm(r.Context(), conf); err != nil {
		respondServiceError(w, r, OpConfirmClaim, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

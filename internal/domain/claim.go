package domain

import "time"

// ClaimTypeToken is the only claim type issued today
const ClaimTypeToken = "token_claim"

// ClaimSignature is a single-use, time-bounded signed token claim
type ClaimSignature struct {
	ClaimID        string         `json:"claim_id"`
	Wallet         string         `json:"wallet"`
	PlayerID       string         `json:"player_id"`
	Amount         int64          `json:"amount"`
	Nonce          uint64         `json:"nonce"`
	ExpiresAt      time.Time      `json:"expires_at"`
	Signature      *string        `json:"signature,omitempty"`
	Used           bool           `json:"used"`
	UsedAt         *time.Time     `json:"used_at,omitempty"`
	ClaimType      string         `json:"claim_type"`
	IdempotencyKey *string        `json:"idempotency_key,omitempty"`
	TxReference    *string        `json:"tx_reference,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// RedeemableAt reports whether the claim can still be redeemed at now
func (c *ClaimSignature) RedeemableAt(now time.Time) bool {
	return !c.Used && now.Before(c.ExpiresAt)
}

// ClaimPayload is the structured data covered by the claim signature
type ClaimPayload struct {
	ClaimID   string `json:"claimId"`
	Wallet    string `json:"wallet"`
	Amount    int64  `json:"amount"`
	Nonce     uint64 `json:"nonce"`
	ExpiresAt int64  `json:"expiresAt"`
}

// SignatureParts is the (v, r, s) split consumed by the settlement contract
type SignatureParts struct {
	V uint8  `json:"v"`
	R string `json:"r"`
	S string `json:"s"`
}

// SignedClaim is returned to the client after issuance
type SignedClaim struct {
	ClaimID        string         `json:"claimId"`
	Wallet         string         `json:"wallet"`
	Amount         int64          `json:"amount"`
	Nonce          uint64         `json:"nonce"`
	ExpiresAt      int64          `json:"expiresAt"`
	Signature      string         `json:"signature"`
	SignatureParts SignatureParts `json:"signatureParts"`
	Reused         bool           `json:"reused,omitempty"`
}

// Ceiling is the maximum token amount a player may currently claim
type Ceiling struct {
	Wallet   string        `json:"wallet"`
	Amount   int64         `json:"amount"`
	Gross    int64         `json:"gross"`
	Reserved int64         `json:"reserved"`
	Reason   CeilingReason `json:"reason"`
}

// CeilingReason explains the ceiling value
type CeilingReason string

const (
	CeilingOK       CeilingReason = "ok"
	CeilingNoValue  CeilingReason = "no_balance"
	CeilingReserved CeilingReason = "reserved_by_pending_claims"
)

// ClaimIssueRequest is the validated input to claim issuance
type ClaimIssueRequest struct {
	Wallet          string
	RequestedAmount int64
	IdempotencyKey  string
}

// ClaimConfirmation is the settlement event reported by the chain watcher.
// SettledAt is the block time when known; expiry is judged against it.
type ClaimConfirmation struct {
	Wallet      string
	Nonce       uint64
	TxReference string
	SettledAt   *time.Time
}

// ClaimRedemption is a signed payload presented for verification
type ClaimRedemption struct {
	Wallet    string
	Amount    int64
	Nonce     uint64
	ExpiresAt int64
	Signature string
}

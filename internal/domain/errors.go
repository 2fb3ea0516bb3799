package domain

import (
	"errors"
	"fmt"
)

// ReasonCode is the stable, machine-readable rejection reason returned to clients
type ReasonCode string

// Admission
const (
	ReasonRateLimited ReasonCode = "rate_limited"
	ReasonOutOfRange  ReasonCode = "out_of_range"
)

// Contention
const (
	ReasonConcurrentClaim ReasonCode = "concurrent_claim"
	ReasonNodeUnavailable ReasonCode = "node_unavailable"
)

// Validation
const (
	ReasonInvalidResourceType ReasonCode = "invalid_resource_type"
	ReasonPlayerNotFound      ReasonCode = "player_not_found"
	ReasonNodeNotFound        ReasonCode = "node_not_found"
	ReasonInvalidAmount       ReasonCode = "invalid_amount"
	ReasonInvalidRequest      ReasonCode = "invalid_request"
)

// Economic
const (
	ReasonAmountExceedsLimit ReasonCode = "amount_exceeds_limit"
)

// Signature
const (
	ReasonSignatureExpired     ReasonCode = "signature_expired"
	ReasonSignatureAlreadyUsed ReasonCode = "signature_already_used"
	ReasonUnauthorizedSigner   ReasonCode = "unauthorized_signer"
	ReasonClaimNotFound        ReasonCode = "claim_not_found"
)

// Error message string constants
const (
	ErrMsgRateLimited          = "rate limited"
	ErrMsgOutOfRange           = "node out of range"
	ErrMsgConcurrentClaim      = "node is being claimed by another player"
	ErrMsgNodeUnavailable      = "node is not available"
	ErrMsgInvalidResourceType  = "invalid resource type"
	ErrMsgPlayerNotFound       = "player not found"
	ErrMsgNodeNotFound         = "node not found"
	ErrMsgInvalidAmount        = "invalid amount"
	ErrMsgAmountExceedsLimit   = "amount exceeds claimable limit"
	ErrMsgSignatureExpired     = "signature expired"
	ErrMsgSignatureAlreadyUsed = "signature already used"
	ErrMsgUnauthorizedSigner   = "unauthorized signer"
	ErrMsgClaimNotFound        = "claim not found"
	ErrMsgAttemptNotFound      = "mining attempt not found"
	ErrMsgDuplicateAttempt     = "mining attempt already recorded"
	ErrMsgDuplicateClaim       = "claim already issued for idempotency key"
	ErrMsgUsernameTaken        = "username already taken"
	ErrMsgInvalidInput         = "invalid input"
)

// Sentinel errors, one per reason code. Wrap with fmt.Errorf("%w: ...") for context.
var (
	ErrRateLimited          = errors.New(ErrMsgRateLimited)
	ErrOutOfRange           = errors.New(ErrMsgOutOfRange)
	ErrConcurrentClaim      = errors.New(ErrMsgConcurrentClaim)
	ErrNodeUnavailable      = errors.New(ErrMsgNodeUnavailable)
	ErrInvalidResourceType  = errors.New(ErrMsgInvalidResourceType)
	ErrPlayerNotFound       = errors.New(ErrMsgPlayerNotFound)
	ErrNodeNotFound         = errors.New(ErrMsgNodeNotFound)
	ErrInvalidAmount        = errors.New(ErrMsgInvalidAmount)
	ErrAmountExceedsLimit   = errors.New(ErrMsgAmountExceedsLimit)
	ErrSignatureExpired     = errors.New(ErrMsgSignatureExpired)
	ErrSignatureAlreadyUsed = errors.New(ErrMsgSignatureAlreadyUsed)
	ErrUnauthorizedSigner   = errors.New(ErrMsgUnauthorizedSigner)
	ErrClaimNotFound        = errors.New(ErrMsgClaimNotFound)
	ErrInvalidInput         = errors.New(ErrMsgInvalidInput)

	// Storage-level signals, never shown to clients directly
	ErrAttemptNotFound  = errors.New(ErrMsgAttemptNotFound)
	ErrDuplicateAttempt = errors.New(ErrMsgDuplicateAttempt)
	ErrDuplicateClaim   = errors.New(ErrMsgDuplicateClaim)
	ErrUsernameTaken    = errors.New(ErrMsgUsernameTaken)
)

var reasonErrors = map[ReasonCode]error{
	ReasonRateLimited:          ErrRateLimited,
	ReasonOutOfRange:           ErrOutOfRange,
	ReasonConcurrentClaim:      ErrConcurrentClaim,
	ReasonNodeUnavailable:      ErrNodeUnavailable,
	ReasonInvalidResourceType:  ErrInvalidResourceType,
	ReasonPlayerNotFound:       ErrPlayerNotFound,
	ReasonNodeNotFound:         ErrNodeNotFound,
	ReasonInvalidAmount:        ErrInvalidAmount,
	ReasonInvalidRequest:       ErrInvalidInput,
	ReasonAmountExceedsLimit:   ErrAmountExceedsLimit,
	ReasonSignatureExpired:     ErrSignatureExpired,
	ReasonSignatureAlreadyUsed: ErrSignatureAlreadyUsed,
	ReasonUnauthorizedSigner:   ErrUnauthorizedSigner,
	ReasonClaimNotFound:        ErrClaimNotFound,
}

// Rejection is a typed failure carrying a reason code and the context a client
// needs to self-correct (current ceiling, node status, retry delay...).
type Rejection struct {
	Code    ReasonCode
	Message string
	Context map[string]any
}

// Reject builds a Rejection for code with optional key/value context pairs
func Reject(code ReasonCode, kv ...any) *Rejection {
	r := &Rejection{Code: code}
	if sentinel, ok := reasonErrors[code]; ok {
		r.Message = sentinel.Error()
	}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		if r.Context == nil {
			r.Context = make(map[string]any)
		}
		r.Context[key] = kv[i+1]
	}
	return r
}

func (r *Rejection) Error() string {
	if len(r.Context) == 0 {
		return fmt.Sprintf("%s: %s", r.Code, r.Message)
	}
	return fmt.Sprintf("%s: %s %v", r.Code, r.Message, r.Context)
}

// Unwrap lets errors.Is match the sentinel behind the reason code
func (r *Rejection) Unwrap() error {
	return reasonErrors[r.Code]
}

// Retryable reports whether the same request may succeed later without changes
func (r *Rejection) Retryable() bool {
	switch r.Code {
	case ReasonRateLimited, ReasonOutOfRange:
		return true
	default:
		return false
	}
}

// AsRejection extracts a Rejection from err
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// ReasonOf returns the reason code for err, or "" when err is not a known domain failure
func ReasonOf(err error) ReasonCode {
	if r, ok := AsRejection(err); ok {
		return r.Code
	}
	for code, sentinel := range reasonErrors {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}

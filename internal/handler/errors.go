package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
const (
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgGenericServerError    = "Something went wrong"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidLimit      = "limit must be a positive integer"
	ErrMsgInvalidSince      = "since must be unix seconds"

	ErrMsgAttemptNotFound = "Attempt not found"
	ErrMsgJournalDisabled = "Event journal is not enabled"
)

// Operation names used in logs
const (
	OpIssueClaim   = "Issue claim"
	OpGetCeiling   = "Get ceiling"
	OpVerifyClaim  = "Verify claim"
	OpConfirmClaim = "Confirm claim"
	OpListFlagged  = "List flagged attempts"
	OpGetAttempt   = "Get attempt"
	OpListEvents   = "List journal events"
)

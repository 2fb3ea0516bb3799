package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/eventlog"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditReader reads the mining attempt log
type AuditReader interface {
	GetAttempt(ctx context.Context, attemptID string) (*domain.MiningAttempt, error)
	ListFlaggedAttempts(ctx context.Context, limit int) ([]domain.MiningAttempt, error)
}

// JournalReader reads the economy event journal
type JournalReader interface {
	Query(ctx context.Context, filter eventlog.Filter) ([]eventlog.Entry, error)
}

// AttemptView is an audited attempt with its stored outcome inlined
type AttemptView struct {
	AttemptID      string             `json:"attemptId"`
	PlayerID       *string            `json:"playerId,omitempty"`
	Wallet         string             `json:"wallet"`
	SessionID      string             `json:"sessionId"`
	NodeID         string             `json:"nodeId"`
	Position       domain.Position    `json:"position"`
	DistanceToNode float64            `json:"distanceToNode"`
	Success        bool               `json:"success"`
	FailureReason  *domain.ReasonCode `json:"failureReason,omitempty"`
	ResourceType   string             `json:"resourceType,omitempty"`
	ResourceAmount int                `json:"resourceAmount"`
	Flags          []domain.FraudFlag `json:"flags"`
	Outcome        json.RawMessage    `json:"outcome,omitempty"`
	AttemptedAt    time.Time          `json:"attemptedAt"`
}

func newAttemptView(a *domain.MiningAttempt) AttemptView {
	v := AttemptView{
		AttemptID:      a.AttemptID,
		PlayerID:       a.PlayerID,
		Wallet:         a.Wallet,
		SessionID:      a.SessionID,
		NodeID:         a.NodeID,
		Position:       a.Position,
		DistanceToNode: a.DistanceToNode,
		Success:        a.Success,
		FailureReason:  a.FailureReason,
		ResourceType:   string(a.ResourceType),
		ResourceAmount: a.ResourceAmount,
		Flags:          a.Flags,
		AttemptedAt:    a.AttemptedAt,
	}
	if v.Flags == nil {
		v.Flags = []domain.FraudFlag{}
	}
	if len(a.Outcome) > 0 && json.Valid(a.Outcome) {
		v.Outcome = json.RawMessage(a.Outcome)
	}
	return v
}

// AuditHandler serves operator reads over the attempt log and journal
type AuditHandler struct {
	attempts AuditReader
	journal  JournalReader
}

// NewAuditHandler creates a new audit handler. journal may be nil.
func NewAuditHandler(attempts AuditReader, journal JournalReader) *AuditHandler {
	return &AuditHandler{attempts: attempts, journal: journal}
}

// HandleListFlagged lists the most recent flagged attempts
// @Summary Flagged mining attempts
// @Tags admin
// @Produce json
// @Param limit query int false "Page size (default 50, max 500)"
// @Success 200 {array} AttemptView
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/attempts/flagged [get]
func (h *AuditHandler) HandleListFlagged(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	attempts, err := h.attempts.ListFlaggedAttempts(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, OpListFlagged, err)
		return
	}

	views := make([]AttemptView, 0, len(attempts))
	for i := range attempts {
		views = append(views, newAttemptView(&attempts[i]))
	}
	respondJSON(w, http.StatusOK, views)
}

// HandleGetAttempt returns one audited attempt
// @Summary Audited mining attempt
// @Tags admin
// @Produce json
// @Param attemptId path string true "Attempt ID"
// @Success 200 {object} AttemptView
// @Failure 404 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/attempts/{attemptId} [get]
func (h *AuditHandler) HandleGetAttempt(w http.ResponseWriter, r *http.Request) {
	attemptID := chi.URLParam(r, "attemptId")
	if attemptID == "" {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Code: domain.ReasonInvalidRequest, Message: ErrMsgInvalidRequestSummary})
		return
	}

	attempt, err := h.attempts.GetAttempt(r.Context(), attemptID)
	if errors.Is(err, domain.ErrAttemptNotFound) {
		respondError(w, http.StatusNotFound, ErrMsgAttemptNotFound)
		return
	}
	if err != nil {
		respondServiceError(w, r, OpGetAttempt, err)
		return
	}
	respondJSON(w, http.StatusOK, newAttemptView(attempt))
}

// HandleListEvents queries the economy journal
// @Summary Economy journal
// @Tags admin
// @Produce json
// @Param subject query string false "Wallet or player ID"
// @Param type query string false "Event type, e.g. claim.issued"
// @Param since query int false "Unix seconds lower bound"
// @Param limit query int false "Page size (default 50, max 500)"
// @Success 200 {array} eventlog.Entry
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/events [get]
func (h *AuditHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		respondError(w, http.StatusNotFound, ErrMsgJournalDisabled)
		return
	}

	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := eventlog.Filter{Limit: limit}
	if subject := q.Get("subject"); subject != "" {
		filter.SubjectID = &subject
	}
	if t := q.Get("type"); t != "" {
		filter.EventType = &t
	}
	if since := q.Get("since"); since != "" {
		secs, err := strconv.ParseInt(since, 10, 64)
		if err != nil || secs < 0 {
			respondJSON(w, http.StatusBadRequest, ErrorResponse{Code: domain.ReasonInvalidRequest, Message: ErrMsgInvalidSince})
			return
		}
		ts := time.Unix(secs, 0)
		filter.Since = &ts
	}

	entries, err := h.journal.Query(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, OpListEvents, err)
		return
	}
	if entries == nil {
		entries = []eventlog.Entry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultAuditLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Code: domain.ReasonInvalidRequest, Message: ErrMsgInvalidLimit})
		return 0, false
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	return limit, true
}

package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/logger"
)

// ErrorResponse is the body of every failed API call. Code is one of the
// stable reason codes; Context carries what the client needs to self-correct.
type ErrorResponse struct {
	Code    domain.ReasonCode `json:"code,omitempty"`
	Message string            `json:"message"`
	Ceiling *int64            `json:"ceiling,omitempty"`
	Context map[string]any    `json:"context,omitempty"`
}

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Code    domain.ReasonCode `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

// Encoded bodies above this size are not returned to the pool
const maxPooledBuffer = 64 << 10

var bufferPool = sync.Pool{
	New: func() any { return bytes.NewBuffer(make([]byte, 0, 512)) },
}

// respondJSON encodes payload before writing the status so an encoding
// failure can still be reported as a 500
func respondJSON(w http.ResponseWriter, status int, payload any) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		if buf.Cap() <= maxPooledBuffer {
			buf.Reset()
			bufferPool.Put(buf)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"internal error"}` + "\n"))
		return
	}

	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("Failed to write response", "error", err)
	}
}

// respondError sends a JSON error response without a reason code
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Message: message})
}

// reasonStatus maps reason codes to HTTP status codes
var reasonStatus = map[domain.ReasonCode]int{
	domain.ReasonRateLimited:          http.StatusTooManyRequests,
	domain.ReasonOutOfRange:           http.StatusUnprocessableEntity,
	domain.ReasonConcurrentClaim:      http.StatusConflict,
	domain.ReasonNodeUnavailable:      http.StatusConflict,
	domain.ReasonInvalidResourceType:  http.StatusBadRequest,
	domain.ReasonPlayerNotFound:       http.StatusNotFound,
	domain.ReasonNodeNotFound:         http.StatusNotFound,
	domain.ReasonInvalidAmount:        http.StatusBadRequest,
	domain.ReasonInvalidRequest:       http.StatusBadRequest,
	domain.ReasonAmountExceedsLimit:   http.StatusUnprocessableEntity,
	domain.ReasonSignatureExpired:     http.StatusGone,
	domain.ReasonSignatureAlreadyUsed: http.StatusConflict,
	domain.ReasonUnauthorizedSigner:   http.StatusUnauthorized,
	domain.ReasonClaimNotFound:        http.StatusNotFound,
}

// StatusForReason returns the HTTP status for a reason code
func StatusForReason(code domain.ReasonCode) int {
	if status, ok := reasonStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondServiceError writes a rejection with its reason code, or a generic
// 500 for infrastructure failures so internals never reach the client
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	log := logger.FromContext(r.Context())

	rej, ok := domain.AsRejection(err)
	if !ok {
		log.Error(opName+" failed", "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgGenericServerError)
		return
	}

	log.Info(opName+" rejected", "reason", rej.Code)

	body := ErrorResponse{Code: rej.Code, Message: rej.Message}
	for k, v := range rej.Context {
		if c, ok := v.(int64); ok && k == "ceiling" {
			body.Ceiling = &c
			continue
		}
		if body.Context == nil {
			body.Context = make(map[string]any)
		}
		body.Context[k] = v
	}
	if rej.Code == domain.ReasonRateLimited {
		if ms, ok := rej.Context["retryAfterMs"].(int64); ok {
			w.Header().Set("Retry-After", retryAfterSeconds(ms))
		}
	}
	respondJSON(w, StatusForReason(rej.Code), body)
}

func retryAfterSeconds(ms int64) string {
	secs := (ms + 999) / 1000
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}

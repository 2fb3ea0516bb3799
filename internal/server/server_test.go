package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/handler"
	"github.com/Cleo-11/OceanX/mocks"
)

type okPool struct{}

func (okPool) Ping(ctx context.Context) error { return nil }
func (okPool) Close()                         {}

func newTestServer(svc *mocks.MockClaimService) http.Handler {
	return NewServer(Config{APIKey: "k", RequestsPerMinute: 6000, Burst: 100}, okPool{}, svc, nil, nil, nil).Handler()
}

func TestServer_Routes(t *testing.T) {
	svc := new(mocks.MockClaimService)
	svc.On("ComputeMaxClaimable", mock.Anything, "0x00000000000000000000000000000000000000aa").
		Return(&domain.Ceiling{Amount: 70, Reason: domain.CeilingOK}, nil)
	h := newTestServer(svc)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"liveness", http.MethodGet, "/healthz", http.StatusOK},
		{"readiness", http.MethodGet, "/readyz", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"ceiling", http.MethodGet, "/api/v1/claims/ceiling?wallet=0x00000000000000000000000000000000000000aa", http.StatusOK},
		{"confirm without key", http.MethodPost, "/api/v1/claims/confirm", http.StatusUnauthorized},
		{"unknown route", http.MethodGet, "/api/v1/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestServer_ConfirmWithKey(t *testing.T) {
	svc := new(mocks.MockClaimService)
	svc.On("Confirm", mock.Anything, domain.ClaimConfirmation{
		Wallet: "0x00000000000000000000000000000000000000aa", Nonce: 1, TxReference: "0xfeed",
	}).Return(nil)
	h := newTestServer(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/claims/confirm",
		bytes.NewBufferString(`{"wallet":"0x00000000000000000000000000000000000000aa","nonce":1,"txReference":"0xfeed"}`))
	req.Header.Set(HeaderAPIKey, "k")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
	svc.AssertExpectations(t)
}

func TestServer_MountsStreams(t *testing.T) {
	stream := func(code int) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(code) })
	}
	h := NewServer(Config{APIKey: "k"}, okPool{}, new(mocks.MockClaimService), nil,
		stream(http.StatusSwitchingProtocols), stream(http.StatusAccepted)).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, PathRealtime, nil))
	assert.Equal(t, http.StatusSwitchingProtocols, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, PathEvents, nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType), "security headers still apply")
}

func TestServer_AdminRequiresKey(t *testing.T) {
	attempts := new(mocks.MockMiningRepository)
	attempts.On("ListFlaggedAttempts", mock.Anything, 50).Return([]domain.MiningAttempt{}, nil)
	h := NewServer(Config{APIKey: "k"}, okPool{}, new(mocks.MockClaimService),
		handler.NewAuditHandler(attempts, nil), nil, nil).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/attempts/flagged", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/attempts/flagged", nil)
	req.Header.Set(HeaderAPIKey, "k")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	attempts.AssertExpectations(t)
}

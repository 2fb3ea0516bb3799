package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/handler"
	"github.com/Cleo-11/OceanX/mocks"
)

const testWallet = "0x00000000000000000000000000000000000000aa"

var testSignature = "0x" + strings.Repeat("ab", 65)

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestClaimHandler_Issue(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(*mocks.MockClaimService)
		expectedStatus int
		expectedCode   domain.ReasonCode
		check          func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "issued",
			body: handler.IssueClaimRequest{Wallet: testWallet, RequestedAmount: 70},
			setupMock: func(m *mocks.MockClaimService) {
				m.On("Issue", mock.Anything, domain.ClaimIssueRequest{Wallet: testWallet, RequestedAmount: 70}).
					Return(&domain.SignedClaim{ClaimID: "c1", Wallet: testWallet, Amount: 70, Nonce: 1, ExpiresAt: 1700000300, Signature: testSignature}, nil)
			},
			expectedStatus: http.StatusCreated,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var signed domain.SignedClaim
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&signed))
				assert.Equal(t, uint64(1), signed.Nonce)
				assert.Equal(t, int64(70), signed.Amount)
			},
		},
		{
			name: "idempotent reuse answers 200",
			body: handler.IssueClaimRequest{Wallet: testWallet, RequestedAmount: 70, IdempotencyKey: "k1"},
			setupMock: func(m *mocks.MockClaimService) {
				m.On("Issue", mock.Anything, mock.Anything).
					Return(&domain.SignedClaim{ClaimID: "c1", Nonce: 1, Reused: true}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "over the ceiling",
			body: handler.IssueClaimRequest{Wallet: testWallet, RequestedAmount: 71},
			setupMock: func(m *mocks.MockClaimService) {
				m.On("Issue", mock.Anything, mock.Anything).
					Return(nil, domain.Reject(domain.ReasonAmountExceedsLimit, "ceiling", int64(70), "reason", domain.CeilingOK))
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   domain.ReasonAmountExceedsLimit,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				body := decodeError(t, rec)
				require.NotNil(t, body.Ceiling)
				assert.Equal(t, int64(70), *body.Ceiling)
				assert.Equal(t, "ok", body.Context["reason"])
			},
		},
		{
			name: "non-positive amount",
			body: handler.IssueClaimRequest{Wallet: testWallet, RequestedAmount: 0},
			setupMock: func(m *mocks.MockClaimService) {
				m.On("Issue", mock.Anything, mock.Anything).Return(nil, domain.Reject(domain.ReasonInvalidAmount))
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   domain.ReasonInvalidAmount,
		},
		{
			name:           "malformed wallet never reaches the service",
			body:           handler.IssueClaimRequest{Wallet: "bob", RequestedAmount: 5},
			setupMock:      func(m *mocks.MockClaimService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   domain.ReasonInvalidRequest,
		},
		{
			name:           "unknown fields are refused",
			body:           map[string]interface{}{"wallet": testWallet, "requestedAmount": 5, "bonus": 1},
			setupMock:      func(m *mocks.MockClaimService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   domain.ReasonInvalidRequest,
		},
		{
			name: "infrastructure errors are hidden",
			body: handler.IssueClaimRequest{Wallet: testWallet, RequestedAmount: 5},
			setupMock: func(m *mocks.MockClaimService) {
				m.On("Issue", mock.Anything, mock.Anything).Return(nil, errors.New("pq: connection refused at 10.0.0.3"))
			},
			expectedStatus: http.StatusInternalServerError,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.NotContains(t, rec.Body.String(), "10.0.0.3")
				assert.Contains(t, rec.Body.String(), handler.ErrMsgGenericServerError)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockClaimService)
			tt.setupMock(svc)
			h := handler.NewClaimHandler(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/claims", jsonBody(t, tt.body))
			rec := httptest.NewRecorder()
			h.HandleIssue(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedCode != "" {
				var body handler.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedCode, body.Code)
			}
			if tt.check != nil {
				tt.check(t, rec)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestClaimHandler_GetCeiling(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := new(mocks.MockClaimService)
		svc.On("ComputeMaxClaimable", mock.Anything, testWallet).
			Return(&domain.Ceiling{Wallet: testWallet, Amount: 70, Gross: 70, Reason: domain.CeilingOK}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/claims/ceiling?wallet="+testWallet, nil)
		rec := httptest.NewRecorder()
		handler.NewClaimHandler(svc).HandleGetCeiling(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"wallet":"`+testWallet+`","amount":70,"gross":70,"reserved":0,"reason":"ok"}`, rec.Body.String())
	})

	t.Run("missing wallet", func(t *testing.T) {
		svc := new(mocks.MockClaimService)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/claims/ceiling", nil)
		rec := httptest.NewRecorder()
		handler.NewClaimHandler(svc).HandleGetCeiling(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "ComputeMaxClaimable", mock.Anything, mock.Anything)
	})

	t.Run("unknown player", func(t *testing.T) {
		svc := new(mocks.MockClaimService)
		svc.On("ComputeMaxClaimable", mock.Anything, testWallet).Return(nil, domain.Reject(domain.ReasonPlayerNotFound))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/claims/ceiling?wallet="+testWallet, nil)
		rec := httptest.NewRecorder()
		handler.NewClaimHandler(svc).HandleGetCeiling(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, domain.ReasonPlayerNotFound, decodeError(t, rec).Code)
	})
}

func TestClaimHandler_Verify(t *testing.T) {
	body := handler.VerifyClaimRequest{Wallet: testWallet, Amount: 70, Nonce: 1, ExpiresAt: 1700000300, Signature: testSignature}
	redemption := domain.ClaimRedemption{Wallet: testWallet, Amount: 70, Nonce: 1, ExpiresAt: 1700000300, Signature: testSignature}

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"valid", nil, http.StatusOK},
		{"expired", domain.Reject(domain.ReasonSignatureExpired), http.StatusGone},
		{"used", domain.Reject(domain.ReasonSignatureAlreadyUsed), http.StatusConflict},
		{"foreign signer", domain.Reject(domain.ReasonUnauthorizedSigner), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockClaimService)
			if tt.err != nil {
				svc.On("Verify", mock.Anything, redemption).Return(nil, tt.err)
			} else {
				svc.On("Verify", mock.Anything, redemption).Return(&domain.ClaimSignature{
					ClaimID: "c1", Wallet: testWallet, Amount: 70, Nonce: 1, ExpiresAt: time.Unix(1700000300, 0),
				}, nil)
				svc.On("SignerAddress").Return("0x1111111111111111111111111111111111111111")
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/claims/verify", jsonBody(t, body))
			rec := httptest.NewRecorder()
			handler.NewClaimHandler(svc).HandleVerify(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.err == nil {
				var resp handler.VerifyClaimResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.True(t, resp.Valid)
				assert.Equal(t, int64(1700000300), resp.ExpiresAt)
			}
			svc.AssertExpectations(t)
		})
	}

	t.Run("short signature", func(t *testing.T) {
		svc := new(mocks.MockClaimService)
		bad := body
		bad.Signature = "0xabcd"
		req := httptest.NewRequest(http.MethodPost, "/api/v1/claims/verify", jsonBody(t, bad))
		rec := httptest.NewRecorder()
		handler.NewClaimHandler(svc).HandleVerify(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestClaimHandler_Confirm(t *testing.T) {
	t.Run("settled", func(t *testing.T) {
		svc := new(mocks.MockClaimService)
		settled := time.Unix(1700000100, 0)
		svc.On("Confirm", mock.Anything, domain.ClaimConfirmation{
			Wallet: testWallet, Nonce: 3, TxReference: "0xfeed", SettledAt: &settled,
		}).Return(nil)

		at := settled.Unix()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/claims/confirm",
			jsonBody(t, handler.ConfirmClaimRequest{Wallet: testWallet, Nonce: 3, TxReference: "0xfeed", SettledAt: &at}))
		rec := httptest.NewRecorder()
		handler.NewClaimHandler(svc).HandleConfirm(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing tx reference", func(t *testing.T) {
		svc := new(mocks.MockClaimService)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/claims/confirm",
			jsonBody(t, handler.ConfirmClaimRequest{Wallet: testWallet, Nonce: 3}))
		rec := httptest.NewRecorder()
		handler.NewClaimHandler(svc).HandleConfirm(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
	})

	t.Run("already settled elsewhere", func(t *testing.T) {
		svc := new(mocks.MockClaimService)
		svc.On("Confirm", mock.Anything, mock.Anything).Return(domain.Reject(domain.ReasonSignatureAlreadyUsed, "nonce", uint64(3)))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/claims/confirm",
			jsonBody(t, handler.ConfirmClaimRequest{Wallet: testWallet, Nonce: 3, TxReference: "0xother"}))
		rec := httptest.NewRecorder()
		handler.NewClaimHandler(svc).HandleConfirm(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, domain.ReasonSignatureAlreadyUsed, decodeError(t, rec).Code)
	})
}

func TestStatusForReason(t *testing.T) {
	assert.Equal(t, http.StatusTooManyRequests, handler.StatusForReason(domain.ReasonRateLimited))
	assert.Equal(t, http.StatusConflict, handler.StatusForReason(domain.ReasonConcurrentClaim))
	assert.Equal(t, http.StatusInternalServerError, handler.StatusForReason("mystery"))
}

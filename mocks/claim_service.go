package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Cleo-11/OceanX/internal/domain"
)

// MockClaimService is a mock of handler.ClaimService
type MockClaimService struct {
	mock.Mock
}

func (m *MockClaimService) ComputeMaxClaimable(ctx context.Context, wallet string) (*domain.Ceiling, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ceiling), args.Error(1)
}

func (m *MockClaimService) Issue(ctx context.Context, req domain.ClaimIssueRequest) (*domain.SignedClaim, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SignedClaim), args.Error(1)
}

func (m *MockClaimService) Verify(ctx context.Context, r domain.ClaimRedemption) (*domain.ClaimSignature, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClaimSignature), args.Error(1)
}

func (m *MockClaimService) Confirm(ctx context.Context, c domain.ClaimConfirmation) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockClaimService) SignerAddress() string {
	return m.Called().String(0)
}

package admission

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/mocks"
)

func TestNodePositions_CachesLookups(t *testing.T) {
	repo := new(mocks.MockNodeRepository)
	repo.On("GetNode", mock.Anything, "s1", "n1").
		Return(&domain.ResourceNode{SessionID: "s1", NodeID: "n1", Position: domain.Position{X: 1, Y: 2, Z: 3}}, nil).
		Once()

	positions, err := NewNodePositions(repo, 8)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		pos, err := positions.Position(context.Background(), "s1", "n1")
		require.NoError(t, err)
		assert.Equal(t, domain.Position{X: 1, Y: 2, Z: 3}, pos)
	}
	repo.AssertNumberOfCalls(t, "GetNode", 1)
}

func TestNodePositions_NotFoundIsNotCached(t *testing.T) {
	repo := new(mocks.MockNodeRepository)
	repo.On("GetNode", mock.Anything, "s1", "ghost").Return(nil, domain.ErrNodeNotFound).Twice()

	positions, err := NewNodePositions(repo, 8)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := positions.Position(context.Background(), "s1", "ghost")
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	}
	repo.AssertExpectations(t)
}

package repository

import (
	"context"

	"github.com/Cleo-11/OceanX/internal/domain"
)

// PlayerRepository handles player account persistence
type PlayerRepository interface {
	// GetPlayerByWallet returns the player or domain.ErrPlayerNotFound
	GetPlayerByWallet(ctx context.Context, wallet string) (*domain.Player, error)

	// EnsurePlayer creates the player for wallet if missing and returns it
	EnsurePlayer(ctx context.Context, wallet, username, usernameKey string) (*domain.Player, error)
}

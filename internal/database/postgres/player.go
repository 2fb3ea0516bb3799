package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Cleo-11/OceanX/internal/domain"
)

// PlayerRepository implements repository.PlayerRepository for PostgreSQL
type PlayerRepository struct {
	db *pgxpool.Pool
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// GetPlayerByWallet retrieves a player by normalized wallet address
func (r *PlayerRepository) GetPlayerByWallet(ctx context.Context, wallet string) (*domain.Player, error) {
	p, err := getPlayerByWallet(ctx, r.db, wallet)
	if err != nil {
		if errors.Is(err, domain.ErrPlayerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// EnsurePlayer creates the player row on first sight of a wallet
func (r *PlayerRepository) EnsurePlayer(ctx context.Context, wallet, username, usernameKey string) (*domain.Player, error) {
	p, err := scanPlayer(r.db.QueryRow(ctx, queryEnsurePlayer, wallet, username, usernameKey))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUsernameTaken, username)
		}
		return nil, fmt.Errorf("failed to ensure player: %w", err)
	}
	return p, nil
}

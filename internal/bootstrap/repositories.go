package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Cleo-11/OceanX/internal/database/postgres"
	"github.com/Cleo-11/OceanX/internal/eventlog"
)

// Repositories holds all repository implementations used by the application.
type Repositories struct {
	Players *postgres.PlayerRepository
	Nodes   *postgres.NodeRepository
	Mining  *postgres.MiningRepository
	Claims  *postgres.ClaimRepository
	Journal eventlog.Repository
}

// InitializeRepositories creates all repository implementations over one pool.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Players: postgres.NewPlayerRepository(dbPool),
		Nodes:   postgres.NewNodeRepository(dbPool),
		Mining:  postgres.NewMiningRepository(dbPool),
		Claims:  postgres.NewClaimRepository(dbPool),
		Journal: postgres.NewEventLogRepository(dbPool),
	}
}

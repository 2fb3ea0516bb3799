package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Cleo-11/OceanX/internal/admission"
	"github.com/Cleo-11/OceanX/internal/claim"
	"github.com/Cleo-11/OceanX/internal/config"
	"github.com/Cleo-11/OceanX/internal/database"
	"github.com/Cleo-11/OceanX/internal/event"
	"github.com/Cleo-11/OceanX/internal/eventlog"
	"github.com/Cleo-11/OceanX/internal/handler"
	"github.com/Cleo-11/OceanX/internal/ledger"
	"github.com/Cleo-11/OceanX/internal/mining"
	"github.com/Cleo-11/OceanX/internal/scheduler"
	"github.com/Cleo-11/OceanX/internal/server"
	"github.com/Cleo-11/OceanX/internal/sse"
	"github.com/Cleo-11/OceanX/internal/transport/ws"
	"github.com/Cleo-11/OceanX/internal/worker"
)

// App is the fully wired game server
type App struct {
	cfg *config.Config

	Pool      *pgxpool.Pool
	Repos     *Repositories
	Ledger    *ledger.Service
	Processor *mining.Processor
	Filter    *admission.Filter
	Claims    *claim.Service
	Journal   eventlog.Service
	Hub       *sse.Hub
	Server    *server.Server

	publisher *event.ResilientPublisher
	workers   *worker.Pool
	scheduler *scheduler.Scheduler
	redis     *redis.Client
}

// NewApp connects storage, applies migrations, seeds configured layouts and
// wires every service. Nothing is started until Run.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{cfg: cfg}

	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
		ApplicationName: cfg.ServiceName,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDatabase, err)
	}
	app.Pool = pool
	slog.Info(LogMsgDatabaseConnected, "host", cfg.DBHost, "db", cfg.DBName)

	if err := app.build(ctx); err != nil {
		if app.publisher != nil {
			_ = app.publisher.Shutdown(ctx)
		}
		app.closeStores()
		return nil, err
	}
	return app, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.cfg

	migrateCtx, cancel := context.WithTimeout(ctx, MigrationTimeout)
	defer cancel()
	if err := database.Migrate(migrateCtx, a.Pool); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
	}
	slog.Info(LogMsgMigrationsApplied)

	bus, publisher, err := InitializeEventSystem(cfg)
	if err != nil {
		return err
	}
	a.publisher = publisher

	a.Repos = InitializeRepositories(a.Pool)
	a.Ledger = ledger.NewService(a.Repos.Nodes, publisher)

	if _, err := SeedLayouts(ctx, cfg.NodeLayoutDir, a.Ledger); err != nil {
		return err
	}

	store, redisClient, err := NewAdmissionStore(ctx, cfg)
	if err != nil {
		return err
	}
	a.redis = redisClient

	positions, err := admission.NewNodePositions(a.Repos.Nodes, cfg.NodeCacheSize)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedPositionCache, err)
	}

	a.Processor = mining.NewProcessor(a.Repos.Mining, publisher, mining.Config{
		RapidSuccessionWindow: cfg.RapidSuccessionWindow,
		MaxRange:              cfg.MaxMiningRange,
	})
	a.Filter = admission.NewFilter(store, positions, a.Processor, publisher, admission.Config{
		WalletLimit:     cfg.WalletAttemptsPerMinute,
		ConnectionLimit: cfg.ConnectionAttemptsPerMinute,
		MaxRange:        cfg.MaxMiningRange,
	})

	signer, err := claim.NewSigner(cfg.ClaimSignerKey, cfg.ClaimContractAddress, cfg.ChainID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedCreateSigner, err)
	}
	slog.Info(LogMsgClaimSignerReady, "signer", signer.Address().Hex(), "chain_id", cfg.ChainID)

	a.Claims = claim.NewService(a.Repos.Claims, signer, publisher, claim.Config{
		TTL:            cfg.ClaimTTL,
		ClockDrift:     cfg.ClockDriftTolerance,
		ReconcileGrace: cfg.ClaimReconcileGrace,
	})

	a.Journal = eventlog.NewService(a.Repos.Journal)
	a.Hub = sse.NewHub()

	if err := RegisterEventHandlers(EventHandlerDependencies{
		EventBus: bus,
		Journal:  a.Journal,
		Hub:      a.Hub,
	}); err != nil {
		return err
	}

	gateway := ws.NewGateway(a.Filter, a.Ledger, a.Repos.Players, a.Hub, ws.Config{
		AllowedOrigins: cfg.AllowedOrigins,
		MaxRange:       a.Filter.MaxRange(),
	})

	a.Server = server.NewServer(server.Config{
		Port:              cfg.Port,
		APIKey:            cfg.APIKey,
		TrustedProxies:    cfg.TrustedProxies,
		RequestsPerMinute: float64(cfg.ClaimRequestsPerMinute),
		Burst:             cfg.ClaimBurst,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		Signer:            signer.Address().Hex(),
		ReadinessChecks:   a.readinessChecks(),
	}, a.Pool, a.Claims, handler.NewAuditHandler(a.Repos.Mining, a.Journal), gateway, sse.Handler(a.Hub))

	a.workers = worker.NewPool(cfg.WorkerCount, WorkerQueueSize)
	a.scheduler = scheduler.New(a.workers)
	return nil
}

// readinessChecks probes the shared admission store when redis is configured
func (a *App) readinessChecks() []handler.ReadinessCheck {
	if a.redis == nil {
		return nil
	}
	return []handler.ReadinessCheck{{
		Name:  "redis",
		Check: func(ctx context.Context) error { return a.redis.Ping(ctx).Err() },
	}}
}

// Run starts the hub, background jobs and the HTTP server. It blocks until
// the server stops.
func (a *App) Run() error {
	a.Hub.Start()
	a.workers.Start()

	a.scheduler.Schedule(JobNameRespawnSweep, a.cfg.RespawnSweepInterval, worker.NewRespawnJob(a.Ledger), scheduler.WithImmediateRun())
	a.scheduler.Schedule(JobNameJournalCleanup, JournalCleanupInterval, eventlog.NewCleanupJob(a.Journal, eventlog.DefaultRetentionDays))
	slog.Info(LogMsgBackgroundJobsStarted,
		"respawn_interval", a.cfg.RespawnSweepInterval,
		"journal_cleanup_interval", JournalCleanupInterval)

	return a.Server.Start()
}

// Shutdown stops the app in dependency order
func (a *App) Shutdown(ctx context.Context) {
	GracefulShutdown(ctx, ShutdownComponents{
		Server:             a.Server,
		Scheduler:          a.scheduler,
		Workers:            a.workers,
		Hub:                a.Hub,
		ResilientPublisher: a.publisher,
	})
	a.closeStores()
}

func (a *App) closeStores() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Error(LogMsgRedisCloseFailed, "error", err)
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}

package bootstrap

import (
	"context"
	"log/slog"
	"strings"
	"time"

	assetregistry "atelier/contexts/asset-core/asset-registry"
	registrypostgres "atelier/contexts/asset-core/asset-registry/adapters/postgres"
	treasury "atelier/contexts/finance-core/treasury"
	treasurymemory "atelier/contexts/finance-core/treasury/adapters/memory"
	treasurypostgres "atelier/contexts/finance-core/treasury/adapters/postgres"
	marketplaceengine "atelier/contexts/market-core/marketplace-engine"
	enginememory "atelier/contexts/market-core/marketplace-engine/adapters/memory"
	enginepostgres "atelier/contexts/market-core/marketplace-engine/adapters/postgres"
	workerapp "atelier/contexts/market-core/marketplace-engine/application/workers"
	"atelier/internal/platform/config"
	"atelier/internal/platform/db"
	"atelier/internal/platform/httpserver"
	"atelier/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  workerapp.OutboxRelay
	saleFeed     workerapp.SaleFeedConsumer
	relayEnabled bool
	feedEnabled  bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	ctx := context.Background()

	// Peer payouts settle through the in-process ledger in both modes;
	// marketplace state moves to postgres when a DSN is configured.
	moneyLedger := treasurymemory.NewLedger()

	var (
		pg             *db.Postgres
		registryModule assetregistry.Module
		treasuryModule treasury.Module
		engineModule   marketplaceengine.Module
	)

	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}

		registryRepo := registrypostgres.NewRepository(pg.DB, logger)
		registryModule = assetregistry.NewModule(assetregistry.Dependencies{
			Repository: registryRepo,
			Settings:   registryRepo,
			Clock:      registrypostgres.SystemClock{},
			Logger:     logger,
		})

		engineRepo := enginepostgres.NewRepository(pg.DB, logger)
		if err := seedAdmin(ctx, engineRepo, cfg.AdminAddress); err != nil {
			return nil, err
		}

		treasuryRepo := treasurypostgres.NewRepository(pg.DB, logger)
		treasuryModule = treasury.NewModule(treasury.Dependencies{
			Custody:     treasuryRepo,
			Ledger:      moneyLedger,
			Admin:       engineRepo,
			Outbox:      engineRepo,
			Clock:       treasurypostgres.SystemClock{},
			IDGenerator: treasurypostgres.UUIDGenerator{},
			Logger:      logger,
		})

		engineModule = marketplaceengine.NewModule(marketplaceengine.Dependencies{
			Offers:      engineRepo,
			Listings:    engineRepo,
			Trades:      engineRepo,
			Registry:    registryModule.Service,
			Ledger:      moneyLedger,
			Treasury:    treasuryModule.Service,
			Admin:       engineRepo,
			Outbox:      engineRepo,
			Clock:       enginepostgres.SystemClock{},
			IDGenerator: enginepostgres.UUIDGenerator{},
			Logger:      logger,
		})
	} else {
		logger.Warn("no postgres dsn configured, using in-memory stores",
			"event", "bootstrap_inmemory_mode",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)

		registryModule = assetregistry.NewInMemoryModule(logger)
		engineStore := enginememory.NewStore(cfg.AdminAddress)

		treasuryStore := treasurymemory.NewStore()
		treasuryModule = treasury.NewModule(treasury.Dependencies{
			Custody:     treasuryStore,
			Ledger:      moneyLedger,
			Admin:       engineStore,
			Outbox:      engineStore,
			Clock:       treasuryStore,
			IDGenerator: treasuryStore,
			Logger:      logger,
		})
		treasuryModule.Store = treasuryStore
		treasuryModule.Ledger = moneyLedger

		engineModule = marketplaceengine.NewModule(marketplaceengine.Dependencies{
			Offers:      engineStore,
			Listings:    engineStore,
			Trades:      engineStore,
			Registry:    registryModule.Service,
			Ledger:      moneyLedger,
			Treasury:    treasuryModule.Service,
			Admin:       engineStore,
			Outbox:      engineStore,
			Clock:       engineStore,
			IDGenerator: engineStore,
			Logger:      logger,
		})
		engineModule.Store = engineStore
	}

	if locator := strings.TrimSpace(cfg.BaseMetadataLocator); locator != "" {
		if err := registryModule.Service.SetBaseLocator(ctx, locator); err != nil {
			return nil, err
		}
	}

	server := httpserver.New(engineModule, registryModule, treasuryModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	var (
		pg     *db.Postgres
		outbox workerapp.OutboxRelay
	)
	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		repo := enginepostgres.NewRepository(pg.DB, logger)
		outbox = workerapp.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     enginepostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		}
	} else {
		store := enginememory.NewStore(cfg.AdminAddress)
		outbox = workerapp.OutboxRelay{
			Outbox:    store,
			Publisher: kafka,
			Clock:     store,
			BatchSize: 100,
			Logger:    logger,
		}
	}

	return &WorkerApp{
		postgres:    pg,
		outboxRelay: outbox,
		saleFeed: workerapp.SaleFeedConsumer{
			Subscriber:    kafka,
			ConsumerGroup: "marketplace-sale-feed-cg",
			Logger:        logger,
		},
		relayEnabled: cfg.EnableOutboxRelay,
		feedEnabled:  cfg.EnableSaleEventEmission,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func seedAdmin(ctx context.Context, store interface {
	Admin(ctx context.Context) (string, error)
	SetAdmin(ctx context.Context, address string) error
}, address string) error {
	current, err := store.Admin(ctx)
	if err != nil {
		return err
	}
	if current != "" {
		return nil
	}
	return store.SetAdmin(ctx, address)
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.feedEnabled {
		if err := w.saleFeed.Start(ctx); err != nil {
			return err
		}
	}
	if !w.relayEnabled {
		w.logger.Info("outbox relay disabled, worker idle",
			"event", "bootstrap_worker_idle",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}

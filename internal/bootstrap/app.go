// Package bootstrap assembles the repositories, catalogs, dispatcher and
// mediator shared by the CLI and the daemon.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	notificationAdapter "github.com/fame0528/DarkFrame-sub009/internal/adapters/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/adapters/persistence"
	"github.com/fame0528/DarkFrame-sub009/internal/application/auth"
	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/application/setup"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/defense"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/shared"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/targeting"
	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/catalog"
	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/config"
	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/database"
)

// Options adjust what Build wires beyond the configuration
type Options struct {
	// DB reuses an open connection instead of opening cfg.Database
	DB *gorm.DB
	// Logger defaults to a no-op logger
	Logger common.ContainerLogger
	// ExtraSinks receive every event next to the log and store sinks, e.g. the websocket hub
	ExtraSinks []notification.Sink
	// DispatchObserver is told about queue and delivery outcomes
	DispatchObserver notificationAdapter.Observer
	// Middleware is installed on the mediator before any handler runs
	Middleware []common.Middleware
	Clock      shared.Clock
	// Random overrides the seeded source built from game.random_seed
	Random shared.RandomSource
}

// App is a fully wired core
type App struct {
	Config     *config.Config
	DB         *gorm.DB
	Catalogs   *catalog.Catalogs
	Mediator   common.Mediator
	Registry   *setup.HandlerRegistry
	Dispatcher *notificationAdapter.Dispatcher
	Store      notification.Store
	Logger     common.ContainerLogger
	Clock      shared.Clock

	ownsDB  bool
	started bool
}

// Build wires the core from configuration. The caller must Start the
// dispatcher and Close the app.
func Build(cfg *config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = common.LoggerFromContext(context.Background())
	}
	clock := opts.Clock
	if clock == nil {
		clock = shared.NewRealClock()
	}
	random := opts.Random
	if random == nil {
		random = shared.NewRandomSource(cfg.Game.RandomSeed)
	}

	catalogs, err := catalog.Load(cfg.Game.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogs: %w", err)
	}

	db, ownsDB := opts.DB, false
	if db == nil {
		db, err = database.NewConnection(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		ownsDB = true
	}
	if err := database.AutoMigrate(db); err != nil {
		if ownsDB {
			database.Close(db)
		}
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	actors := persistence.NewGormActorRepository(db, clock)
	store := persistence.NewGormNotificationStore(db)

	sinks := []notification.Sink{notificationAdapter.NewLogSink(logger)}
	if cfg.Notifications.StoreEnabled {
		sinks = append(sinks, notificationAdapter.NewStoreSink(store))
	}
	sinks = append(sinks, opts.ExtraSinks...)

	dispatcher := notificationAdapter.NewDispatcher(
		notificationAdapter.NewFanoutSink(sinks...),
		notificationAdapter.DispatcherConfig{
			BufferSize:      cfg.Notifications.BufferSize,
			DeliveryTimeout: cfg.Notifications.DeliveryTimeout,
			RatePerSecond:   cfg.Notifications.RatePerSecond,
			Burst:           cfg.Notifications.Burst,
		},
		logger,
		opts.DispatchObserver,
	)

	registry := setup.NewHandlerRegistry(setup.Dependencies{
		Actors:     actors,
		Directory:  actors,
		Ledger:     actors,
		Entries:    actors,
		Research:   persistence.NewGormResearchStateRepository(db, catalogs.Research, clock),
		Weapons:    persistence.NewGormWeaponRepository(db),
		Operatives: persistence.NewGormOperativeRepository(db),
		Missions:   persistence.NewGormMissionRepository(db),
		Units:      persistence.NewGormDefenseUnitRepository(db),
		Store:      store,
		Emitter:    dispatcher,

		TechCatalog:      catalogs.Research,
		PayloadCatalog:   catalogs.Payloads,
		EspionageCatalog: catalogs.Espionage,

		TargetingRules: targeting.Rules{
			MinTargetLevel: cfg.Game.MinTargetLevel,
			Ranges:         catalogs.Payloads.RangeTable(),
		},
		RepairPolicy: defense.RepairPolicy{
			SecondsPerPoint: cfg.Game.RepairSecondsPerPoint,
			CostPerPoint:    cfg.Game.RepairCostPerPoint,
			InterceptShare:  cfg.Game.InterceptShare,
			Cooldown:        cfg.Game.Cooldown,
		},
		OperativeCap:          cfg.Game.OperativeCap,
		SabotageFactor:        cfg.Game.SabotageFactor,
		NotificationRetention: cfg.Notifications.Retention,

		Random: random,
		Clock:  clock,
	})

	med := common.NewMediator()
	for _, mw := range opts.Middleware {
		med.Use(mw)
	}
	med.Use(auth.ActorMiddleware(actors))
	if err := registry.RegisterAll(med); err != nil {
		if ownsDB {
			database.Close(db)
		}
		return nil, fmt.Errorf("failed to register handlers: %w", err)
	}
	logger.Log(common.LevelDebug, "Handlers registered", map[string]interface{}{
		"requests": common.RegisteredRequests(med),
	})

	return &App{
		Config:     cfg,
		DB:         db,
		Catalogs:   catalogs,
		Mediator:   med,
		Registry:   registry,
		Dispatcher: dispatcher,
		Store:      store,
		Logger:     logger,
		Clock:      clock,
		ownsDB:     ownsDB,
	}, nil
}

// Context attaches the app logger so handlers can reach it
func (a *App) Context(ctx context.Context) context.Context {
	return common.WithLogger(ctx, a.Logger)
}

// Start runs the notification dispatcher until ctx ends or Close is called
func (a *App) Start(ctx context.Context) {
	a.started = true
	go a.Dispatcher.Run(ctx)
}

// Close flushes pending notifications and releases the database
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.started {
		if err := a.Dispatcher.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush notifications: %w", err))
		}
	}
	if a.ownsDB {
		if err := database.Close(a.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

package app

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentindex/internal/common"
	"github.com/ternarybob/sentindex/internal/handlers"
	"github.com/ternarybob/sentindex/internal/interfaces"
	"github.com/ternarybob/sentindex/internal/services/index"
	"github.com/ternarybob/sentindex/internal/services/indexer"
	"github.com/ternarybob/sentindex/internal/services/insights"
	"github.com/ternarybob/sentindex/internal/services/llm"
	"github.com/ternarybob/sentindex/internal/services/registry"
	"github.com/ternarybob/sentindex/internal/services/scheduler"
	"github.com/ternarybob/sentindex/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager interfaces.StorageManager
	Registry       interfaces.IndexRegistry

	// Computation pipeline
	Composer       *index.Composer
	IndexerService *indexer.Service

	// Insight generation
	ReasoningService interfaces.ReasoningService
	InsightRequester *insights.Requester

	// Periodic recompute
	SchedulerService *scheduler.Service

	// HTTP handlers
	APIHandler       *handlers.APIHandler
	IndexHandler     *handlers.IndexHandler
	InsightHandler   *handlers.InsightHandler
	PriceHandler     *handlers.PriceHandler
	SchedulerHandler *handlers.SchedulerHandler
	StatusHandler    *handlers.StatusHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Storage
	storageManager, err := badger.NewManager(&cfg.Storage.Badger, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager

	// Index definitions
	registryService, err := registry.NewService(cfg.Indexes.DefinitionsDir, logger)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to load index definitions: %w", err)
	}
	app.Registry = registryService

	// Computation pipeline. The wall clock is injected here and nowhere
	// else so tests can pin timestamps.
	recorder := index.NewRecorder(time.Now)
	app.Composer = index.NewComposer(recorder, logger)
	app.IndexerService = indexer.NewService(app.Registry, app.StorageManager, app.Composer, &cfg.Indexes, logger)

	// Insight generation
	app.ReasoningService = llm.NewService(cfg, logger)
	app.InsightRequester = insights.NewRequester(app.ReasoningService, &cfg.Insights, time.Now, logger)

	// Scheduler
	app.SchedulerService = scheduler.NewService(app.IndexerService, app.Registry, app.StorageManager, logger)

	// HTTP handlers
	app.APIHandler = handlers.NewAPIHandler()
	app.IndexHandler = handlers.NewIndexHandler(app.IndexerService, app.Registry, app.StorageManager, logger)
	app.InsightHandler = handlers.NewInsightHandler(app.IndexerService, app.InsightRequester, logger)
	app.PriceHandler = handlers.NewPriceHandler(app.Registry, app.StorageManager, time.Now, logger)
	app.SchedulerHandler = handlers.NewSchedulerHandler(app.SchedulerService, logger)
	app.StatusHandler = handlers.NewStatusHandler(cfg, app.Registry, app.ReasoningService, app.SchedulerService, logger)

	logger.Info().
		Int("indexes", len(app.Registry.Names())).
		Str("llm_provider", string(cfg.LLM.DefaultProvider)).
		Msg("Application initialized")

	return app, nil
}

// StartScheduler starts the periodic recompute loop when enabled.
func (a *App) StartScheduler() error {
	if !a.Config.Scheduler.Enabled {
		a.Logger.Info().Msg("Scheduler disabled by configuration")
		return nil
	}
	return a.SchedulerService.Start(a.Config.Scheduler.Schedule)
}

// Close shuts down all application components
func (a *App) Close() error {
	a.Logger.Info().Msg("Shutting down application")

	if err := a.SchedulerService.Stop(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to stop scheduler")
	}

	if err := a.ReasoningService.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close reasoning service")
	}

	if err := a.StorageManager.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close storage")
		return err
	}

	return nil
}

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentindex/internal/interfaces"
	"github.com/ternarybob/sentindex/internal/models"
	"github.com/ternarybob/sentindex/internal/services/indexer"
)

// Service periodically recomputes every registered index from its most
// recent price snapshot. Indexes without a stored snapshot are skipped
// until prices arrive.
type Service struct {
	indexer      *indexer.Service
	registry     interfaces.IndexRegistry
	storage      interfaces.StorageManager
	cron         *cron.Cron
	logger       arbor.ILogger
	mu           sync.Mutex // Protects isProcessing
	isProcessing bool
	running      bool
	lastRun      *time.Time
	lastError    string
}

// NewService creates a new scheduler service
func NewService(indexerService *indexer.Service, registry interfaces.IndexRegistry, storage interfaces.StorageManager, logger arbor.ILogger) *Service {
	return &Service{
		indexer:  indexerService,
		registry: registry,
		storage:  storage,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start begins the scheduler with the given cron expression
func (s *Service) Start(cronExpr string) error {
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if cronExpr == "" {
		cronExpr = "*/5 * * * *" // Default: every 5 minutes
	}

	_, err := s.cron.AddFunc(cronExpr, s.runScheduledRecompute)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("cron_expr", cronExpr).
		Msg("Scheduler started")

	return nil
}

// Stop halts the scheduler
func (s *Service) Stop() error {
	if !s.running {
		return nil
	}

	s.cron.Stop()
	s.running = false

	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// IsRunning returns true if scheduler is active
func (s *Service) IsRunning() bool {
	return s.running
}

// Status reports the last cycle outcome.
func (s *Service) Status() (running bool, lastRun *time.Time, lastError string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running, s.lastRun, s.lastError
}

// TriggerNow runs a recompute cycle immediately in the background.
func (s *Service) TriggerNow() {
	s.logger.Info().Msg("Manual recompute trigger requested")
	go s.runScheduledRecompute()
}

// runScheduledRecompute executes one recompute cycle across all
// registered indexes.
func (s *Service) runScheduledRecompute() {
	// Panic recovery to prevent service crash
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("PANIC RECOVERED in scheduled recompute")
		}
	}()

	s.mu.Lock()
	if s.isProcessing {
		s.logger.Debug().Msg("Recompute cycle already in progress, skipping")
		s.mu.Unlock()
		return
	}
	s.isProcessing = true
	s.mu.Unlock()

	defer func() {
		now := time.Now()
		s.mu.Lock()
		s.isProcessing = false
		s.lastRun = &now
		s.mu.Unlock()
	}()

	ctx := context.Background()
	computed := 0
	skipped := 0
	failed := 0

	for _, name := range s.registry.Names() {
		snapshot, err := s.storage.PriceStorage().Latest(ctx, name)
		if err != nil {
			skipped++
			s.logger.Debug().
				Str("index", name).
				Msg("No price snapshot available, skipping recompute")
			continue
		}

		def, err := s.registry.Get(name)
		if err != nil {
			failed++
			continue
		}

		_, err = s.indexer.Compute(ctx, indexer.ComputeRequest{
			IndexName: name,
			Prices:    snapshot.Prices,
			Method:    def.Method,
		})
		if err != nil {
			failed++
			s.logger.Warn().
				Err(err).
				Str("index", name).
				Msg("Scheduled recompute failed")
			continue
		}
		computed++
	}

	s.mu.Lock()
	if failed > 0 {
		s.lastError = fmt.Sprintf("%d of %d indexes failed", failed, computed+failed)
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()

	s.logger.Info().
		Int("computed", computed).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("Recompute cycle completed")
}

// recomputeOne recomputes a single index from its stored snapshot.
func (s *Service) recomputeOne(ctx context.Context, def *models.IndexDefinition) error {
	snapshot, err := s.storage.PriceStorage().Latest(ctx, def.Name)
	if err != nil {
		return fmt.Errorf("no price snapshot for index %q: %w", def.Name, err)
	}

	_, err = s.indexer.Compute(ctx, indexer.ComputeRequest{
		IndexName: def.Name,
		Prices:    snapshot.Prices,
		Method:    def.Method,
	})
	return err
}

// TriggerIndex recomputes a single index immediately.
func (s *Service) TriggerIndex(ctx context.Context, indexName string) error {
	def, err := s.registry.Get(indexName)
	if err != nil {
		return err
	}
	return s.recomputeOne(ctx, def)
}

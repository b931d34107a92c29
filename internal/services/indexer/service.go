// Package indexer runs the computation pipeline end to end: definition
// lookup, price normalization, composition, provenance, persistence,
// and the 24h delta against the stored series.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentindex/internal/common"
	"github.com/ternarybob/sentindex/internal/interfaces"
	"github.com/ternarybob/sentindex/internal/metrics"
	"github.com/ternarybob/sentindex/internal/models"
	"github.com/ternarybob/sentindex/internal/services/index"
)

// ComputeRequest is a single computation request. PrevPrices/PrevValue
// may carry an explicit prior period for the return-based method; when
// absent the prior period is fetched once from the value store.
type ComputeRequest struct {
	IndexName   string
	Prices      map[string]float64
	Method      models.Method
	MinCoverage float64 // 0 uses the configured default
	PrevPrices  models.PriceSet
	PrevValue   float64
	HasPrior    bool
}

// Service orchestrates the pipeline. It is stateless between calls;
// concurrent computations for different indexes share nothing.
type Service struct {
	registry interfaces.IndexRegistry
	storage  interfaces.StorageManager
	composer *index.Composer
	config   *common.IndexesConfig
	logger   arbor.ILogger
}

// NewService creates the pipeline service.
func NewService(registry interfaces.IndexRegistry, storage interfaces.StorageManager, composer *index.Composer, config *common.IndexesConfig, logger arbor.ILogger) *Service {
	return &Service{
		registry: registry,
		storage:  storage,
		composer: composer,
		config:   config,
		logger:   logger,
	}
}

// Compute validates, computes, and persists one index value. The
// returned record carries the value, the 24h delta, and the full
// provenance payload.
func (s *Service) Compute(ctx context.Context, req ComputeRequest) (*models.IndexValueRecord, error) {
	start := time.Now()

	def, err := s.registry.Get(req.IndexName)
	if err != nil {
		metrics.ComputationsTotal.WithLabelValues(req.IndexName, string(req.Method), "missing_config").Inc()
		return nil, &models.ComputationError{Reason: models.ReasonMissingConfig, Detail: err.Error()}
	}

	prices, err := index.Normalize(req.Prices)
	if err != nil {
		metrics.ComputationsTotal.WithLabelValues(req.IndexName, string(req.Method), "validation_error").Inc()
		return nil, err
	}

	opts := index.ComputeOptions{
		Method:         req.Method,
		MinCoverage:    req.MinCoverage,
		RoundingPlaces: s.config.RoundingPlaces,
		PrevPrices:     req.PrevPrices,
		PrevValue:      req.PrevValue,
		HasPrior:       req.HasPrior,
	}
	if opts.MinCoverage <= 0 {
		opts.MinCoverage = s.config.MinCoverage
	}

	// The prior period is a single synchronous fetch from the value
	// store, never shared in-process state.
	if req.Method == models.MethodReturnBased && !opts.HasPrior {
		prevRecord, prevSnapshot, err := s.fetchPriorPeriod(ctx, req.IndexName)
		if err != nil {
			metrics.ComputationsTotal.WithLabelValues(req.IndexName, string(req.Method), "no_prior_period").Inc()
			return nil, err
		}
		opts.PrevPrices = prevSnapshot.Prices
		opts.PrevValue = prevRecord.Value
		opts.HasPrior = true
	}

	result, err := s.composer.Compute(def, prices, opts)
	if err != nil {
		metrics.ComputationsTotal.WithLabelValues(req.IndexName, string(req.Method), "computation_error").Inc()
		return nil, err
	}

	record := &models.IndexValueRecord{
		Time:        result.Timestamp,
		IndexName:   result.IndexName,
		Value:       result.Value,
		Method:      result.Method,
		Delta24hPct: s.delta24h(ctx, result),
		Provenance:  result.Provenance,
	}

	if err := s.storage.IndexValueStorage().Append(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist index value: %w", err)
	}

	snapshot := &models.PriceSnapshot{
		IndexName:  result.IndexName,
		Prices:     prices.Clone(),
		ObservedAt: result.Timestamp,
	}
	if err := s.storage.PriceStorage().SetLatest(ctx, snapshot); err != nil {
		s.logger.Warn().Err(err).Str("index", result.IndexName).Msg("Failed to store price snapshot")
	}

	metrics.ComputationsTotal.WithLabelValues(result.IndexName, string(result.Method), "success").Inc()
	metrics.ComputationDuration.WithLabelValues(string(result.Method)).Observe(time.Since(start).Seconds())

	return record, nil
}

// fetchPriorPeriod reads the previous computation and its price
// snapshot for the return-based method.
func (s *Service) fetchPriorPeriod(ctx context.Context, indexName string) (*models.IndexValueRecord, *models.PriceSnapshot, error) {
	prevRecord, err := s.storage.IndexValueStorage().Latest(ctx, indexName)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, nil, &models.ComputationError{Reason: models.ReasonNoPriorPeriod, Detail: fmt.Sprintf("no prior value for index %q", indexName)}
		}
		return nil, nil, fmt.Errorf("failed to fetch prior index value: %w", err)
	}

	prevSnapshot, err := s.storage.PriceStorage().Latest(ctx, indexName)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, nil, &models.ComputationError{Reason: models.ReasonNoPriorPeriod, Detail: fmt.Sprintf("no prior price snapshot for index %q", indexName)}
		}
		return nil, nil, fmt.Errorf("failed to fetch prior price snapshot: %w", err)
	}

	return prevRecord, prevSnapshot, nil
}

// delta24h computes the 24h percentage change from the stored series.
// Zero when no row exists in the prior window.
func (s *Service) delta24h(ctx context.Context, result *models.IndexResult) float64 {
	prev, err := s.storage.IndexValueStorage().LatestBefore(ctx, result.IndexName, result.Timestamp.Add(-24*time.Hour))
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			s.logger.Warn().Err(err).Str("index", result.IndexName).Msg("Failed to fetch 24h-old value for delta")
		}
		return 0
	}
	return index.Delta24hPct(result.Value, prev.Value)
}

// InsightContext assembles the insight request for an index from its
// most recent computed value and price snapshot.
func (s *Service) InsightContext(ctx context.Context, indexName string) (models.InsightRequest, error) {
	def, err := s.registry.Get(indexName)
	if err != nil {
		return models.InsightRequest{}, err
	}

	record, err := s.storage.IndexValueStorage().Latest(ctx, indexName)
	if err != nil {
		return models.InsightRequest{}, err
	}

	req := models.InsightRequest{
		IndexName:   indexName,
		Value:       record.Value,
		Delta24hPct: record.Delta24hPct,
		Weights:     def.Weights,
		BaseLevel:   def.BaseLevel,
		BaseDate:    def.BaseDate,
	}

	snapshot, err := s.storage.PriceStorage().Latest(ctx, indexName)
	if err == nil {
		req.Prices = snapshot.Prices
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return models.InsightRequest{}, err
	}

	return req, nil
}

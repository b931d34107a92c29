package insights

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentindex/internal/common"
	"github.com/ternarybob/sentindex/internal/interfaces"
	"github.com/ternarybob/sentindex/internal/metrics"
	"github.com/ternarybob/sentindex/internal/models"
	"github.com/ternarybob/sentindex/internal/services/index"
)

// FallbackSummary is the summary text of the degraded insight.
const FallbackSummary = "insight unavailable"

// Requester produces insights for computed index values. It never
// fails the caller: any timeout, transport error, or malformed payload
// degrades to a schema-valid fallback result so the primary index
// workflow can never be blocked by the reasoning service.
type Requester struct {
	reasoner         interfaces.ReasoningService
	timeout          time.Duration
	maxSummaryLength int
	clock            index.Clock
	logger           arbor.ILogger
}

// NewRequester creates an insight requester bound to a reasoning
// service. A nil clock falls back to time.Now.
func NewRequester(reasoner interfaces.ReasoningService, cfg *common.InsightsConfig, clock index.Clock, logger arbor.ILogger) *Requester {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}
	if clock == nil {
		clock = time.Now
	}
	return &Requester{
		reasoner:         reasoner,
		timeout:          timeout,
		maxSummaryLength: cfg.MaxSummaryLength,
		clock:            clock,
		logger:           logger,
	}
}

// Request makes a single bounded attempt against the reasoning service
// and returns a well-formed InsightResult in every case. Retrying is a
// caller decision - calling again makes a fresh attempt.
func (r *Requester) Request(ctx context.Context, req models.InsightRequest) models.InsightResult {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := r.clock()
	prompt := BuildPrompt(req)

	raw, err := r.reasoner.Complete(timeoutCtx, prompt)
	metrics.ReasoningLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("index", req.IndexName).
			Msg("Reasoning service call failed, returning fallback insight")
		metrics.InsightRequestsTotal.WithLabelValues(string(models.InsightSourceFallback), "service_error").Inc()
		return r.fallback()
	}

	payload, err := parsePayload(raw, r.maxSummaryLength)
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("index", req.IndexName).
			Int("response_length", len(raw)).
			Msg("Reasoning response rejected, returning fallback insight")
		metrics.InsightRequestsTotal.WithLabelValues(string(models.InsightSourceFallback), "invalid_payload").Inc()
		return r.fallback()
	}

	result := payload.toResult()
	result.GeneratedAt = r.clock().UTC()

	r.logger.Debug().
		Str("index", req.IndexName).
		Str("sentiment", string(result.Sentiment)).
		Int("notable_events", len(result.NotableEvents)).
		Msg("Insight generated")
	metrics.InsightRequestsTotal.WithLabelValues(string(models.InsightSourceAI), "success").Inc()

	return result
}

// fallback synthesizes the degraded insight returned on any failure.
func (r *Requester) fallback() models.InsightResult {
	return models.InsightResult{
		Sentiment:     models.SentimentUnknown,
		Summary:       FallbackSummary,
		NotableEvents: []string{},
		RiskFactors:   []string{},
		Source:        models.InsightSourceFallback,
		GeneratedAt:   r.clock().UTC(),
	}
}

package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentindex/internal/services/indexer"
	"github.com/ternarybob/sentindex/internal/services/insights"
)

// InsightHandler handles HTTP requests for AI-generated index insights
type InsightHandler struct {
	indexer   *indexer.Service
	requester *insights.Requester
	logger    arbor.ILogger
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(indexerService *indexer.Service, requester *insights.Requester, logger arbor.ILogger) *InsightHandler {
	return &InsightHandler{
		indexer:   indexerService,
		requester: requester,
		logger:    logger,
	}
}

// GetInsightsHandler handles GET /api/index/{name}/insights. The index
// must have at least one computed value; the insight itself always
// succeeds, degrading to the fallback when the model is unavailable.
func (h *InsightHandler) GetInsightsHandler(w http.ResponseWriter, r *http.Request, indexName string) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	insightCtx, err := h.indexer.InsightContext(r.Context(), indexName)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	result := h.requester.Request(r.Context(), insightCtx)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"index_name":    indexName,
		"index_value":   insightCtx.Value,
		"delta_24h_pct": insightCtx.Delta24hPct,
		"insight":       result,
	})
}

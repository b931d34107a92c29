package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentindex/internal/interfaces"
	"github.com/ternarybob/sentindex/internal/models"
	"github.com/ternarybob/sentindex/internal/services/indexer"
)

// ComputeRequestBody is the POST /api/index/compute payload.
type ComputeRequestBody struct {
	IndexName   string             `json:"index_name"`
	Prices      map[string]float64 `json:"prices"`
	Method      string             `json:"method,omitempty"`
	MinCoverage float64            `json:"min_coverage,omitempty"`
	PrevPrices  map[string]float64 `json:"prev_prices,omitempty"`
	PrevValue   float64            `json:"prev_value,omitempty"`
}

// IndexHandler handles HTTP requests for index computation and queries
type IndexHandler struct {
	indexer  *indexer.Service
	registry interfaces.IndexRegistry
	storage  interfaces.StorageManager
	logger   arbor.ILogger
}

// NewIndexHandler creates a new IndexHandler
func NewIndexHandler(indexerService *indexer.Service, registry interfaces.IndexRegistry, storage interfaces.StorageManager, logger arbor.ILogger) *IndexHandler {
	return &IndexHandler{
		indexer:  indexerService,
		registry: registry,
		storage:  storage,
		logger:   logger,
	}
}

// ComputeHandler handles POST /api/index/compute
func (h *IndexHandler) ComputeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var body ComputeRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	if body.IndexName == "" {
		WriteError(w, http.StatusBadRequest, "index_name is required")
		return
	}
	if len(body.Prices) == 0 {
		WriteError(w, http.StatusBadRequest, "prices must not be empty")
		return
	}

	method, err := models.ParseMethod(body.Method)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	req := indexer.ComputeRequest{
		IndexName:   body.IndexName,
		Prices:      body.Prices,
		Method:      method,
		MinCoverage: body.MinCoverage,
	}
	if len(body.PrevPrices) > 0 {
		req.PrevPrices = models.PriceSet(body.PrevPrices)
		req.PrevValue = body.PrevValue
		req.HasPrior = true
	}

	record, err := h.indexer.Compute(r.Context(), req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("index", body.IndexName).
			Msg("Index computation rejected")
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, record)
}

// LatestHandler handles GET /api/index/{name}/latest
func (h *IndexHandler) LatestHandler(w http.ResponseWriter, r *http.Request, indexName string) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	if _, err := h.registry.Get(indexName); err != nil {
		WriteDomainError(w, err)
		return
	}

	record, err := h.storage.IndexValueStorage().Latest(r.Context(), indexName)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, record)
}

// HistoryHandler handles GET /api/index/{name}/history
func (h *IndexHandler) HistoryHandler(w http.ResponseWriter, r *http.Request, indexName string) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	if _, err := h.registry.Get(indexName); err != nil {
		WriteDomainError(w, err)
		return
	}

	limit := GetLimitParam(r, 100)
	records, err := h.storage.IndexValueStorage().History(r.Context(), indexName, limit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"index_name": indexName,
		"count":      len(records),
		"values":     records,
	})
}

// ListHandler handles GET /api/index
func (h *IndexHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	names := h.registry.Names()
	definitions := make([]*models.IndexDefinition, 0, len(names))
	for _, name := range names {
		if def, err := h.registry.Get(name); err == nil {
			definitions = append(definitions, def)
		}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(definitions),
		"indexes": definitions,
	})
}

// IndexName extracts the index name segment from paths shaped like
// /api/index/{name}/suffix.
func IndexName(path, prefix, suffix string) string {
	name := strings.TrimPrefix(path, prefix)
	name = strings.TrimSuffix(name, suffix)
	return strings.Trim(name, "/")
}

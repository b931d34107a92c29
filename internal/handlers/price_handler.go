package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentindex/internal/interfaces"
	"github.com/ternarybob/sentindex/internal/models"
	"github.com/ternarybob/sentindex/internal/services/index"
)

// PriceRequestBody is the PUT /api/prices/{name} payload.
type PriceRequestBody struct {
	Prices     map[string]float64 `json:"prices"`
	ObservedAt *time.Time         `json:"observed_at,omitempty"`
}

// PriceHandler handles HTTP requests for price snapshot intake
type PriceHandler struct {
	registry interfaces.IndexRegistry
	storage  interfaces.StorageManager
	clock    index.Clock
	logger   arbor.ILogger
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(registry interfaces.IndexRegistry, storage interfaces.StorageManager, clock index.Clock, logger arbor.ILogger) *PriceHandler {
	if clock == nil {
		clock = time.Now
	}
	return &PriceHandler{
		registry: registry,
		storage:  storage,
		clock:    clock,
		logger:   logger,
	}
}

// SetPricesHandler handles PUT /api/prices/{name}. The snapshot feeds
// scheduled recomputes and the insights endpoint; prices are validated
// before storage so a bad snapshot never poisons a later computation.
func (h *PriceHandler) SetPricesHandler(w http.ResponseWriter, r *http.Request, indexName string) {
	if !RequireMethod(w, r, "PUT") {
		return
	}

	if _, err := h.registry.Get(indexName); err != nil {
		WriteDomainError(w, err)
		return
	}

	var body PriceRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if len(body.Prices) == 0 {
		WriteError(w, http.StatusBadRequest, "prices must not be empty")
		return
	}

	prices, err := index.Normalize(body.Prices)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	observedAt := h.clock().UTC()
	if body.ObservedAt != nil {
		observedAt = body.ObservedAt.UTC()
	}

	snapshot := &models.PriceSnapshot{
		IndexName:  indexName,
		Prices:     prices,
		ObservedAt: observedAt,
	}
	if err := h.storage.PriceStorage().SetLatest(r.Context(), snapshot); err != nil {
		WriteDomainError(w, err)
		return
	}

	h.logger.Debug().
		Str("index", indexName).
		Int("symbols", len(prices)).
		Msg("Price snapshot accepted")

	WriteJSON(w, http.StatusOK, snapshot)
}

// GetPricesHandler handles GET /api/prices/{name}
func (h *PriceHandler) GetPricesHandler(w http.ResponseWriter, r *http.Request, indexName string) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	if _, err := h.registry.Get(indexName); err != nil {
		WriteDomainError(w, err)
		return
	}

	snapshot, err := h.storage.PriceStorage().Latest(r.Context(), indexName)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, snapshot)
}

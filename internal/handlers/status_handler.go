package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentindex/internal/common"
	"github.com/ternarybob/sentindex/internal/interfaces"
	"github.com/ternarybob/sentindex/internal/services/scheduler"
)

// StatusHandler handles HTTP requests for application status
type StatusHandler struct {
	config    *common.Config
	registry  interfaces.IndexRegistry
	reasoner  interfaces.ReasoningService
	scheduler *scheduler.Service
	logger    arbor.ILogger
	startedAt time.Time
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(config *common.Config, registry interfaces.IndexRegistry, reasoner interfaces.ReasoningService, schedulerService *scheduler.Service, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		config:    config,
		registry:  registry,
		reasoner:  reasoner,
		scheduler: schedulerService,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// GetStatusHandler handles GET /api/status
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	reasonerStatus := "ok"
	if err := h.reasoner.HealthCheck(r.Context()); err != nil {
		reasonerStatus = err.Error()
	}

	schedulerRunning, lastRun, lastError := h.scheduler.Status()

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version":      common.GetVersion(),
		"uptime":       time.Since(h.startedAt).Round(time.Second).String(),
		"indexes":      h.registry.Names(),
		"llm_provider": h.config.LLM.DefaultProvider,
		"llm_status":   reasonerStatus,
		"scheduler": map[string]interface{}{
			"running":    schedulerRunning,
			"last_run":   lastRun,
			"last_error": lastError,
		},
	})
}

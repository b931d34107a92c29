package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentindex/internal/services/scheduler"
)

// SchedulerHandler handles HTTP requests for scheduler control
type SchedulerHandler struct {
	scheduler *scheduler.Service
	logger    arbor.ILogger
}

// NewSchedulerHandler creates a new SchedulerHandler
func NewSchedulerHandler(schedulerService *scheduler.Service, logger arbor.ILogger) *SchedulerHandler {
	return &SchedulerHandler{
		scheduler: schedulerService,
		logger:    logger,
	}
}

// TriggerRecomputeHandler handles POST /api/scheduler/trigger. The
// cycle runs in the background; the response only acknowledges the
// trigger.
func (h *SchedulerHandler) TriggerRecomputeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	h.scheduler.TriggerNow()

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "started",
		"message": "Recompute cycle triggered",
	})
}

// TriggerIndexHandler handles POST /api/index/{name}/recompute using
// the stored price snapshot.
func (h *SchedulerHandler) TriggerIndexHandler(w http.ResponseWriter, r *http.Request, indexName string) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if err := h.scheduler.TriggerIndex(r.Context(), indexName); err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Index recomputed from latest snapshot",
	})
}

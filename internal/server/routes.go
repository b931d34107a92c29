package server

import (
	"net/http"
	"strings"

	"github.com/ternarybob/sentindex/internal/handlers"
	"github.com/ternarybob/sentindex/internal/metrics"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Index computation and queries
	mux.HandleFunc("/api/index/compute", s.app.IndexHandler.ComputeHandler) // POST - compute from request prices
	mux.HandleFunc("/api/index", s.app.IndexHandler.ListHandler)            // GET - list registered definitions
	mux.HandleFunc("/api/index/", s.handleIndexRoutes)                      // GET/POST /{name}/...

	// API routes - Price snapshot intake
	mux.HandleFunc("/api/prices/", s.handlePriceRoutes) // PUT/GET /{name}

	// API routes - Scheduler
	mux.HandleFunc("/api/scheduler/trigger", s.app.SchedulerHandler.TriggerRecomputeHandler)

	// API routes - System
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// Prometheus metrics
	mux.Handle("/metrics", metrics.Handler())

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleIndexRoutes routes /api/index/{name}/... requests to the
// appropriate handler
func (s *Server) handleIndexRoutes(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case strings.HasSuffix(path, "/latest"):
		name := handlers.IndexName(path, "/api/index/", "/latest")
		s.app.IndexHandler.LatestHandler(w, r, name)

	case strings.HasSuffix(path, "/history"):
		name := handlers.IndexName(path, "/api/index/", "/history")
		s.app.IndexHandler.HistoryHandler(w, r, name)

	case strings.HasSuffix(path, "/insights"):
		name := handlers.IndexName(path, "/api/index/", "/insights")
		s.app.InsightHandler.GetInsightsHandler(w, r, name)

	case strings.HasSuffix(path, "/recompute"):
		name := handlers.IndexName(path, "/api/index/", "/recompute")
		s.app.SchedulerHandler.TriggerIndexHandler(w, r, name)

	default:
		s.app.APIHandler.NotFoundHandler(w, r)
	}
}

// handlePriceRoutes routes /api/prices/{name} requests by method
func (s *Server) handlePriceRoutes(w http.ResponseWriter, r *http.Request) {
	name := handlers.IndexName(r.URL.Path, "/api/prices/", "")
	if name == "" {
		s.app.APIHandler.NotFoundHandler(w, r)
		return
	}

	switch r.Method {
	case "PUT":
		s.app.PriceHandler.SetPricesHandler(w, r, name)
	case "GET":
		s.app.PriceHandler.GetPricesHandler(w, r, name)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ternarybob/sentindex/internal/interfaces"
	"github.com/ternarybob/sentindex/internal/models"
)

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{
			name:       "validation error maps to 400",
			err:        &models.ValidationError{Reason: models.ReasonNonPositivePrice, Symbol: "GOLD"},
			wantStatus: http.StatusBadRequest,
			wantKind:   models.ReasonNonPositivePrice,
		},
		{
			name:       "missing config maps to 404",
			err:        &models.ComputationError{Reason: models.ReasonMissingConfig},
			wantStatus: http.StatusNotFound,
			wantKind:   models.ReasonMissingConfig,
		},
		{
			name:       "insufficient coverage maps to 422",
			err:        &models.ComputationError{Reason: models.ReasonInsufficientCoverage, CoverageRatio: 0.3},
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   models.ReasonInsufficientCoverage,
		},
		{
			name:       "no prior period maps to 422",
			err:        &models.ComputationError{Reason: models.ReasonNoPriorPeriod},
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   models.ReasonNoPriorPeriod,
		},
		{
			name:       "unknown index maps to 404",
			err:        interfaces.ErrIndexNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "missing row maps to 404",
			err:        interfaces.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteDomainError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if body["status"] != "error" {
				t.Errorf("status field = %q, want error", body["status"])
			}
			if tt.wantKind != "" && body["error_kind"] != tt.wantKind {
				t.Errorf("error_kind = %q, want %q", body["error_kind"], tt.wantKind)
			}
			if body["detail"] == "" {
				t.Error("detail field is empty")
			}
		})
	}
}

func TestRequireMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/index/compute", nil)

	if RequireMethod(rec, req, "POST") {
		t.Error("RequireMethod() accepted a GET where POST is required")
	}
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}

	rec = httptest.NewRecorder()
	if !RequireMethod(rec, httptest.NewRequest("POST", "/api/index/compute", nil), "POST") {
		t.Error("RequireMethod() rejected a matching method")
	}
}

func TestIndexName(t *testing.T) {
	tests := []struct {
		path   string
		prefix string
		suffix string
		want   string
	}{
		{path: "/api/index/gsoc/latest", prefix: "/api/index/", suffix: "/latest", want: "gsoc"},
		{path: "/api/index/gsoc/insights", prefix: "/api/index/", suffix: "/insights", want: "gsoc"},
		{path: "/api/prices/gsoc", prefix: "/api/prices/", suffix: "", want: "gsoc"},
		{path: "/api/prices/", prefix: "/api/prices/", suffix: "", want: ""},
	}

	for _, tt := range tests {
		if got := IndexName(tt.path, tt.prefix, tt.suffix); got != tt.want {
			t.Errorf("IndexName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestGetLimitParam(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/index/gsoc/history?limit=25", nil)
	if got := GetLimitParam(req, 100); got != 25 {
		t.Errorf("GetLimitParam() = %d, want 25", got)
	}

	req = httptest.NewRequest("GET", "/api/index/gsoc/history?limit=-1", nil)
	if got := GetLimitParam(req, 100); got != 100 {
		t.Errorf("GetLimitParam() negative = %d, want default 100", got)
	}

	req = httptest.NewRequest("GET", "/api/index/gsoc/history", nil)
	if got := GetLimitParam(req, 100); got != 100 {
		t.Errorf("GetLimitParam() absent = %d, want default 100", got)
	}
}

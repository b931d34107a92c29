package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ternarybob/sentindex/internal/interfaces"
	"github.com/ternarybob/sentindex/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"detail": message,
	})
}

// WriteDomainError maps pipeline errors onto HTTP status codes. Input
// validation failures are 400, unknown indexes 404, computations that
// cannot proceed 422, everything else 500.
func WriteDomainError(w http.ResponseWriter, err error) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return WriteJSON(w, http.StatusBadRequest, map[string]string{
			"status":     "error",
			"error_kind": verr.Reason,
			"detail":     verr.Error(),
		})
	}

	var cerr *models.ComputationError
	if errors.As(err, &cerr) {
		statusCode := http.StatusUnprocessableEntity
		if cerr.Reason == models.ReasonMissingConfig {
			statusCode = http.StatusNotFound
		}
		return WriteJSON(w, statusCode, map[string]string{
			"status":     "error",
			"error_kind": cerr.Reason,
			"detail":     cerr.Error(),
		})
	}

	if errors.Is(err, interfaces.ErrIndexNotFound) || errors.Is(err, interfaces.ErrNotFound) {
		return WriteError(w, http.StatusNotFound, err.Error())
	}

	return WriteError(w, http.StatusInternalServerError, err.Error())
}

// GetLimitParam extracts a positive limit from the query string,
// falling back to def.
func GetLimitParam(r *http.Request, def int) int {
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			return l
		}
	}
	return def
}

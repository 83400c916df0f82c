package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"saletrack/internal/core"
)

// handleGetFilters returns the saved filter selection, or an empty
// selection when nothing usable is stored.
func (s *Server) handleGetFilters(w http.ResponseWriter, r *http.Request) {
	var criteria core.Criteria
	if s.prefs != nil {
		if saved := s.prefs.LoadCriteria(); saved != nil {
			criteria = *saved
		}
	}
	writeJSON(w, http.StatusOK, criteria)
}

// handlePutFilters replaces the saved filter selection wholesale.
func (s *Server) handlePutFilters(w http.ResponseWriter, r *http.Request) {
	var criteria core.Criteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if s.prefs == nil {
		writeError(w, http.StatusServiceUnavailable, "preference store not configured")
		return
	}
	if err := s.prefs.SaveCriteria(criteria); err != nil {
		slog.ErrorContext(r.Context(), "Save filters error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to persist filters")
		return
	}

	writeJSON(w, http.StatusOK, criteria)
}

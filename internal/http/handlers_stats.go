package http

import (
	"log/slog"
	"net/http"

	"saletrack/internal/core"
)

// handleStats returns the aggregate summary for the (optionally filtered)
// collection. Summaries are cached per canonical criteria key.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := criteriaKey(criteria)
	if summary, found := s.summaryCache.Get(key); found {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	all, err := s.getItems(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Stats list error", "error", err)
		writeError(w, http.StatusBadGateway, "item store unavailable")
		return
	}

	summary := core.Summarize(core.Filter(all, criteria), s.primaryOwner)
	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, summary)
}

// handleDetails returns the detail-tag vocabulary. The persisted cache is
// served when present; otherwise the tags are derived from a fresh fetch.
func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	if s.prefs != nil {
		if tags := s.prefs.LoadDetailTags(); tags != nil {
			writeJSON(w, http.StatusOK, tags)
			return
		}
	}

	all, err := s.getItems(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Details list error", "error", err)
		writeError(w, http.StatusBadGateway, "item store unavailable")
		return
	}

	tags := core.ExtractDetailTags(all)
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, tags)
}

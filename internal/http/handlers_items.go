package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"saletrack/internal/core"
	"saletrack/internal/items"
	applog "saletrack/internal/log"
)

// createItemRequest is the ingestion shape for new records. Price arrives
// as a raw JSON value because spreadsheet-backed clients sometimes send
// it as a quoted string.
type createItemRequest struct {
	Owner     core.Owner      `json:"owner"`
	Detail    string          `json:"detail"`
	Price     json.RawMessage `json:"price"`
	Status    core.Status     `json:"status"`
	Game      core.Game       `json:"game"`
	CreatedBy string          `json:"createdBy"`
}

func (req createItemRequest) toItem() core.Item {
	return core.Item{
		Owner:     req.Owner,
		Detail:    req.Detail,
		Price:     decodeLoosePrice(req.Price),
		Status:    req.Status,
		Game:      req.Game,
		CreatedAt: time.Now(),
		CreatedBy: req.CreatedBy,
	}
}

// decodeLoosePrice accepts both 42.5 and "42.5"; anything else is zero.
func decodeLoosePrice(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return core.ParsePrice(str)
	}
	return 0
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	all, err := s.getItems(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "List items error", "error", err)
		writeError(w, http.StatusBadGateway, "item store unavailable")
		return
	}

	filtered := core.Filter(all, criteria)
	if filtered == nil {
		filtered = []core.Item{}
	}
	writeJSON(w, http.StatusOK, filtered)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := s.svc.Create(r.Context(), req.toItem())
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Create item error", "error", err)
		writeError(w, http.StatusBadGateway, "item store unavailable")
		return
	}

	s.invalidate()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handlePatchItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	var patch core.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated, err := s.svc.Update(r.Context(), id, patch)
	if err != nil {
		switch {
		case isValidationError(err):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, items.ErrNotFound):
			writeError(w, http.StatusNotFound, "item not found")
		default:
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Update item error", "id", id, "error", err)
			writeError(w, http.StatusBadGateway, "item store unavailable")
		}
		return
	}

	s.invalidate()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	if err := s.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, items.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Delete item error", "id", id, "error", err)
		writeError(w, http.StatusBadGateway, "item store unavailable")
		return
	}

	s.invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidOwner) ||
		errors.Is(err, core.ErrInvalidStatus) ||
		errors.Is(err, core.ErrInvalidGame) ||
		errors.Is(err, core.ErrInvalidPrice)
}

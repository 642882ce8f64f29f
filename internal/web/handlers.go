package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/SweetsNSavories/timeline/internal/adapter"
	"github.com/SweetsNSavories/timeline/internal/config"
	"github.com/SweetsNSavories/timeline/internal/errors"
	"github.com/SweetsNSavories/timeline/internal/pipeline"
)

// Handlers contains HTTP route handlers for the timeline JSON API.
type Handlers struct {
	registry *adapter.Registry
	cfg      *config.Config
	version  string
}

// HandleHealth handles GET /api/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": h.version,
	})
}

// HandleRecords handles GET /api/records — one page of timeline records.
//
// Query parameters: record_id (required), page_size, descending, cursor,
// keyword, selected (repeatable facet value), request_id.
func (h *Handlers) HandleRecords(w http.ResponseWriter, r *http.Request) {
	recordID := r.URL.Query().Get("record_id")
	if recordID == "" {
		renderError(w, errors.NewInvalidRequest("record_id is required"))
		return
	}

	a := h.registry.Acquire(r.Context(), recordID)

	req := pipeline.PageRequest{
		PageSize:  parseIntParam(r, "page_size", 0),
		Ascending: !parseBoolParam(r, "descending"),
		Cursor:    r.URL.Query().Get("cursor"),
		RequestID: r.URL.Query().Get("request_id"),
	}

	spec := a.FilterSpecFromSelection(
		r.Context(),
		r.URL.Query().Get("keyword"),
		selectedValues(r),
	)

	renderJSON(w, http.StatusOK, a.GetRecordsData(r.Context(), req, spec))
}

// HandleFilters handles GET /api/records/filters — available facet groups.
func (h *Handlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	recordID := r.URL.Query().Get("record_id")
	if recordID == "" {
		renderError(w, errors.NewInvalidRequest("record_id is required"))
		return
	}

	a := h.registry.Acquire(r.Context(), recordID)
	renderJSON(w, http.StatusOK, map[string]any{
		"facets": a.GetFilterDetails(r.Context()),
	})
}

// HandleDisplay handles GET /api/records/{id}/display — one record's
// display shape.
func (h *Handlers) HandleDisplay(w http.ResponseWriter, r *http.Request) {
	recordID := r.URL.Query().Get("record_id")
	if recordID == "" {
		renderError(w, errors.NewInvalidRequest("record_id is required"))
		return
	}

	id := chi.URLParam(r, "id")
	a := h.registry.Acquire(r.Context(), recordID)

	rec, ok := a.RecordByID(r.Context(), id)
	if !ok {
		renderError(w, &errors.TimelineError{
			Code:    errors.ErrContextNotFound,
			Status:  404,
			Message: "record not found in current snapshot: " + id,
		})
		return
	}

	renderJSON(w, http.StatusOK, a.GetRecordUX(rec))
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError writes a structured error response.
func renderError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	payload := map[string]any{
		"error": map[string]any{
			"code":    string(errors.ErrInternal),
			"message": "an internal error occurred",
		},
	}

	if tErr, ok := err.(*errors.TimelineError); ok {
		status = tErr.Status
		errorObj := map[string]any{
			"code":    tErr.Code,
			"message": tErr.Message,
		}
		if tErr.Code != errors.ErrInternal && tErr.Details != nil {
			errorObj["details"] = tErr.Details
		}
		payload = map[string]any{"error": errorObj}
	}

	renderJSON(w, status, payload)
}

// selectedValues collects facet selections from repeated or comma-separated
// "selected" parameters.
func selectedValues(r *http.Request) []string {
	var values []string
	for _, raw := range r.URL.Query()["selected"] {
		for _, v := range strings.Split(raw, ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// HistoryAPI handles the history endpoint.
type HistoryAPI struct {
	store *Store
}

// NewHistoryAPI creates a new history API handler.
func NewHistoryAPI(store *Store) *HistoryAPI {
	return &HistoryAPI{store: store}
}

// HandleList handles GET /api/v1/history?session=&limit=&offset=.
func (h *HistoryAPI) HandleList(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := req.URL.Query()
	limit, err := queryInt(q.Get("limit"), 100)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid limit", err.Error())
		return
	}
	offset, err := queryInt(q.Get("offset"), 0)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid offset", err.Error())
		return
	}

	entries, err := h.store.ListEntries(q.Get("session"), limit, offset)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to list history", err.Error())
		return
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}

	total, err := h.store.CountEntries()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to count history", err.Error())
		return
	}

	writeJSONResponse(w, http.StatusOK, HistoryListResponse{
		Entries: entries,
		Total:   total,
	})
}

func queryInt(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// writeJSONResponse writes a JSON response with the given status code.
func writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, message, details string) {
	writeJSONResponse(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

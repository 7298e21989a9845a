package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/robertgvds/vision-games/internal/store"
)

// DefaultResultsLimit caps a results listing without an explicit limit.
const DefaultResultsLimit = 20

// ResultsHandler serves the finished game history.
type ResultsHandler struct {
	store *store.Store
}

// NewResultsHandler creates a new ResultsHandler with the given store.
func NewResultsHandler(s *store.Store) *ResultsHandler {
	return &ResultsHandler{store: s}
}

type listResultsResponse struct {
	Results []*store.Result `json:"results"`
}

// ServeHTTP handles /api/results?game=&limit= and /api/results/{id}.
func (h *ResultsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := tail(r.URL.Path, "/api/results")
	if id == "" {
		h.list(w, r)
		return
	}
	h.get(w, r, id)
}

func (h *ResultsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultResultsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	results, err := h.store.Results().List(r.Context(), r.URL.Query().Get("game"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list results")
		return
	}
	writeJSON(w, http.StatusOK, listResultsResponse{Results: results})
}

func (h *ResultsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	result, err := h.store.Results().GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Result not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get result")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

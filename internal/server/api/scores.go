package api

import (
	"net/http"

	"github.com/robertgvds/vision-games/internal/store"
)

// ScoresHandler serves the per-game high scores.
type ScoresHandler struct {
	store *store.Store
}

// NewScoresHandler creates a new ScoresHandler with the given store.
func NewScoresHandler(s *store.Store) *ScoresHandler {
	return &ScoresHandler{store: s}
}

type listScoresResponse struct {
	HighScores []store.HighScore `json:"high_scores"`
}

type scoreResponse struct {
	Game  string `json:"game"`
	Score int    `json:"score"`
}

// ServeHTTP handles /api/scores and /api/scores/{game}.
func (h *ScoresHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	game := tail(r.URL.Path, "/api/scores")
	if game == "" {
		h.list(w, r)
		return
	}
	h.get(w, r, game)
}

func (h *ScoresHandler) list(w http.ResponseWriter, r *http.Request) {
	scores, err := h.store.HighScores().List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list high scores")
		return
	}
	writeJSON(w, http.StatusOK, listScoresResponse{HighScores: scores})
}

func (h *ScoresHandler) get(w http.ResponseWriter, r *http.Request, game string) {
	score, err := h.store.HighScores().Get(r.Context(), game)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get high score")
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{Game: game, Score: score})
}

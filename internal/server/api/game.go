package api

import (
	"errors"
	"net/http"

	"github.com/robertgvds/vision-games/internal/app"
)

// Controller starts and drives games.
type Controller interface {
	Status() app.Status
	StartGame(game app.Game, players int) (app.Status, error)
	Restart() (app.Status, error)
	StopGame()
	Jump(player int) error
}

// GameHandler exposes the running game.
type GameHandler struct {
	games Controller
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(c Controller) *GameHandler {
	return &GameHandler{games: c}
}

type startGameRequest struct {
	Game    string `json:"game"`
	Players int    `json:"players"`
}

type jumpRequest struct {
	Player int `json:"player"`
}

// ServeHTTP routes /api/game, /api/game/restart and /api/game/jump.
func (h *GameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch tail(r.URL.Path, "/api/game") {
	case "":
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, h.games.Status())
		case http.MethodPost:
			h.start(w, r)
		case http.MethodDelete:
			h.games.StopGame()
			writeJSON(w, http.StatusOK, h.games.Status())
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case "restart":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.restart(w)
	case "jump":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.jump(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (h *GameHandler) start(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	game, err := app.ParseGame(req.Game)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Game must be 'ninja', 'dodge' or 'rps'")
		return
	}
	if req.Players == 0 {
		req.Players = 1
	}

	status, err := h.games.StartGame(game, req.Players)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, status)
}

func (h *GameHandler) restart(w http.ResponseWriter) {
	status, err := h.games.Restart()
	if err != nil {
		if errors.Is(err, app.ErrNoGame) {
			writeError(w, http.StatusConflict, "No game to restart")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, status)
}

func (h *GameHandler) jump(w http.ResponseWriter, r *http.Request) {
	req := jumpRequest{Player: 1}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
	}

	if err := h.games.Jump(req.Player); err != nil {
		if errors.Is(err, app.ErrNoGame) {
			writeError(w, http.StatusConflict, "No game running")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

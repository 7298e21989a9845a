package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/robertgvds/vision-games/internal/app"
	"github.com/robertgvds/vision-games/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

type fakeController struct {
	status  app.Status
	started []app.Game
	players []int
	jumps   []int
	stopped int
	err     error
}

func (f *fakeController) Status() app.Status { return f.status }

func (f *fakeController) StartGame(game app.Game, players int) (app.Status, error) {
	if f.err != nil {
		return f.status, f.err
	}
	f.started = append(f.started, game)
	f.players = append(f.players, players)
	f.status = app.Status{Game: game, Players: players, Running: true, SessionID: "s1"}
	return f.status, nil
}

func (f *fakeController) Restart() (app.Status, error) {
	if len(f.started) == 0 {
		return f.status, app.ErrNoGame
	}
	return f.StartGame(f.started[len(f.started)-1], f.players[len(f.players)-1])
}

func (f *fakeController) StopGame() {
	f.stopped++
	f.status.Running = false
}

func (f *fakeController) Jump(player int) error {
	if !f.status.Running {
		return app.ErrNoGame
	}
	if player != 1 && player != 2 {
		return errors.New("no such player")
	}
	f.jumps = append(f.jumps, player)
	return nil
}

func TestTail(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/scores", ""},
		{"/api/scores/", ""},
		{"/api/scores/ninja", "ninja"},
		{"/api/scores/ninja/", "ninja"},
	}

	for _, tt := range tests {
		if got := tail(tt.path, "/api/scores"); got != tt.want {
			t.Errorf("tail(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestGameHandler(t *testing.T) {
	t.Run("starts a game with one player by default", func(t *testing.T) {
		c := &fakeController{}
		h := NewGameHandler(c)

		req := httptest.NewRequest(http.MethodPost, "/api/game", bytes.NewBufferString(`{"game": "ninja"}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
		}
		if len(c.started) != 1 || c.started[0] != app.GameNinja || c.players[0] != 1 {
			t.Errorf("unexpected start calls %v %v", c.started, c.players)
		}

		var status app.Status
		if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !status.Running || status.Game != app.GameNinja {
			t.Errorf("unexpected status %+v", status)
		}
	})

	t.Run("passes the player count", func(t *testing.T) {
		c := &fakeController{}
		h := NewGameHandler(c)

		req := httptest.NewRequest(http.MethodPost, "/api/game", bytes.NewBufferString(`{"game": "dodge", "players": 2}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated || c.players[0] != 2 {
			t.Errorf("expected a two player start, got %d %v", rec.Code, c.players)
		}
	})

	t.Run("rejects bad requests", func(t *testing.T) {
		tests := []struct {
			name string
			body string
			err  error
		}{
			{"invalid json", `{`, nil},
			{"unknown game", `{"game": "chess"}`, nil},
			{"controller error", `{"game": "rps", "players": 2}`, errors.New("rps is single player")},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := NewGameHandler(&fakeController{err: tt.err})

				req := httptest.NewRequest(http.MethodPost, "/api/game", bytes.NewBufferString(tt.body))
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, req)

				if rec.Code != http.StatusBadRequest {
					t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
				}

				var resp errorResponse
				json.NewDecoder(rec.Body).Decode(&resp)
				if resp.Error == "" {
					t.Error("expected an error message")
				}
			})
		}
	})

	t.Run("restart without a game conflicts", func(t *testing.T) {
		h := NewGameHandler(&fakeController{})

		req := httptest.NewRequest(http.MethodPost, "/api/game/restart", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
		}
	})

	t.Run("restart replays the last game", func(t *testing.T) {
		c := &fakeController{}
		c.StartGame(app.GameDodge, 2)
		h := NewGameHandler(c)

		req := httptest.NewRequest(http.MethodPost, "/api/game/restart", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d", http.StatusCreated, rec.Code)
		}
		if len(c.started) != 2 || c.started[1] != app.GameDodge || c.players[1] != 2 {
			t.Errorf("unexpected start calls %v %v", c.started, c.players)
		}
	})

	t.Run("stops the game", func(t *testing.T) {
		c := &fakeController{status: app.Status{Running: true}}
		h := NewGameHandler(c)

		req := httptest.NewRequest(http.MethodDelete, "/api/game", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK || c.stopped != 1 {
			t.Errorf("expected one stop, got status %d stops %d", rec.Code, c.stopped)
		}
	})

	t.Run("jump", func(t *testing.T) {
		c := &fakeController{status: app.Status{Running: true}}
		h := NewGameHandler(c)

		req := httptest.NewRequest(http.MethodPost, "/api/game/jump", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
		}

		req = httptest.NewRequest(http.MethodPost, "/api/game/jump", bytes.NewBufferString(`{"player": 2}`))
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
		}
		if len(c.jumps) != 2 || c.jumps[0] != 1 || c.jumps[1] != 2 {
			t.Errorf("unexpected jumps %v", c.jumps)
		}

		req = httptest.NewRequest(http.MethodPost, "/api/game/jump", bytes.NewBufferString(`{"player": 3}`))
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d for a missing player, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("jump without a game conflicts", func(t *testing.T) {
		h := NewGameHandler(&fakeController{})

		req := httptest.NewRequest(http.MethodPost, "/api/game/jump", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
		}
	})

	t.Run("method and path checks", func(t *testing.T) {
		h := NewGameHandler(&fakeController{})

		tests := []struct {
			method string
			path   string
			want   int
		}{
			{http.MethodPut, "/api/game", http.StatusMethodNotAllowed},
			{http.MethodGet, "/api/game/restart", http.StatusMethodNotAllowed},
			{http.MethodGet, "/api/game/jump", http.StatusMethodNotAllowed},
			{http.MethodGet, "/api/game/other", http.StatusNotFound},
		}

		for _, tt := range tests {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("%s %s: expected status %d, got %d", tt.method, tt.path, tt.want, rec.Code)
			}
		}
	})
}

func TestScoresHandler(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	if _, err := s.HighScores().Submit(ctx, "ninja", 42); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	h := NewScoresHandler(s)

	t.Run("lists high scores", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/scores", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var resp listScoresResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.HighScores) != 1 || resp.HighScores[0].Game != "ninja" || resp.HighScores[0].Score != 42 {
			t.Errorf("unexpected high scores %+v", resp.HighScores)
		}
	})

	t.Run("gets one game", func(t *testing.T) {
		tests := []struct {
			game string
			want int
		}{
			{"ninja", 42},
			{"dodge", 0},
		}

		for _, tt := range tests {
			req := httptest.NewRequest(http.MethodGet, "/api/scores/"+tt.game, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			var resp scoreResponse
			json.NewDecoder(rec.Body).Decode(&resp)
			if rec.Code != http.StatusOK || resp.Game != tt.game || resp.Score != tt.want {
				t.Errorf("%s: got status %d body %+v", tt.game, rec.Code, resp)
			}
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/scores", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}

func TestResultsHandler(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for i, game := range []string{"ninja", "dodge", "ninja"} {
		res := &store.Result{
			Game:      game,
			SessionID: "session",
			Players:   1,
			Scores:    map[string]int{"player1": i},
			Best:      i,
		}
		if err := s.Results().Create(ctx, res); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	h := NewResultsHandler(s)

	list := func(t *testing.T, query string) listResultsResponse {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/api/results"+query, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		var resp listResultsResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return resp
	}

	t.Run("lists all results", func(t *testing.T) {
		if got := list(t, ""); len(got.Results) != 3 {
			t.Errorf("expected 3 results, got %d", len(got.Results))
		}
	})

	t.Run("filters by game and limit", func(t *testing.T) {
		if got := list(t, "?game=ninja"); len(got.Results) != 2 {
			t.Errorf("expected 2 ninja results, got %d", len(got.Results))
		}
		if got := list(t, "?limit=1"); len(got.Results) != 1 {
			t.Errorf("expected 1 result, got %d", len(got.Results))
		}
	})

	t.Run("rejects a bad limit", func(t *testing.T) {
		for _, q := range []string{"?limit=x", "?limit=0", "?limit=-3"} {
			req := httptest.NewRequest(http.MethodGet, "/api/results"+q, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected status %d, got %d", q, http.StatusBadRequest, rec.Code)
			}
		}
	})

	t.Run("gets one result", func(t *testing.T) {
		id := list(t, "?limit=1").Results[0].ID

		req := httptest.NewRequest(http.MethodGet, "/api/results/"+id, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		var got store.Result
		json.NewDecoder(rec.Body).Decode(&got)
		if got.ID != id {
			t.Errorf("got id %s, want %s", got.ID, id)
		}
	})

	t.Run("returns 404 for unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/results/nope", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})
}

package server

import (
	"bytes"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/robertgvds/vision-games/internal/app"
	"github.com/robertgvds/vision-games/internal/config"
	"github.com/robertgvds/vision-games/internal/landmark"
	"github.com/robertgvds/vision-games/internal/rps"
	"github.com/robertgvds/vision-games/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *app.App, *store.Store) {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })

	tuning := config.DefaultTuning()
	tuning.RPS = rps.Config{BestOf: 1, CountdownFrom: 0, CountdownStep: time.Millisecond}

	a := app.New(app.Config{
		Tuning:       tuning,
		HighScores:   st.HighScores(),
		Sinks:        []app.ResultSink{app.NewStoreSink(st)},
		NewRand:      func() *rand.Rand { return rand.New(rand.NewSource(9)) },
		TickInterval: time.Millisecond,
	})
	t.Cleanup(a.Stop)

	srv := New(Config{
		Store:  st,
		Games:  a,
		Views:  a.Views(),
		Frames: a.Frames(),
	})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, a, st
}

// feed offers sample to the running game until the returned stop is called.
func feed(a *app.App, sample *landmark.Sample) func() {
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				a.Offer(sample)
				time.Sleep(200 * time.Microsecond)
			}
		}
	}()
	return func() { close(stop) }
}

func TestAPI_RPSWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts, a, _ := newTestServer(t)
	client := ts.Client()

	// 1. Start a match
	resp, err := client.Post(ts.URL+"/api/game", "application/json", bytes.NewBufferString(`{"game": "rps"}`))
	if err != nil {
		t.Fatalf("POST /api/game error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var started app.Status
	json.NewDecoder(resp.Body).Decode(&started)
	resp.Body.Close()

	if started.SessionID == "" || started.Game != app.GameRPS {
		t.Fatalf("unexpected status %+v", started)
	}

	// 2. Play it: a fist and a thumbs up
	stop := feed(a, &landmark.Sample{Hands: []landmark.HandLandmarks{
		landmark.RockLandmarks(),
		landmark.ThumbsUpLandmarks(),
	}})
	defer stop()

	// 3. Wait for the stored result
	var listed struct {
		Results []struct {
			ID        string `json:"id"`
			Game      string `json:"game"`
			SessionID string `json:"session_id"`
			Winner    string `json:"winner"`
		} `json:"results"`
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err = client.Get(ts.URL + "/api/results?game=rps")
		if err != nil {
			t.Fatalf("GET /api/results error = %v", err)
		}
		json.NewDecoder(resp.Body).Decode(&listed)
		resp.Body.Close()

		if len(listed.Results) > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("match result was never stored")
		}
		time.Sleep(10 * time.Millisecond)
	}

	got := listed.Results[0]
	if got.SessionID != started.SessionID {
		t.Errorf("result session = %s, want %s", got.SessionID, started.SessionID)
	}
	if got.Winner == "" {
		t.Error("expected a match winner")
	}

	// 4. Get the single result
	resp, _ = client.Get(ts.URL + "/api/results/" + got.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/results/%s status = %d, want %d", got.ID, resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	// 5. rps keeps no high score
	resp, _ = client.Get(ts.URL + "/api/scores/rps")
	var score struct {
		Game  string `json:"game"`
		Score int    `json:"score"`
	}
	json.NewDecoder(resp.Body).Decode(&score)
	resp.Body.Close()

	if score.Score != 0 {
		t.Errorf("rps high score = %d, want 0", score.Score)
	}

	// 6. Restart gives a new session
	resp, _ = client.Post(ts.URL+"/api/game/restart", "application/json", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/game/restart status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var restarted app.Status
	json.NewDecoder(resp.Body).Decode(&restarted)
	resp.Body.Close()

	if restarted.SessionID == started.SessionID {
		t.Error("restart kept the old session")
	}

	// 7. Stop it
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/game", nil)
	resp, _ = client.Do(req)
	var stopped app.Status
	json.NewDecoder(resp.Body).Decode(&stopped)
	resp.Body.Close()

	if stopped.Running {
		t.Error("game still running after DELETE")
	}
	if stopped.LastFinal == nil || stopped.LastFinal.SessionID != started.SessionID {
		t.Errorf("status lost the last outcome: %+v", stopped.LastFinal)
	}
}

func TestAPI_ResultNotFound(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/results/01ARZ3NDEKTSV4RRFFQ69G5FAV")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestAPI_StateWebSocket(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts, a, _ := newTestServer(t)

	status, err := a.StartGame(app.GameNinja, 1)
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	stop := feed(a, &landmark.Sample{Hands: []landmark.HandLandmarks{landmark.PaperLandmarks()}})
	defer stop()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/state"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error = %v", err)
		}

		var view struct {
			Game      string `json:"game"`
			SessionID string `json:"session_id"`
			Arcade    *struct {
				Mode string `json:"mode"`
			} `json:"arcade"`
		}
		if err := json.Unmarshal(msg, &view); err != nil {
			t.Fatalf("decode view: %v", err)
		}
		if view.SessionID != status.SessionID {
			continue
		}
		if view.Game != "ninja" {
			t.Errorf("view game = %s, want ninja", view.Game)
		}
		if view.Arcade == nil || view.Arcade.Mode != "ninja" {
			t.Errorf("unexpected arcade snapshot %+v", view.Arcade)
		}
		return
	}
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" {
		t.Errorf("status = %s, want ok", health.Status)
	}
}

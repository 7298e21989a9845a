package e2e

import (
	"bufio"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/robertgvds/vision-games/internal/app"
	"github.com/robertgvds/vision-games/internal/capture"
	"github.com/robertgvds/vision-games/internal/config"
	"github.com/robertgvds/vision-games/internal/detector"
	"github.com/robertgvds/vision-games/internal/landmark"
	"github.com/robertgvds/vision-games/internal/rps"
	"github.com/robertgvds/vision-games/internal/server"
	"github.com/robertgvds/vision-games/internal/store"
)

type stack struct {
	ts       *httptest.Server
	games    *app.App
	store    *store.Store
	detector *detector.MockDetector
}

func newStack(t *testing.T) *stack {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	frame := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { frame.Close() })

	det := detector.NewMockDetector()
	source := capture.NewSource(capture.NewMockCamera([]*gocv.Mat{&frame}, true), det)

	tuning := config.DefaultTuning()
	tuning.RPS = rps.Config{BestOf: 1, CountdownFrom: 0, CountdownStep: time.Millisecond}

	games := app.New(app.Config{
		Tuning:          tuning,
		Source:          source,
		HighScores:      s.HighScores(),
		Sinks:           []app.ResultSink{app.NewStoreSink(s)},
		NewRand:         func() *rand.Rand { return rand.New(rand.NewSource(3)) },
		CaptureInterval: time.Millisecond,
		TickInterval:    time.Millisecond,
	})
	if err := games.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(games.Stop)

	srv := server.New(server.Config{
		Store:  s,
		Games:  games,
		Views:  games.Views(),
		Frames: games.Frames(),
	})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return &stack{ts: ts, games: games, store: s, detector: det}
}

func TestE2E_RPSMatchFromCamera(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	st := newStack(t)
	client := st.ts.Client()

	// The player shows scissors with a thumbs up beside it.
	st.detector.SetHands(landmark.ScissorsLandmarks(), landmark.ThumbsUpLandmarks())

	resp, err := client.Post(st.ts.URL+"/api/game", "application/json", strings.NewReader(`{"game": "rps"}`))
	if err != nil {
		t.Fatalf("start game error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var listed struct {
		Results []struct {
			Game   string         `json:"game"`
			Winner string         `json:"winner"`
			Scores map[string]int `json:"scores"`
		} `json:"results"`
	}
	deadline := time.Now().Add(5 * time.Second)
	for len(listed.Results) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("match never finished")
		}
		time.Sleep(10 * time.Millisecond)

		resp, err := client.Get(st.ts.URL + "/api/results")
		if err != nil {
			t.Fatalf("list results error = %v", err)
		}
		json.NewDecoder(resp.Body).Decode(&listed)
		resp.Body.Close()
	}

	got := listed.Results[0]
	if got.Game != "rps" {
		t.Errorf("game = %s, want rps", got.Game)
	}
	if got.Winner != "player" && got.Winner != "computer" {
		t.Errorf("unexpected winner %q", got.Winner)
	}
	if got.Scores["player"]+got.Scores["computer"] != 1 {
		t.Errorf("best of one should end after one decided round, got %v", got.Scores)
	}
}

func TestE2E_DodgeSwitchesToFaces(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	st := newStack(t)
	st.detector.SetFaces(landmark.FaceAt(0.5, false))

	if _, err := st.games.StartGame(app.GameDodge, 1); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if mode := st.detector.Mode(); mode != detector.ModeFaces {
		t.Errorf("detector mode = %s, want faces", mode)
	}

	if _, err := st.games.StartGame(app.GameNinja, 1); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if mode := st.detector.Mode(); mode != detector.ModeHands {
		t.Errorf("detector mode = %s, want hands", mode)
	}
}

func TestE2E_StreamServesCameraFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	st := newStack(t)

	resp, err := st.ts.Client().Get(st.ts.URL + "/api/stream")
	if err != nil {
		t.Fatalf("GET /api/stream error = %v", err)
	}
	defer resp.Body.Close()

	r := bufio.NewReader(resp.Body)
	length := -1
	for length < 0 {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read frame header: %v", err)
		}
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), "Content-Length: "); ok {
			length, _ = strconv.Atoi(v)
		}
	}
	r.ReadString('\n')

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Error("frame is not a JPEG")
	}
}

func TestE2E_HealthReportsGame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	st := newStack(t)
	if _, err := st.games.StartGame(app.GameDodge, 2); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	resp, err := st.ts.Client().Get(st.ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	var health struct {
		Status string     `json:"status"`
		Game   app.Status `json:"game"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" || !health.Game.Running || health.Game.Players != 2 {
		t.Errorf("unexpected health %+v", health)
	}
}

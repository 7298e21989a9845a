// Package app wires the landmark source to the active game: it owns the
// capture loop, starts and stops game runners and reports finished games.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/robertgvds/vision-games/internal/arcade"
	"github.com/robertgvds/vision-games/internal/config"
	"github.com/robertgvds/vision-games/internal/detector"
	"github.com/robertgvds/vision-games/internal/landmark"
	"github.com/robertgvds/vision-games/internal/logging"
	"github.com/robertgvds/vision-games/internal/rps"
)

// DefaultCaptureInterval paces the capture loop at about 30 frames a second.
const DefaultCaptureInterval = 33 * time.Millisecond

// ErrNoGame is returned when an operation needs a running game.
var ErrNoGame = errors.New("no game running")

// Source yields camera frames with their landmarks.
type Source interface {
	Poll() (*gocv.Mat, *landmark.Sample, error)
	SetMode(mode detector.Mode) error
	Close() error
}

// HighScores records per-game best scores.
type HighScores interface {
	Submit(ctx context.Context, game string, score int) (bool, error)
}

// ResultSink receives every finished game exactly once.
type ResultSink interface {
	Report(ctx context.Context, o Outcome) error
}

// Config holds configuration options for the application.
type Config struct {
	Tuning     *config.Tuning
	Source     Source
	HighScores HighScores
	Sinks      []ResultSink
	Log        logrus.FieldLogger

	// NewRand seeds each game. Defaults to a time seeded source.
	NewRand func() *rand.Rand

	CaptureInterval time.Duration
	// TickInterval overrides the per-game tick period when set.
	TickInterval time.Duration
}

// Status describes the current game.
type Status struct {
	Game      Game      `json:"game,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Players   int       `json:"players,omitempty"`
	Running   bool      `json:"running"`
	Over      bool      `json:"over"`
	StartedAt time.Time `json:"started_at"`
	Capturing bool      `json:"capturing"`
	LastFinal *Outcome  `json:"last_outcome,omitempty"`
}

// App is the main application that runs games against the landmark source.
type App struct {
	config   Config
	log      logrus.FieldLogger
	mailbox  *Mailbox
	hub      *Hub
	frames   *FrameBuffer
	throttle *logging.Throttle

	mu     sync.Mutex
	runner *Runner
	// last game settings, kept after StopGame for Restart
	lastGame    Game
	lastPlayers int
	stopCh chan struct{}
	done   chan struct{}

	outcomeMu   sync.Mutex
	lastOutcome *Outcome
}

// New creates a new App instance with the given configuration.
func New(cfg Config) *App {
	if cfg.Tuning == nil {
		cfg.Tuning = config.DefaultTuning()
	}
	if cfg.Log == nil {
		cfg.Log = logging.Discard()
	}
	if cfg.NewRand == nil {
		cfg.NewRand = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	if cfg.CaptureInterval <= 0 {
		cfg.CaptureInterval = DefaultCaptureInterval
	}

	return &App{
		config:   cfg,
		log:      cfg.Log.WithField("component", "app"),
		mailbox:  &Mailbox{},
		hub:      NewHub(),
		frames:   &FrameBuffer{},
		throttle: logging.NewThrottle(5 * time.Second),
	}
}

// Start begins the capture loop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}
	if a.config.Source == nil {
		return errors.New("no landmark source configured")
	}

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runCapture(a.stopCh, a.done)

	a.log.Info("capture started")
	return nil
}

// Stop halts the game and the capture loop and releases the source.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.runner != nil {
		a.runner.stop()
		a.runner = nil
	}

	if a.stopCh != nil {
		close(a.stopCh)
		<-a.done
		a.stopCh = nil
	}

	if a.config.Source != nil {
		if err := a.config.Source.Close(); err != nil {
			a.log.WithError(err).Warn("close source")
		}
	}

	a.log.Info("capture stopped")
}

func (a *App) runCapture(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.config.CaptureInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.captureOnce()
		}
	}
}

func (a *App) captureOnce() {
	frame, sample, err := a.config.Source.Poll()
	if err != nil {
		if a.throttle.Allow("capture") {
			a.log.WithError(err).Warn("capture failed, skipping ticks")
		}
		return
	}
	defer frame.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err == nil {
		a.frames.Set(bytes.Clone(buf.GetBytes()))
		buf.Close()
	}

	a.mailbox.Put(sample)
}

// Offer hands a sample to the running game as if it had been captured.
func (a *App) Offer(sample *landmark.Sample) {
	a.mailbox.Put(sample)
}

// StartGame replaces any running game with a new one. A rejected request
// leaves the running game untouched.
func (a *App) StartGame(game Game, players int) (Status, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, err := a.newPlay(game, players)
	if err != nil {
		return a.status(), err
	}

	if a.runner != nil {
		a.runner.stop()
		a.runner = nil
	}
	a.mailbox.Clear()

	if a.config.Source != nil {
		if err := a.config.Source.SetMode(game.Mode()); err != nil {
			return a.status(), err
		}
	}

	interval := game.TickInterval()
	if a.config.TickInterval > 0 {
		interval = a.config.TickInterval
	}

	r := &Runner{
		id:       uuid.NewString(),
		game:     game,
		players:  players,
		play:     p,
		interval: interval,
		mailbox:  a.mailbox,
		log:      a.config.Log,
		throttle: a.throttle,
		publish:  a.hub.Publish,
		finish:   a.finish,
	}
	r.start(time.Now())
	a.runner = r
	a.lastGame, a.lastPlayers = game, players

	a.log.WithFields(logrus.Fields{
		"game":    game,
		"players": players,
		"session": r.id,
	}).Info("game started")

	return a.status(), nil
}

func (a *App) newPlay(game Game, players int) (play, error) {
	switch game {
	case GameNinja, GameDodge:
		cfg, err := a.config.Tuning.Arcade(arcade.Mode(game))
		if err != nil {
			return nil, err
		}
		return newArcadePlay(game, cfg, players, a.config.NewRand())
	case GameRPS:
		if players != 1 {
			return nil, fmt.Errorf("%w: rps is single player, got %d", rps.ErrInvalidConfig, players)
		}
		if err := a.config.Tuning.RPS.Validate(); err != nil {
			return nil, err
		}
		return &rpsPlay{machine: rps.New(a.config.Tuning.RPS, a.config.NewRand())}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGame, game)
}

// Restart starts a fresh game with the same game and player count.
func (a *App) Restart() (Status, error) {
	a.mu.Lock()
	game, players := a.lastGame, a.lastPlayers
	a.mu.Unlock()

	if game == "" {
		return a.Status(), ErrNoGame
	}
	return a.StartGame(game, players)
}

// StopGame ends the running game without reporting it.
func (a *App) StopGame() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.runner == nil {
		return
	}
	a.runner.stop()
	a.log.WithField("session", a.runner.id).Info("game stopped")
	a.runner = nil
}

// Jump makes a dodge player jump.
func (a *App) Jump(player int) error {
	a.mu.Lock()
	r := a.runner
	a.mu.Unlock()

	if r == nil {
		return ErrNoGame
	}
	return r.jump(player)
}

// Status returns the current game status.
func (a *App) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status()
}

func (a *App) status() Status {
	s := Status{Capturing: a.stopCh != nil}
	if r := a.runner; r != nil {
		r.mu.Lock()
		s.Game = r.game
		s.SessionID = r.id
		s.Players = r.players
		s.Running = true
		s.Over = r.over
		s.StartedAt = r.startedAt
		r.mu.Unlock()
	}

	a.outcomeMu.Lock()
	if a.lastOutcome != nil {
		o := *a.lastOutcome
		s.LastFinal = &o
	}
	a.outcomeMu.Unlock()
	return s
}

// Views returns the hub that publishes a view on every tick.
func (a *App) Views() *Hub {
	return a.hub
}

// Frames returns the latest encoded camera frame.
func (a *App) Frames() *FrameBuffer {
	return a.frames
}

// finish runs on the runner goroutine and must not take a.mu, which
// StartGame holds while waiting for that goroutine.
func (a *App) finish(ctx context.Context, o Outcome) Outcome {
	log := a.log.WithFields(logrus.Fields{
		"game":    o.Game,
		"session": o.SessionID,
		"score":   o.Best,
	})

	if a.config.HighScores != nil && o.Game != GameRPS {
		record, err := a.config.HighScores.Submit(ctx, string(o.Game), o.Best)
		if err != nil {
			log.WithError(err).Error("submit high score")
		}
		o.NewRecord = record
	}

	a.outcomeMu.Lock()
	a.lastOutcome = &o
	a.outcomeMu.Unlock()

	for _, sink := range a.config.Sinks {
		if err := sink.Report(ctx, o); err != nil {
			log.WithError(err).Error("report result")
		}
	}

	log.WithField("new_record", o.NewRecord).Info("game finished")
	return o
}

package rps

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/robertgvds/vision-games/internal/gesture"
	"github.com/robertgvds/vision-games/internal/landmark"
)

// ErrInvalidConfig is returned for unusable match settings.
var ErrInvalidConfig = errors.New("invalid rps config")

// State is the phase of the current round.
type State uint8

const (
	StateAwaitingReady State = iota
	StateCountdown
	StateCapturing
	// StateAdjudicating only exists inside a tick.
	StateAdjudicating
	StateShowingResult
	// StateMatchOver is terminal until Reset.
	StateMatchOver
)

var stateNames = [...]string{
	StateAwaitingReady: "awaiting_ready",
	StateCountdown:     "countdown",
	StateCapturing:     "capturing",
	StateAdjudicating:  "adjudicating",
	StateShowingResult: "showing_result",
	StateMatchOver:     "match_over",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Config tunes the pacing of a match.
type Config struct {
	// BestOf is the match length. A side wins at BestOf/2+1 rounds.
	BestOf         int           `toml:"best_of" json:"best_of" validate:"min=1"`
	CountdownFrom  int           `toml:"countdown_from" json:"countdown_from" validate:"min=0"`
	CountdownStep  time.Duration `toml:"countdown_step" json:"countdown_step" validate:"gt=0"`
	CaptureDelay   time.Duration `toml:"capture_delay" json:"capture_delay" validate:"min=0"`
	InvalidDisplay time.Duration `toml:"invalid_display" json:"invalid_display" validate:"min=0"`
	ResultDisplay  time.Duration `toml:"result_display" json:"result_display" validate:"min=0"`
}

// DefaultConfig returns a best of three with a three second countdown.
func DefaultConfig() Config {
	return Config{
		BestOf:         3,
		CountdownFrom:  3,
		CountdownStep:  time.Second,
		CaptureDelay:   500 * time.Millisecond,
		InvalidDisplay: 2 * time.Second,
		ResultDisplay:  3 * time.Second,
	}
}

var validate = validator.New()

// Validate checks the config ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Target is the number of round wins that ends the match.
func (c *Config) Target() int {
	return c.BestOf/2 + 1
}

// Result is returned by every tick.
type Result struct {
	State   State `json:"state"`
	Skipped bool  `json:"skipped,omitempty"`
	// Detected is the gesture read this tick, for display.
	Detected  gesture.Gesture `json:"detected"`
	Countdown int             `json:"countdown"`
	Scores    Scores          `json:"scores"`
	// Round is set on the tick a capture is resolved.
	Round *Round `json:"round,omitempty"`
	// Match is set exactly once, on the tick the match ends.
	Match *MatchResult `json:"match,omitempty"`
}

// Machine sequences the rounds of one match. It is owned by a single loop
// and is not safe for concurrent use.
type Machine struct {
	cfg Config
	rng *rand.Rand

	state     State
	scores    Scores
	countdown int
	last      *Round
	match     *MatchResult

	clock    time.Duration
	deadline time.Duration
}

// New creates a machine waiting for a thumbs up. cfg must be valid.
func New(cfg Config, rng *rand.Rand) *Machine {
	return &Machine{cfg: cfg, rng: rng}
}

// State returns the current phase.
func (m *Machine) State() State {
	return m.state
}

// Scores returns the running tally.
func (m *Machine) Scores() Scores {
	return m.scores
}

// Countdown returns the value shown while counting down.
func (m *Machine) Countdown() int {
	return m.countdown
}

// LastRound returns the most recent resolved round, if any.
func (m *Machine) LastRound() *Round {
	if m.last == nil {
		return nil
	}
	r := *m.last
	return &r
}

// Match returns the final result once the match is over.
func (m *Machine) Match() *MatchResult {
	if m.match == nil {
		return nil
	}
	r := *m.match
	return &r
}

// Reset zeroes the tally and waits for the next thumbs up.
func (m *Machine) Reset() {
	m.state = StateAwaitingReady
	m.scores = Scores{}
	m.countdown = 0
	m.last = nil
	m.match = nil
	m.deadline = 0
}

// Tick advances the machine by dt. A nil sample skips the tick without
// advancing the clock.
func (m *Machine) Tick(dt time.Duration, sample *landmark.Sample) Result {
	if sample == nil {
		return m.result(Result{Skipped: true})
	}
	if m.state == StateMatchOver {
		return m.result(Result{})
	}

	m.clock += dt
	res := Result{Detected: detect(sample)}

	switch m.state {
	case StateAwaitingReady:
		if anyThumbsUp(sample) {
			m.state = StateCountdown
			m.countdown = m.cfg.CountdownFrom
			m.deadline = m.clock + m.cfg.CountdownStep
		}

	case StateCountdown:
		for m.state == StateCountdown && m.clock >= m.deadline {
			m.countdown--
			m.deadline += m.cfg.CountdownStep
			if m.countdown < 0 {
				m.countdown = 0
				m.state = StateCapturing
				m.deadline = m.clock + m.cfg.CaptureDelay
			}
		}

	case StateCapturing:
		if m.clock >= m.deadline {
			m.capture(sample, &res)
		}

	case StateShowingResult:
		if m.clock >= m.deadline {
			m.state = StateAwaitingReady
		}
	}

	return m.result(res)
}

func (m *Machine) capture(sample *landmark.Sample, res *Result) {
	move := gesture.ClassifyFirst(sample)
	if !move.IsMove() {
		m.last = &Round{Number: m.scores.Rounds + 1, Player: move, Outcome: OutcomeInvalid}
		res.Round = m.LastRound()
		m.state = StateShowingResult
		m.deadline = m.clock + m.cfg.InvalidDisplay
		return
	}

	m.state = StateAdjudicating
	moves := gesture.Moves()
	computer := moves[m.rng.Intn(len(moves))]
	outcome := Decide(move, computer)

	switch outcome {
	case OutcomePlayer:
		m.scores.Player++
	case OutcomeComputer:
		m.scores.Computer++
	}
	m.scores.Rounds++

	m.last = &Round{Number: m.scores.Rounds, Player: move, Computer: computer, Outcome: outcome}
	res.Round = m.LastRound()

	target := m.cfg.Target()
	if m.scores.Player >= target || m.scores.Computer >= target {
		m.state = StateMatchOver
		m.match = &MatchResult{
			Winner:        winner(m.scores),
			PlayerScore:   m.scores.Player,
			ComputerScore: m.scores.Computer,
			Rounds:        m.scores.Rounds,
		}
		res.Match = m.Match()
		return
	}

	m.state = StateShowingResult
	m.deadline = m.clock + m.cfg.ResultDisplay
}

func (m *Machine) result(res Result) Result {
	res.State = m.state
	res.Countdown = m.countdown
	res.Scores = m.scores
	return res
}

func winner(s Scores) Winner {
	switch {
	case s.Player > s.Computer:
		return WinnerPlayer
	case s.Computer > s.Player:
		return WinnerComputer
	}
	return WinnerTie
}

// detect returns the last recognised gesture across the tracked hands.
func detect(sample *landmark.Sample) gesture.Gesture {
	detected := gesture.None
	for i := range sample.Hands {
		if g := gesture.Classify(&sample.Hands[i]); g != gesture.None {
			detected = g
		}
	}
	return detected
}

func anyThumbsUp(sample *landmark.Sample) bool {
	for i := range sample.Hands {
		if gesture.Classify(&sample.Hands[i]) == gesture.ThumbsUp {
			return true
		}
	}
	return false
}

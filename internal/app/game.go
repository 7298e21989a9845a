package app

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/robertgvds/vision-games/internal/arcade"
	"github.com/robertgvds/vision-games/internal/detector"
	"github.com/robertgvds/vision-games/internal/landmark"
	"github.com/robertgvds/vision-games/internal/rps"
)

// ErrUnknownGame is returned for a game name that is not ninja, dodge or rps.
var ErrUnknownGame = errors.New("unknown game")

// Game names one of the minigames.
type Game string

const (
	GameNinja Game = "ninja"
	GameDodge Game = "dodge"
	GameRPS   Game = "rps"
)

// Games lists every game in menu order.
func Games() []Game {
	return []Game{GameNinja, GameDodge, GameRPS}
}

// ParseGame validates a game name.
func ParseGame(name string) (Game, error) {
	switch g := Game(name); g {
	case GameNinja, GameDodge, GameRPS:
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGame, name)
}

// Mode is the landmark model the game reads.
func (g Game) Mode() detector.Mode {
	if g == GameDodge {
		return detector.ModeFaces
	}
	return detector.ModeHands
}

// TickInterval is the loop period of the game.
func (g Game) TickInterval() time.Duration {
	if g == GameRPS {
		return 30 * time.Millisecond
	}
	return 16 * time.Millisecond
}

// Outcome is reported once when a game finishes.
type Outcome struct {
	Game      Game           `json:"game"`
	SessionID string         `json:"session_id"`
	Players   int            `json:"players"`
	Scores    map[string]int `json:"scores"`
	// Winner is "player N" or "tie" for two player arcade games, the match
	// winner for rps, and empty for single player arcade games.
	Winner string `json:"winner,omitempty"`
	// Best is the score compared against the high score.
	Best      int              `json:"best"`
	NewRecord bool             `json:"new_record"`
	Match     *rps.MatchResult `json:"match,omitempty"`
	EndedAt   time.Time        `json:"ended_at"`
}

// View is what a client renders after a tick.
type View struct {
	Game      Game   `json:"game"`
	SessionID string `json:"session_id"`
	Seq       uint64 `json:"seq"`
	Skipped   bool   `json:"skipped,omitempty"`

	Arcade *arcade.Snapshot `json:"arcade,omitempty"`
	Events []arcade.Event   `json:"events,omitempty"`

	RPS       *rps.Result `json:"rps,omitempty"`
	LastRound *rps.Round  `json:"last_round,omitempty"`

	Over    bool     `json:"over"`
	Outcome *Outcome `json:"outcome,omitempty"`
}

// Urgent reports whether the view carries something a client must not
// miss: arcade events, a resolved rps round or the game outcome.
func (v View) Urgent() bool {
	if v.Outcome != nil || len(v.Events) > 0 {
		return true
	}
	return v.RPS != nil && (v.RPS.Round != nil || v.RPS.Match != nil)
}

// play is one game instance driven by a Runner.
type play interface {
	// tick advances the game. A non-nil outcome is returned on the tick
	// the game ends and never again.
	tick(dt time.Duration, sample *landmark.Sample) (View, *Outcome)
	jump(player int) error
}

type arcadePlay struct {
	game    Game
	session *arcade.Session
	players int
	over    bool
}

func newArcadePlay(game Game, cfg arcade.Config, players int, rng *rand.Rand) (*arcadePlay, error) {
	session, err := arcade.NewSession(cfg, players, rng)
	if err != nil {
		return nil, err
	}
	return &arcadePlay{game: game, session: session, players: players}, nil
}

func (p *arcadePlay) tick(dt time.Duration, sample *landmark.Sample) (View, *Outcome) {
	res := p.session.Tick(dt, sample)
	snap := p.session.Snapshot()

	view := View{
		Game:    p.game,
		Skipped: res.Skipped,
		Arcade:  &snap,
		Events:  res.Events,
		Over:    res.State == arcade.StateGameOver,
	}
	if !res.Has(arcade.EventGameOver) || p.over {
		return view, nil
	}
	p.over = true
	return view, arcadeOutcome(p.game, p.players, res.Final)
}

func (p *arcadePlay) jump(player int) error {
	if p.game != GameDodge {
		return fmt.Errorf("%s has no jump", p.game)
	}
	if player < 1 || player > p.players {
		return fmt.Errorf("no player %d", player)
	}
	p.session.Jump(player)
	return nil
}

func arcadeOutcome(game Game, players int, final map[int]int) *Outcome {
	o := &Outcome{
		Game:    game,
		Players: players,
		Scores:  make(map[string]int, len(final)),
	}

	ids := make([]int, 0, len(final))
	for id := range final {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	top, topCount := 0, 0
	leader := 0
	for _, id := range ids {
		score := final[id]
		o.Scores[playerKey(id)] = score
		switch {
		case score > top || topCount == 0:
			top, topCount, leader = score, 1, id
		case score == top:
			topCount++
		}
	}
	o.Best = top

	if players > 1 {
		if topCount > 1 {
			o.Winner = "tie"
		} else {
			o.Winner = "player " + strconv.Itoa(leader)
		}
	}
	return o
}

func playerKey(id int) string {
	return "player" + strconv.Itoa(id)
}

type rpsPlay struct {
	machine *rps.Machine
}

func (p *rpsPlay) tick(dt time.Duration, sample *landmark.Sample) (View, *Outcome) {
	res := p.machine.Tick(dt, sample)

	view := View{
		Game:      GameRPS,
		Skipped:   res.Skipped,
		RPS:       &res,
		LastRound: p.machine.LastRound(),
		Over:      res.State == rps.StateMatchOver,
	}
	if res.Match == nil {
		return view, nil
	}

	m := res.Match
	return view, &Outcome{
		Game:    GameRPS,
		Players: 1,
		Scores: map[string]int{
			"player":   m.PlayerScore,
			"computer": m.ComputerScore,
		},
		Winner: string(m.Winner),
		Best:   m.PlayerScore,
		Match:  m,
	}
}

func (p *rpsPlay) jump(int) error {
	return fmt.Errorf("%s has no jump", GameRPS)
}

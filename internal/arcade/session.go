// Package arcade implements the falling-object games: entity spawning,
// difficulty escalation, physics, collisions and the score, lives and
// shield rules, advanced one tick at a time.
package arcade

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/robertgvds/vision-games/internal/landmark"
)

// Session is one arcade game. It is not safe for concurrent use; a single
// loop owns it and drives it through Tick.
type Session struct {
	cfg        Config
	players    []*Player
	entities   []*Entity
	spawner    *Spawner
	difficulty Difficulty
	rng        *rand.Rand

	state   State
	started bool
	need    int

	// clock counts every processed tick, played only ticks spent running.
	clock  time.Duration
	played time.Duration

	spawnAt time.Duration
	stageAt time.Duration

	final map[int]int
}

// NewSession creates an idle session for the given number of players.
func NewSession(cfg Config, players int, rng *rand.Rand) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if players < 1 || players > cfg.MaxPlayers {
		return nil, fmt.Errorf("%w: %s supports 1 to %d players, got %d",
			ErrInvalidConfig, cfg.Mode, cfg.MaxPlayers, players)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
	}

	s := &Session{
		cfg:     cfg,
		rng:     rng,
		spawner: NewSpawner(cfg.Spawn, cfg.Board, rng),
	}
	for id := 1; id <= players; id++ {
		s.players = append(s.players, newPlayer(id, players, &s.cfg))
	}

	switch cfg.Mode {
	case ModeNinja:
		s.difficulty = NewStagedDifficulty(cfg.Stages)
	case ModeDodge:
		s.difficulty = NewScoreDifficulty(*cfg.Escalation)
	}

	return s, nil
}

// Mode returns the rule set of the session.
func (s *Session) Mode() Mode {
	return s.cfg.Mode
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Stage returns the current difficulty stage.
func (s *Session) Stage() int {
	return s.difficulty.Stage()
}

// Params returns the current difficulty parameters.
func (s *Session) Params() Params {
	return s.difficulty.Params()
}

// Players returns a copy of every player.
func (s *Session) Players() []Player {
	out := make([]Player, len(s.players))
	for i, p := range s.players {
		out[i] = p.clone()
	}
	return out
}

// Entities returns a copy of the live entities.
func (s *Session) Entities() []Entity {
	out := make([]Entity, len(s.entities))
	for i, e := range s.entities {
		out[i] = *e
	}
	return out
}

// Scores returns the per-player scores keyed by player id.
func (s *Session) Scores() map[int]int {
	scores := make(map[int]int, len(s.players))
	for _, p := range s.players {
		scores[p.ID] = p.Score
	}
	return scores
}

// Snapshot returns a renderable copy of the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Mode:     s.cfg.Mode,
		State:    s.state,
		Board:    s.cfg.Board,
		Players:  s.Players(),
		Entities: s.Entities(),
		Stage:    s.difficulty.Stage(),
		Params:   s.difficulty.Params(),
		Elapsed:  s.clock,
		Played:   s.played,
	}
	if s.state == StatePaused {
		snap.Need = s.need
	}
	return snap
}

// Jump starts a jump for the given player. Unknown ids and finished
// sessions are ignored.
func (s *Session) Jump(id int) {
	if s.state == StateGameOver || id < 1 || id > len(s.players) {
		return
	}
	s.players[id-1].Jump()
}

// Tick advances the session by dt using the most recent tracking sample.
// A nil sample skips the tick without advancing any clock. Once the game
// is over every tick returns the frozen final result.
func (s *Session) Tick(dt time.Duration, sample *landmark.Sample) Result {
	if s.state == StateGameOver {
		return Result{State: s.state, Final: copyScores(s.final)}
	}
	if sample == nil {
		return Result{State: s.state, Skipped: true}
	}

	var res Result
	s.clock += dt
	for _, p := range s.players {
		p.expireShield(s.clock)
	}

	have, need := s.subjects(sample)
	if have < need {
		s.pause(need, &res)
		res.State = s.state
		return res
	}

	if s.state == StateRunning {
		s.played += dt
	} else {
		s.resume(&res)
	}

	s.applyInput(sample, &res)
	for _, p := range s.players {
		p.updateJump()
	}

	s.advanceEntities(&res)
	s.resolveCollisions(&res)

	if s.allEliminated() {
		s.finish(&res)
		return res
	}

	s.escalate(&res)
	s.spawn(&res)

	res.State = s.state
	return res
}

func (s *Session) subjects(sample *landmark.Sample) (have, need int) {
	if s.cfg.Mode == ModeDodge {
		return len(sample.FacesLeftToRight()), len(s.players)
	}
	return len(sample.Hands), s.cfg.MinHands
}

func (s *Session) pause(need int, res *Result) {
	s.state = StatePaused
	s.need = need
	s.entities = nil
	for _, p := range s.players {
		p.updateJump()
	}
	res.Events = append(res.Events, Event{Type: EventNeedSubjects, Need: need})
}

func (s *Session) resume(res *Result) {
	if !s.started {
		s.started = true
		res.Events = append(res.Events, Event{Type: EventStarted})
		s.stageAt = s.played + s.cfg.StageCheck
	} else {
		res.Events = append(res.Events, Event{Type: EventResumed})
	}
	s.state = StateRunning
	s.need = 0
	s.spawnAt = s.played + s.difficulty.Params().SpawnInterval
}

func (s *Session) applyInput(sample *landmark.Sample, res *Result) {
	w, h := s.cfg.Board.Width, s.cfg.Board.Height

	if s.cfg.Mode == ModeNinja {
		hands := sample.HandsLeftToRight()
		if len(hands) > s.cfg.MaxCursors {
			hands = hands[:s.cfg.MaxCursors]
		}
		cursors := make([]Point, 0, len(hands))
		for i := range hands {
			tip := hands[i].Points[landmark.IndexTip]
			cursors = append(cursors, Point{X: tip.X * w, Y: tip.Y * h})
		}
		s.players[0].setCursors(cursors, s.cfg.TrailLength)
		return
	}

	faces := sample.FacesLeftToRight()
	for i, p := range s.players {
		if p.Eliminated || i >= len(faces) {
			continue
		}
		face := &faces[i]
		p.MoveTo(face.Nose().X * w)
		if face.MouthOpening() > s.cfg.Player.MouthThreshold {
			if p.activateShield(s.clock, s.cfg.Player.ShieldDuration) {
				res.Events = append(res.Events, Event{Type: EventShieldRaised, Player: p.ID})
			}
		}
	}
}

func (s *Session) advanceEntities(res *Result) {
	kept := s.entities[:0]
	for _, e := range s.entities {
		e.Update()
		if !e.OffBoard(s.cfg.Board.Height) {
			kept = append(kept, e)
			continue
		}
		if e.Resolved || e.Effect.MissLives <= 0 {
			continue
		}
		e.Resolved = true
		res.Events = append(res.Events, Event{Type: EventMissed, Entity: e.ID, Asset: e.Asset})
		for _, p := range s.players {
			if p.Eliminated {
				continue
			}
			if p.loseLives(e.Effect.MissLives) {
				res.Events = append(res.Events, Event{Type: EventEliminated, Player: p.ID})
			}
		}
	}
	clearTail(s.entities, len(kept))
	s.entities = kept
}

// resolveCollisions tests every live entity against every active player.
// The first player an entity touches consumes it.
func (s *Session) resolveCollisions(res *Result) {
	cursorMode := s.cfg.Mode == ModeNinja

	kept := s.entities[:0]
	for _, e := range s.entities {
		consumed := false
		for _, p := range s.players {
			if !p.hits(e, cursorMode) {
				continue
			}
			consumed = true
			e.Resolved = true
			s.apply(p, e, res)
			break
		}
		if !consumed {
			kept = append(kept, e)
		}
	}
	clearTail(s.entities, len(kept))
	s.entities = kept
}

func (s *Session) apply(p *Player, e *Entity, res *Result) {
	ev := Event{Player: p.ID, Entity: e.ID, Asset: e.Asset}

	if e.Kind == KindCollectible {
		p.addScore(e.Effect.Score)
		ev.Type = EventCollected
		res.Events = append(res.Events, ev)
		return
	}

	if p.Shielded {
		p.addScore(-e.Effect.ShieldPenalty)
		ev.Type = EventShieldAbsorbed
		res.Events = append(res.Events, ev)
		return
	}

	damage := e.Effect.Damage
	if e.Effect.Lethal {
		damage = p.Lives
	}
	ev.Type = EventHit
	res.Events = append(res.Events, ev)
	if p.loseLives(damage) {
		res.Events = append(res.Events, Event{Type: EventEliminated, Player: p.ID})
	}
}

func (s *Session) allEliminated() bool {
	for _, p := range s.players {
		if !p.Eliminated {
			return false
		}
	}
	return true
}

func (s *Session) finish(res *Result) {
	s.state = StateGameOver
	s.final = s.Scores()
	res.State = s.state
	res.Final = copyScores(s.final)
	res.Events = append(res.Events, Event{Type: EventGameOver, Scores: copyScores(s.final)})
}

func (s *Session) escalate(res *Result) {
	var esc Escalation
	switch s.cfg.Mode {
	case ModeNinja:
		if s.played < s.stageAt {
			return
		}
		for s.stageAt <= s.played {
			s.stageAt += s.cfg.StageCheck
		}
		esc = s.difficulty.Escalate(s.played, 0)
	case ModeDodge:
		total := 0
		for _, p := range s.players {
			total += p.Score
		}
		esc = s.difficulty.Escalate(s.played, total)
	}

	if !esc.Changed {
		return
	}
	res.Events = append(res.Events, Event{Type: EventStageUp, Stage: s.difficulty.Stage()})
	s.spawnAt = s.played + s.difficulty.Params().SpawnInterval

	if esc.Bonus <= 0 {
		return
	}
	for i := 0; i < esc.Steps; i++ {
		p := s.randomActive()
		if p == nil {
			break
		}
		p.addScore(esc.Bonus)
		res.Events = append(res.Events, Event{Type: EventBonus, Player: p.ID})
	}
}

func (s *Session) randomActive() *Player {
	var active []*Player
	for _, p := range s.players {
		if !p.Eliminated {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return active[s.rng.Intn(len(active))]
}

func (s *Session) spawn(res *Result) {
	if s.played < s.spawnAt {
		return
	}
	params := s.difficulty.Params()
	s.spawnAt += params.SpawnInterval
	if s.spawnAt <= s.played {
		s.spawnAt = s.played + params.SpawnInterval
	}

	e, ok := s.spawner.Spawn(params)
	if !ok {
		return
	}
	s.entities = append(s.entities, e)
	res.Events = append(res.Events, Event{Type: EventSpawned, Entity: e.ID, Asset: e.Asset})
}

// clearTail drops references past n so removed entities can be collected.
func clearTail(entities []*Entity, n int) {
	for i := n; i < len(entities); i++ {
		entities[i] = nil
	}
}

func copyScores(scores map[int]int) map[int]int {
	if scores == nil {
		return nil
	}
	out := make(map[int]int, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	return out
}

package arcade

import "time"

// Params are the difficulty values the spawner and session use right now.
type Params struct {
	SpawnInterval time.Duration `json:"spawn_interval"`
	MinSpeed      float64       `json:"min_speed"`
	MaxSpeed      float64       `json:"max_speed"`
	HazardChance  float64       `json:"hazard_chance"`
}

// Stage is one step of a time-driven difficulty curve.
type Stage struct {
	Duration      time.Duration `toml:"duration" json:"duration" validate:"gt=0"`
	SpawnInterval time.Duration `toml:"spawn_interval" json:"spawn_interval" validate:"gt=0"`
	MinSpeed      float64       `toml:"min_speed" json:"min_speed"`
	MaxSpeed      float64       `toml:"max_speed" json:"max_speed" validate:"gtefield=MinSpeed"`
	HazardChance  float64       `toml:"hazard_chance" json:"hazard_chance" validate:"min=0,max=1"`
}

func (s Stage) params() Params {
	return Params{
		SpawnInterval: s.SpawnInterval,
		MinSpeed:      s.MinSpeed,
		MaxSpeed:      s.MaxSpeed,
		HazardChance:  s.HazardChance,
	}
}

// Escalation reports what a call to Escalate changed.
type Escalation struct {
	// Changed is set when the parameters moved to a harder level.
	Changed bool
	// Steps is the number of levels applied.
	Steps int
	// Bonus points per step, each step to its own random active player.
	Bonus int
}

// Difficulty escalates spawn rate and speeds over a session. Implementations
// are monotone: they never return easier parameters than before.
type Difficulty interface {
	Params() Params
	Stage() int
	Escalate(played time.Duration, totalScore int) Escalation
}

// StagedDifficulty walks an ordered list of stages by active play time.
// The last stage never ends.
type StagedDifficulty struct {
	stages []Stage
	index  int
}

// NewStagedDifficulty creates a staged curve. stages must not be empty.
func NewStagedDifficulty(stages []Stage) *StagedDifficulty {
	return &StagedDifficulty{stages: append([]Stage(nil), stages...)}
}

func (d *StagedDifficulty) Params() Params {
	return d.stages[d.index].params()
}

func (d *StagedDifficulty) Stage() int {
	return d.index
}

// Escalate advances while the whole elapsed seconds reach the cumulative
// duration of the stages up to the current one.
func (d *StagedDifficulty) Escalate(played time.Duration, _ int) Escalation {
	elapsed := played.Truncate(time.Second)
	var esc Escalation
	for d.index < len(d.stages)-1 && elapsed >= d.cumulative(d.index) {
		d.index++
		esc.Changed = true
	}
	return esc
}

func (d *StagedDifficulty) cumulative(upTo int) time.Duration {
	var total time.Duration
	for i := 0; i <= upTo; i++ {
		total += d.stages[i].Duration
	}
	return total
}

// EscalationConfig tunes ScoreDifficulty.
type EscalationConfig struct {
	Start         Params        `toml:"start" json:"start"`
	Every         int           `toml:"every" json:"every" validate:"gt=0"`
	IntervalStep  time.Duration `toml:"interval_step" json:"interval_step" validate:"min=0"`
	IntervalFloor time.Duration `toml:"interval_floor" json:"interval_floor" validate:"gt=0"`
	MinSpeedStep  float64       `toml:"min_speed_step" json:"min_speed_step" validate:"min=0"`
	MinSpeedCap   float64       `toml:"min_speed_cap" json:"min_speed_cap"`
	MaxSpeedStep  float64       `toml:"max_speed_step" json:"max_speed_step" validate:"min=0"`
	MaxSpeedCap   float64       `toml:"max_speed_cap" json:"max_speed_cap"`
	Bonus         int           `toml:"bonus" json:"bonus" validate:"min=0"`
}

// ScoreDifficulty hardens the game each time the combined score crosses a
// new multiple of Every, until the spawn interval reaches its floor.
type ScoreDifficulty struct {
	cfg    EscalationConfig
	params Params
	level  int
}

// NewScoreDifficulty creates a score-driven curve starting at cfg.Start.
func NewScoreDifficulty(cfg EscalationConfig) *ScoreDifficulty {
	return &ScoreDifficulty{cfg: cfg, params: cfg.Start}
}

func (d *ScoreDifficulty) Params() Params {
	return d.params
}

func (d *ScoreDifficulty) Stage() int {
	return d.level
}

// Escalate applies one step per newly crossed multiple. Each applied step
// carries its own bonus.
func (d *ScoreDifficulty) Escalate(_ time.Duration, totalScore int) Escalation {
	var esc Escalation
	target := totalScore / d.cfg.Every
	for d.level < target {
		d.level++
		if d.params.SpawnInterval <= d.cfg.IntervalFloor {
			continue
		}
		d.params.SpawnInterval -= d.cfg.IntervalStep
		if d.params.SpawnInterval < d.cfg.IntervalFloor {
			d.params.SpawnInterval = d.cfg.IntervalFloor
		}
		d.params.MinSpeed = min(d.params.MinSpeed+d.cfg.MinSpeedStep, d.cfg.MinSpeedCap)
		d.params.MaxSpeed = min(d.params.MaxSpeed+d.cfg.MaxSpeedStep, d.cfg.MaxSpeedCap)
		esc.Changed = true
		esc.Steps++
		esc.Bonus = d.cfg.Bonus
	}
	return esc
}

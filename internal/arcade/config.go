package arcade

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is returned when a session cannot be built from a Config.
var ErrInvalidConfig = errors.New("invalid arcade config")

// Mode selects the rule set of a session.
type Mode string

const (
	// ModeNinja slices launched fruit with fingertip cursors.
	ModeNinja Mode = "ninja"
	// ModeDodge steers avatars with the nose and dodges falling hazards.
	ModeDodge Mode = "dodge"
)

// Board is the playfield size in board units.
type Board struct {
	Width  float64 `toml:"width" json:"width" validate:"gt=0"`
	Height float64 `toml:"height" json:"height" validate:"gt=0"`
}

// PlayerConfig tunes the avatars of body-driven games.
type PlayerConfig struct {
	Size           float64       `toml:"size" json:"size" validate:"min=0"`
	Margin         float64       `toml:"margin" json:"margin" validate:"min=0"`
	JumpHeight     float64       `toml:"jump_height" json:"jump_height" validate:"min=0"`
	JumpSpeed      float64       `toml:"jump_speed" json:"jump_speed" validate:"min=0"`
	ShieldDuration time.Duration `toml:"shield_duration" json:"shield_duration" validate:"min=0"`
	MouthThreshold float64       `toml:"mouth_threshold" json:"mouth_threshold" validate:"min=0"`
}

// Config fully describes one arcade game.
type Config struct {
	Mode  Mode  `toml:"mode" json:"mode" validate:"oneof=ninja dodge"`
	Board Board `toml:"board" json:"board"`
	Lives int   `toml:"lives" json:"lives" validate:"gt=0"`
	// MinHands is the number of hands a ninja session needs to run.
	// Zero never pauses.
	MinHands    int `toml:"min_hands" json:"min_hands" validate:"min=0,max=2"`
	MaxCursors  int `toml:"max_cursors" json:"max_cursors" validate:"min=1,max=2"`
	TrailLength int `toml:"trail_length" json:"trail_length" validate:"min=0"`
	MaxPlayers  int `toml:"max_players" json:"max_players" validate:"min=1,max=2"`

	Player PlayerConfig `toml:"player" json:"player"`
	Spawn  SpawnConfig  `toml:"spawn" json:"spawn"`

	// Stages drive ninja difficulty by play time.
	Stages []Stage `toml:"stages" json:"stages,omitempty" validate:"omitempty,dive"`
	// StageCheck is how often staged difficulty is checked.
	StageCheck time.Duration `toml:"stage_check" json:"stage_check" validate:"min=0"`
	// Escalation drives dodge difficulty by score.
	Escalation *EscalationConfig `toml:"escalation" json:"escalation,omitempty"`
}

var validate = validator.New()

// Validate checks field ranges and the mode specific sections.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.Mode {
	case ModeNinja:
		if len(c.Stages) == 0 {
			return fmt.Errorf("%w: ninja needs at least one stage", ErrInvalidConfig)
		}
		if c.StageCheck <= 0 {
			return fmt.Errorf("%w: ninja needs a stage check cadence", ErrInvalidConfig)
		}
	case ModeDodge:
		if c.Player.Size <= 0 {
			return fmt.Errorf("%w: dodge needs a player size", ErrInvalidConfig)
		}
		if c.Escalation == nil {
			return fmt.Errorf("%w: dodge needs an escalation section", ErrInvalidConfig)
		}
		if c.Escalation.Start.SpawnInterval <= 0 {
			return fmt.Errorf("%w: dodge needs a start spawn interval", ErrInvalidConfig)
		}
	}
	return nil
}

// NinjaConfig returns the default fruit slicing game.
func NinjaConfig() Config {
	return Config{
		Mode:        ModeNinja,
		Board:       Board{Width: 800, Height: 600},
		Lives:       3,
		MinHands:    0,
		MaxCursors:  2,
		TrailLength: 15,
		MaxPlayers:  1,
		Spawn: SpawnConfig{
			Origin: OriginBottom,
			XMin:   100,
			XMax:   700,
			Hazards: Category{
				Specs:   []EntitySpec{{Asset: "bomb", Weight: 1}},
				MinSize: 80,
				MaxSize: 80,
				Drift:   1.5,
				Gravity: 0.15,
				Effect:  Effect{Lethal: true},
			},
			Collectibles: Category{
				Specs: []EntitySpec{
					{Asset: "apple", Weight: 1},
					{Asset: "banana", Weight: 1},
					{Asset: "uva", Weight: 1},
					{Asset: "melancia", Weight: 1},
				},
				MinSize: 80,
				MaxSize: 80,
				Drift:   1.5,
				Gravity: 0.15,
				Effect:  Effect{Score: 1, MissLives: 1},
			},
		},
		Stages: []Stage{
			{Duration: 15 * time.Second, SpawnInterval: 1200 * time.Millisecond, MinSpeed: -11, MaxSpeed: -8, HazardChance: 0.10},
			{Duration: 15 * time.Second, SpawnInterval: 900 * time.Millisecond, MinSpeed: -13, MaxSpeed: -10, HazardChance: 0.15},
			{Duration: 30 * time.Second, SpawnInterval: 700 * time.Millisecond, MinSpeed: -15, MaxSpeed: -12, HazardChance: 0.20},
			{Duration: 40 * time.Second, SpawnInterval: 500 * time.Millisecond, MinSpeed: -17, MaxSpeed: -14, HazardChance: 0.25},
			{Duration: 999 * time.Second, SpawnInterval: 400 * time.Millisecond, MinSpeed: -19, MaxSpeed: -16, HazardChance: 0.30},
		},
		StageCheck: time.Second,
	}
}

// DodgeConfig returns the default face dodging game.
func DodgeConfig() Config {
	return Config{
		Mode:       ModeDodge,
		Board:      Board{Width: 1400, Height: 900},
		Lives:      3,
		MaxCursors: 1,
		MaxPlayers: 2,
		Player: PlayerConfig{
			Size:           120,
			Margin:         20,
			JumpHeight:     80,
			JumpSpeed:      8,
			ShieldDuration: 1500 * time.Millisecond,
			MouthThreshold: 0.04,
		},
		Spawn: SpawnConfig{
			Origin: OriginTop,
			Hazards: Category{
				Specs: []EntitySpec{
					{Asset: "rock", Weight: 10},
					{Asset: "meteor", Weight: 8},
					{Asset: "pedra", Weight: 7},
					{Asset: "pedra2", Weight: 7},
					{Asset: "pedra3", Weight: 6},
					{Asset: "pedra4", Weight: 6},
					{Asset: "alien", Weight: 3},
					{Asset: "sofa", Weight: 1},
					{Asset: "bota", Weight: 1},
				},
				MinSize: 80,
				MaxSize: 120,
				Effect:  Effect{Damage: 1, ShieldPenalty: 5},
			},
			Collectibles: Category{
				Specs:          []EntitySpec{{Asset: "astronauta", Weight: 5}},
				MinSize:        80,
				MaxSize:        120,
				SpeedOffsetMin: 1,
				SpeedOffsetMax: 2,
				Effect:         Effect{Score: 10},
			},
		},
		Escalation: &EscalationConfig{
			Start: Params{
				SpawnInterval: 800 * time.Millisecond,
				MinSpeed:      5,
				MaxSpeed:      10,
				HazardChance:  0.8,
			},
			Every:         40,
			IntervalStep:  50 * time.Millisecond,
			IntervalFloor: 200 * time.Millisecond,
			MinSpeedStep:  1,
			MinSpeedCap:   15,
			MaxSpeedStep:  2,
			MaxSpeedCap:   25,
			Bonus:         1,
		},
	}
}

// ConfigFor returns the default config of a mode.
func ConfigFor(mode Mode) (Config, error) {
	switch mode {
	case ModeNinja:
		return NinjaConfig(), nil
	case ModeDodge:
		return DodgeConfig(), nil
	}
	return Config{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, mode)
}

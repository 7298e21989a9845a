package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/robertgvds/vision-games/internal/arcade"
	"github.com/robertgvds/vision-games/internal/rps"
)

// Tuning holds the game settings that a TOML file may override.
type Tuning struct {
	Ninja arcade.Config `toml:"ninja"`
	Dodge arcade.Config `toml:"dodge"`
	RPS   rps.Config    `toml:"rps"`
}

// DefaultTuning returns the compiled-in game settings.
func DefaultTuning() *Tuning {
	return &Tuning{
		Ninja: arcade.NinjaConfig(),
		Dodge: arcade.DodgeConfig(),
		RPS:   rps.DefaultConfig(),
	}
}

// LoadTuning decodes path over the defaults. An empty path returns the
// defaults. Unknown keys are rejected so typos do not pass silently.
func LoadTuning(path string) (*Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}

	md, err := toml.DecodeFile(path, t)
	if err != nil {
		return nil, fmt.Errorf("decode tuning %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("tuning %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	// The section name decides the mode.
	t.Ninja.Mode = arcade.ModeNinja
	t.Dodge.Mode = arcade.ModeDodge

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

// Validate checks every game section.
func (t *Tuning) Validate() error {
	if err := t.Ninja.Validate(); err != nil {
		return fmt.Errorf("ninja: %w", err)
	}
	if err := t.Dodge.Validate(); err != nil {
		return fmt.Errorf("dodge: %w", err)
	}
	if err := t.RPS.Validate(); err != nil {
		return fmt.Errorf("rps: %w", err)
	}
	return nil
}

// Arcade returns the settings of an arcade mode.
func (t *Tuning) Arcade(mode arcade.Mode) (arcade.Config, error) {
	switch mode {
	case arcade.ModeNinja:
		return t.Ninja, nil
	case arcade.ModeDodge:
		return t.Dodge, nil
	}
	return arcade.Config{}, fmt.Errorf("%w: unknown mode %q", arcade.ErrInvalidConfig, mode)
}

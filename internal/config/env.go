// Package config loads process settings from the environment and game
// tuning from an optional TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// Env is the process configuration read from VISION_GAMES_* variables.
type Env struct {
	HTTPAddr string `env:"VISION_GAMES_HTTP_ADDR" envDefault:"127.0.0.1:8765" validate:"required"`
	// DataDir holds the database. Empty means ~/.vision-games.
	DataDir string `env:"VISION_GAMES_DATA_DIR"`
	// StaticDir serves a web client when set.
	StaticDir string `env:"VISION_GAMES_STATIC_DIR"`

	CameraID     int  `env:"VISION_GAMES_CAMERA" envDefault:"0" validate:"min=0"`
	CameraWidth  int  `env:"VISION_GAMES_CAMERA_WIDTH" envDefault:"640" validate:"gt=0"`
	CameraHeight int  `env:"VISION_GAMES_CAMERA_HEIGHT" envDefault:"480" validate:"gt=0"`
	CameraFPS    int  `env:"VISION_GAMES_CAMERA_FPS" envDefault:"30" validate:"gt=0"`
	Mirror       bool `env:"VISION_GAMES_MIRROR" envDefault:"true"`

	// MediaPipeScript overrides the landmark service lookup.
	MediaPipeScript string `env:"VISION_GAMES_MEDIAPIPE_SCRIPT"`

	LogLevel string `env:"VISION_GAMES_LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn warning error fatal panic"`
	LogDir   string `env:"VISION_GAMES_LOG_DIR"`

	// PluginDir holds game over plugins. Empty means DataDir/plugins.
	PluginDir     string        `env:"VISION_GAMES_PLUGIN_DIR"`
	PluginTimeout time.Duration `env:"VISION_GAMES_PLUGIN_TIMEOUT" envDefault:"5s" validate:"gt=0"`

	// TuningFile is an optional TOML file overriding game tuning.
	TuningFile string `env:"VISION_GAMES_TUNING"`

	// Game starts immediately without waiting for the tray or API.
	Game    string `env:"VISION_GAMES_GAME" validate:"omitempty,oneof=ninja dodge rps"`
	Players int    `env:"VISION_GAMES_PLAYERS" envDefault:"1" validate:"min=1,max=2"`
	NoTray  bool   `env:"VISION_GAMES_NO_TRAY"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadDotEnv loads the given files (default .env) into the environment.
// Missing files are ignored and variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the dotenv files and then the environment.
func Load(dotenv ...string) (*Env, error) {
	if err := LoadDotEnv(dotenv...); err != nil {
		return nil, err
	}

	var cfg Env
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate env: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".vision-games")
	}
	if cfg.PluginDir == "" {
		cfg.PluginDir = filepath.Join(cfg.DataDir, "plugins")
	}
	return &cfg, nil
}

// DatabasePath is the sqlite file inside DataDir.
func (e *Env) DatabasePath() string {
	return filepath.Join(e.DataDir, "vision-games.db")
}

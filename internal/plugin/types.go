// Package plugin runs external executables when a game finishes.
package plugin

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/robertgvds/vision-games/internal/app"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EventGameOver is the only event plugins receive today.
const EventGameOver = "game_over"

// Manifest describes a plugin's metadata and the games it listens to.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Executable  string `json:"executable"`
	// Games limits the plugin to these games. Empty means every game.
	Games []string `json:"games,omitempty"`
}

// Wants reports whether the plugin listens to game.
func (m *Manifest) Wants(game string) bool {
	if len(m.Games) == 0 {
		return true
	}
	for _, g := range m.Games {
		if g == game {
			return true
		}
	}
	return false
}

// Request is written to the plugin's stdin.
type Request struct {
	Event   string      `json:"event"`
	Outcome app.Outcome `json:"outcome"`
}

// Response is read from the plugin's stdout.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Package detector turns camera frames into hand and face landmarks.
package detector

import (
	"errors"
	"time"

	"gocv.io/x/gocv"

	"github.com/robertgvds/vision-games/internal/landmark"
)

// ErrServiceNotFound is returned when the landmark service script is missing.
var ErrServiceNotFound = errors.New("mediapipe_service.py not found")

// Detector defines the interface for landmark detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the tracked landmarks.
	// A frame without subjects yields an empty, non-nil sample.
	Detect(frame *gocv.Mat) (*landmark.Sample, error)

	// Close releases any resources held by the detector.
	Close() error
}

// ModeSwitcher is implemented by detectors that run more than one model.
type ModeSwitcher interface {
	SetMode(mode Mode) error
}

// Mode selects which landmark model runs.
type Mode string

const (
	// ModeHands tracks up to MaxHands hands.
	ModeHands Mode = "hands"
	// ModeFaces tracks up to MaxFaces face meshes.
	ModeFaces Mode = "faces"
)

// Config holds configuration options for landmark detection.
type Config struct {
	Mode Mode

	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MaxFaces is the maximum number of faces to detect (default: 2).
	MaxFaces int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// IdleTimeout stops the service after this long without a frame.
	IdleTimeout time.Duration

	// ScriptPath overrides the service script lookup.
	ScriptPath string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Mode:            ModeHands,
		MaxHands:        2,
		MaxFaces:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		IdleTimeout:     30 * time.Second,
	}
}

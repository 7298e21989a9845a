package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/robertgvds/vision-games/internal/detector"
	"github.com/robertgvds/vision-games/internal/landmark"
)

// Source pairs a camera with a landmark detector and yields one frame and
// its landmarks per poll.
type Source struct {
	camera   Camera
	detector detector.Detector
	mu       sync.Mutex
}

// NewSource creates a landmark source. The camera is opened lazily.
func NewSource(camera Camera, det detector.Detector) *Source {
	return &Source{camera: camera, detector: det}
}

// SetMode switches the detector model when it supports more than one.
func (s *Source) SetMode(mode detector.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sw, ok := s.detector.(detector.ModeSwitcher)
	if !ok {
		return nil
	}
	if err := sw.SetMode(mode); err != nil {
		return fmt.Errorf("set detector mode %s: %w", mode, err)
	}
	return nil
}

// Poll reads one frame and runs detection on it. The caller owns the
// returned Mat. Any error means the tick has no sample.
func (s *Source) Poll() (*gocv.Mat, *landmark.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.camera.IsOpen() {
		if err := s.camera.Open(); err != nil {
			return nil, nil, fmt.Errorf("open camera: %w", err)
		}
	}

	frame, err := s.camera.ReadFrame()
	if err != nil {
		return nil, nil, fmt.Errorf("read frame: %w", err)
	}

	sample, err := s.detector.Detect(frame)
	if err != nil {
		frame.Close()
		return nil, nil, fmt.Errorf("detect: %w", err)
	}

	return frame, sample, nil
}

// Close releases the camera and the detector.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	camErr := s.camera.Close()
	detErr := s.detector.Close()
	if camErr != nil {
		return camErr
	}
	return detErr
}

// Package landmark defines the hand and face landmark types produced by the
// tracking model and consumed by the games.
package landmark

import (
	"math"
	"sort"
	"time"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Face mesh indices used by the games.
const (
	NoseTip  = 1
	UpperLip = 13
	LowerLip = 14

	// MinFacePoints is the smallest mesh that carries every index above.
	MinFacePoints = LowerLip + 1
)

// Point3D represents a 3D point in space with x, y, z coordinates.
// X and Y are normalized to [0,1] with the origin at the top-left of the frame.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// FaceLandmarks represents one face mesh detected by MediaPipe.
type FaceLandmarks struct {
	Points []Point3D `json:"points"`
	Score  float64   `json:"score"`
}

// Valid reports whether the mesh carries the indices the games read.
func (f *FaceLandmarks) Valid() bool {
	return f != nil && len(f.Points) >= MinFacePoints
}

// Nose returns the nose tip landmark.
func (f *FaceLandmarks) Nose() Point3D {
	return f.Points[NoseTip]
}

// MouthOpening returns the 3D distance between the inner upper and lower lip.
func (f *FaceLandmarks) MouthOpening() float64 {
	return Distance3D(f.Points[UpperLip], f.Points[LowerLip])
}

// Sample is the tracking output for a single frame.
type Sample struct {
	Hands      []HandLandmarks `json:"hands"`
	Faces      []FaceLandmarks `json:"faces"`
	CapturedAt time.Time       `json:"captured_at"`
}

// HandsLeftToRight returns the hands ordered by index fingertip x.
func (s *Sample) HandsLeftToRight() []HandLandmarks {
	if s == nil || len(s.Hands) == 0 {
		return nil
	}
	hands := make([]HandLandmarks, len(s.Hands))
	copy(hands, s.Hands)
	sort.SliceStable(hands, func(i, j int) bool {
		return hands[i].Points[IndexTip].X < hands[j].Points[IndexTip].X
	})
	return hands
}

// FacesLeftToRight returns the valid faces ordered by nose tip x.
func (s *Sample) FacesLeftToRight() []FaceLandmarks {
	if s == nil {
		return nil
	}
	var faces []FaceLandmarks
	for i := range s.Faces {
		if s.Faces[i].Valid() {
			faces = append(faces, s.Faces[i])
		}
	}
	sort.SliceStable(faces, func(i, j int) bool {
		return faces[i].Nose().X < faces[j].Nose().X
	})
	return faces
}

// Distance3D calculates the Euclidean distance between two 3D points.
func Distance3D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

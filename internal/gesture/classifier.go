// Package gesture classifies hand landmarks into the symbolic gestures the
// games react to.
package gesture

import (
	"strings"

	"github.com/robertgvds/vision-games/internal/landmark"
)

// Gesture is a discrete symbolic hand pose.
type Gesture uint8

const (
	// None means no hand, or a pose that maps to no symbol.
	None Gesture = iota
	Rock
	Paper
	Scissors
	ThumbsUp
)

// ThumbSpread is the thumb tip to index tip distance above which a closed
// hand reads as a thumbs up instead of a fist.
const ThumbSpread = 0.1

var fingerTips = [4]int{
	landmark.IndexTip,
	landmark.MiddleTip,
	landmark.RingTip,
	landmark.PinkyTip,
}

var names = map[Gesture]string{
	None:     "none",
	Rock:     "rock",
	Paper:    "paper",
	Scissors: "scissors",
	ThumbsUp: "thumbs_up",
}

// String returns the lowercase name of the gesture.
func (g Gesture) String() string {
	if name, ok := names[g]; ok {
		return name
	}
	return names[None]
}

// MarshalText implements encoding.TextMarshaler.
func (g Gesture) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// IsMove reports whether the gesture is a rock-paper-scissors move.
func (g Gesture) IsMove() bool {
	return g == Rock || g == Paper || g == Scissors
}

// Parse returns the gesture with the given name, or None.
func Parse(name string) Gesture {
	name = strings.ToLower(strings.TrimSpace(name))
	for g, n := range names {
		if n == name {
			return g
		}
	}
	return None
}

// Moves lists the playable gestures in a fixed order.
func Moves() []Gesture {
	return []Gesture{Rock, Paper, Scissors}
}

// Classify maps one hand to a gesture.
//
// A finger counts as extended when its tip is strictly above (smaller y)
// its PIP joint. With no finger extended the thumb decides between Rock and
// ThumbsUp; index plus middle is Scissors; four fingers is Paper. Every
// other combination is None.
func Classify(hand *landmark.HandLandmarks) Gesture {
	if hand == nil {
		return None
	}

	var extended [4]bool
	total := 0
	for i, tip := range fingerTips {
		if hand.Points[tip].Y < hand.Points[tip-2].Y {
			extended[i] = true
			total++
		}
	}

	switch {
	case total == 0:
		spread := landmark.Distance3D(hand.Points[landmark.ThumbTip], hand.Points[landmark.IndexTip])
		if spread > ThumbSpread {
			return ThumbsUp
		}
		return Rock
	case total == 2 && extended[0] && extended[1]:
		return Scissors
	case total >= 4:
		return Paper
	}

	return None
}

// ClassifyFirst classifies the first hand of a sample, or returns None.
func ClassifyFirst(sample *landmark.Sample) Gesture {
	if sample == nil || len(sample.Hands) == 0 {
		return None
	}
	return Classify(&sample.Hands[0])
}

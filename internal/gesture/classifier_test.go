package gesture

import (
	"testing"

	"github.com/robertgvds/vision-games/internal/landmark"
)

func TestClassify_Fixtures(t *testing.T) {
	tests := []struct {
		name string
		hand landmark.HandLandmarks
		want Gesture
	}{
		{"open palm is paper", landmark.OpenPalmLandmarks(), Paper},
		{"fist is rock", landmark.RockLandmarks(), Rock},
		{"thumbs up", landmark.ThumbsUpLandmarks(), ThumbsUp},
		{"index and middle is scissors", landmark.ScissorsLandmarks(), Scissors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := tt.hand
			if got := Classify(&hand); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify_NilHand(t *testing.T) {
	if got := Classify(nil); got != None {
		t.Errorf("Classify(nil) = %v, want none", got)
	}
	if got := ClassifyFirst(nil); got != None {
		t.Errorf("ClassifyFirst(nil) = %v, want none", got)
	}
	if got := ClassifyFirst(&landmark.Sample{}); got != None {
		t.Errorf("ClassifyFirst(empty) = %v, want none", got)
	}
}

func TestClassify_FingerCombinations(t *testing.T) {
	tips := []int{landmark.IndexTip, landmark.MiddleTip, landmark.RingTip, landmark.PinkyTip}

	// Every subset of the four fingers
	for mask := 0; mask < 16; mask++ {
		var extended []int
		for i, tip := range tips {
			if mask&(1<<i) != 0 {
				extended = append(extended, tip)
			}
		}

		var want Gesture
		switch {
		case len(extended) == 0:
			want = Rock
		case len(extended) == 4:
			want = Paper
		case mask == 0b0011:
			want = Scissors
		default:
			want = None
		}

		hand := landmark.WithFingers(extended...)
		if got := Classify(&hand); got != want {
			t.Errorf("fingers %v: Classify() = %v, want %v", extended, got, want)
		}
	}
}

func TestClassify_ThumbThreshold(t *testing.T) {
	t.Run("within threshold is rock", func(t *testing.T) {
		hand := landmark.RockLandmarks()
		tip := hand.Points[landmark.IndexTip]
		hand.Points[landmark.ThumbTip] = landmark.Point3D{X: tip.X + ThumbSpread - 0.001, Y: tip.Y, Z: tip.Z}

		if got := Classify(&hand); got != Rock {
			t.Errorf("Classify() = %v, want rock", got)
		}
	})

	t.Run("just above threshold is thumbs up", func(t *testing.T) {
		hand := landmark.RockLandmarks()
		tip := hand.Points[landmark.IndexTip]
		hand.Points[landmark.ThumbTip] = landmark.Point3D{X: tip.X, Y: tip.Y, Z: tip.Z + ThumbSpread + 0.001}

		if got := Classify(&hand); got != ThumbsUp {
			t.Errorf("Classify() = %v, want thumbs up", got)
		}
	})

	t.Run("thumb ignored when fingers are extended", func(t *testing.T) {
		hand := landmark.OpenPalmLandmarks()
		hand.Points[landmark.ThumbTip] = hand.Points[landmark.IndexTip]

		if got := Classify(&hand); got != Paper {
			t.Errorf("Classify() = %v, want paper", got)
		}
	})
}

func TestClassify_StrictInequality(t *testing.T) {
	hand := landmark.OpenPalmLandmarks()
	// Tip level with its PIP joint does not count as extended
	hand.Points[landmark.PinkyTip].Y = hand.Points[landmark.PinkyPIP].Y

	if got := Classify(&hand); got != None {
		t.Errorf("Classify() with three fingers = %v, want none", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	hand := landmark.ScissorsLandmarks()
	first := Classify(&hand)
	for i := 0; i < 10; i++ {
		if got := Classify(&hand); got != first {
			t.Fatalf("iteration %d: Classify() = %v, want %v", i, got, first)
		}
	}
}

func TestGesture_StringAndParse(t *testing.T) {
	for _, g := range []Gesture{None, Rock, Paper, Scissors, ThumbsUp} {
		if got := Parse(g.String()); got != g {
			t.Errorf("Parse(%q) = %v, want %v", g.String(), got, g)
		}
	}

	if got := Parse("  PAPER "); got != Paper {
		t.Errorf("Parse is expected to ignore case and space, got %v", got)
	}
	if got := Parse("lizard"); got != None {
		t.Errorf("Parse(unknown) = %v, want none", got)
	}
	if got := Gesture(42).String(); got != "none" {
		t.Errorf("unknown gesture string = %q, want none", got)
	}
}

func TestGesture_IsMove(t *testing.T) {
	for _, g := range Moves() {
		if !g.IsMove() {
			t.Errorf("%v should be a move", g)
		}
	}
	if None.IsMove() || ThumbsUp.IsMove() {
		t.Error("none and thumbs up are not moves")
	}
}

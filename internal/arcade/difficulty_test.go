package arcade

import (
	"testing"
	"time"
)

func TestStagedDifficulty_Transitions(t *testing.T) {
	d := NewStagedDifficulty(NinjaConfig().Stages)

	tests := []struct {
		played  time.Duration
		want    int
		changed bool
	}{
		{0, 0, false},
		{14 * time.Second, 0, false},
		{14*time.Second + 999*time.Millisecond, 0, false},
		{15 * time.Second, 1, true},
		{29 * time.Second, 1, false},
		{30 * time.Second, 2, true},
		{60 * time.Second, 3, true},
		{100 * time.Second, 4, true},
		{5000 * time.Second, 4, false},
	}

	for _, tt := range tests {
		esc := d.Escalate(tt.played, 0)
		if d.Stage() != tt.want || esc.Changed != tt.changed {
			t.Errorf("Escalate(%v): stage = %d changed = %v, want %d %v",
				tt.played, d.Stage(), esc.Changed, tt.want, tt.changed)
		}
		if esc.Bonus != 0 {
			t.Errorf("Escalate(%v): staged difficulty should not award bonus", tt.played)
		}
	}

	if got := d.Params(); got.SpawnInterval != 400*time.Millisecond || got.HazardChance != 0.30 {
		t.Errorf("last stage params = %+v", got)
	}
}

func TestStagedDifficulty_SkipsStages(t *testing.T) {
	d := NewStagedDifficulty(NinjaConfig().Stages)

	d.Escalate(61*time.Second, 0)
	if d.Stage() != 3 {
		t.Errorf("Stage() = %d, want 3", d.Stage())
	}

	// Never goes back
	d.Escalate(0, 0)
	if d.Stage() != 3 {
		t.Errorf("Stage() after earlier time = %d, want 3", d.Stage())
	}
}

func TestScoreDifficulty_Escalation(t *testing.T) {
	d := NewScoreDifficulty(*DodgeConfig().Escalation)

	if esc := d.Escalate(0, 39); esc.Changed {
		t.Fatal("escalated below the first multiple")
	}

	esc := d.Escalate(0, 40)
	if !esc.Changed || esc.Steps != 1 || esc.Bonus != 1 {
		t.Fatalf("Escalate(40) = %+v", esc)
	}
	p := d.Params()
	if p.SpawnInterval != 750*time.Millisecond || p.MinSpeed != 6 || p.MaxSpeed != 12 {
		t.Errorf("params = %+v", p)
	}

	// Crossing two multiples at once applies two steps
	esc = d.Escalate(0, 125)
	if esc.Steps != 2 || esc.Bonus != 1 || d.Stage() != 3 {
		t.Errorf("Escalate(125) = %+v stage %d", esc, d.Stage())
	}
	if got := d.Params().SpawnInterval; got != 650*time.Millisecond {
		t.Errorf("interval = %v, want 650ms", got)
	}
}

func TestScoreDifficulty_FloorAndCaps(t *testing.T) {
	d := NewScoreDifficulty(*DodgeConfig().Escalation)

	steps := 0
	for score := 0; score <= 4000; score += 40 {
		esc := d.Escalate(0, score)
		steps += esc.Steps
	}

	p := d.Params()
	if p.SpawnInterval != 200*time.Millisecond {
		t.Errorf("interval = %v, want floor 200ms", p.SpawnInterval)
	}
	if p.MinSpeed != 15 || p.MaxSpeed != 25 {
		t.Errorf("speeds = %v..%v, want capped 15..25", p.MinSpeed, p.MaxSpeed)
	}
	// 800ms down to 200ms in 50ms steps
	if steps != 12 {
		t.Errorf("applied %d steps, want 12", steps)
	}
}

func TestDifficulty_Monotone(t *testing.T) {
	curves := map[string]Difficulty{
		"staged": NewStagedDifficulty(NinjaConfig().Stages),
		"score":  NewScoreDifficulty(*DodgeConfig().Escalation),
	}

	for name, d := range curves {
		t.Run(name, func(t *testing.T) {
			prev := d.Params()
			prevStage := d.Stage()
			for i := 0; i < 500; i++ {
				// Scores may drop through shield penalties
				score := (i * 7) % 300
				d.Escalate(time.Duration(i)*time.Second, score)

				p := d.Params()
				if d.Stage() < prevStage {
					t.Fatalf("step %d: stage went from %d to %d", i, prevStage, d.Stage())
				}
				if p.SpawnInterval > prev.SpawnInterval {
					t.Fatalf("step %d: interval grew from %v to %v", i, prev.SpawnInterval, p.SpawnInterval)
				}
				if abs(p.MaxSpeed) < abs(prev.MaxSpeed) {
					t.Fatalf("step %d: speed dropped from %v to %v", i, prev.MaxSpeed, p.MaxSpeed)
				}
				prev, prevStage = p, d.Stage()
			}
		})
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

package arcade

import "time"

// State is the lifecycle state of a session.
type State uint8

const (
	StateIdle State = iota
	StateRunning
	// StatePaused means fewer subjects are tracked than the game needs.
	StatePaused
	// StateGameOver is terminal.
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	}
	return "idle"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// EventType names something that happened during a tick.
type EventType string

const (
	EventStarted        EventType = "started"
	EventNeedSubjects   EventType = "need_subjects"
	EventResumed        EventType = "resumed"
	EventSpawned        EventType = "spawned"
	EventMissed         EventType = "missed"
	EventHit            EventType = "hit"
	EventShieldAbsorbed EventType = "shield_absorbed"
	EventCollected      EventType = "collected"
	EventEliminated     EventType = "eliminated"
	EventShieldRaised   EventType = "shield_raised"
	EventStageUp        EventType = "stage_up"
	EventBonus          EventType = "bonus"
	EventGameOver       EventType = "game_over"
)

// Event is one outcome of a tick. Only the fields relevant to Type are set.
type Event struct {
	Type   EventType   `json:"type"`
	Player int         `json:"player,omitempty"`
	Entity uint64      `json:"entity,omitempty"`
	Asset  string      `json:"asset,omitempty"`
	Need   int         `json:"need,omitempty"`
	Stage  int         `json:"stage,omitempty"`
	Scores map[int]int `json:"scores,omitempty"`
}

// Result is returned by every tick.
type Result struct {
	State   State   `json:"state"`
	Skipped bool    `json:"skipped,omitempty"`
	Events  []Event `json:"events,omitempty"`
	// Final holds per-player scores on the tick the game ended, and on
	// every frozen tick after it.
	Final map[int]int `json:"final,omitempty"`
}

// Has reports whether the result carries an event of type t.
func (r Result) Has(t EventType) bool {
	for _, e := range r.Events {
		if e.Type == t {
			return true
		}
	}
	return false
}

// Snapshot is a copy of the renderable session state.
type Snapshot struct {
	Mode     Mode          `json:"mode"`
	State    State         `json:"state"`
	Board    Board         `json:"board"`
	Players  []Player      `json:"players"`
	Entities []Entity      `json:"entities"`
	Stage    int           `json:"stage"`
	Params   Params        `json:"params"`
	Need     int           `json:"need,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
	Played   time.Duration `json:"played"`
}

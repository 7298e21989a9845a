// Package rps runs rock-paper-scissors matches against the computer,
// driven by gestures read from hand landmarks.
package rps

import "github.com/robertgvds/vision-games/internal/gesture"

// Outcome is the result of one round from the player's side.
type Outcome uint8

const (
	OutcomeTie Outcome = iota
	OutcomePlayer
	OutcomeComputer
	// OutcomeInvalid means the captured pose was not a move.
	OutcomeInvalid
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlayer:
		return "player"
	case OutcomeComputer:
		return "computer"
	case OutcomeInvalid:
		return "invalid"
	}
	return "tie"
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// beats maps each move to the move it defeats.
var beats = map[gesture.Gesture]gesture.Gesture{
	gesture.Rock:     gesture.Scissors,
	gesture.Scissors: gesture.Paper,
	gesture.Paper:    gesture.Rock,
}

// Decide compares two moves. Any argument that is not a move makes the
// round invalid.
func Decide(player, computer gesture.Gesture) Outcome {
	if !player.IsMove() || !computer.IsMove() {
		return OutcomeInvalid
	}
	switch {
	case player == computer:
		return OutcomeTie
	case beats[player] == computer:
		return OutcomePlayer
	default:
		return OutcomeComputer
	}
}

// Winner names the side that took a match.
type Winner string

const (
	WinnerPlayer   Winner = "player"
	WinnerComputer Winner = "computer"
	WinnerTie      Winner = "tie"
)

// Round is one adjudicated or rejected capture.
type Round struct {
	Number   int             `json:"number"`
	Player   gesture.Gesture `json:"player"`
	Computer gesture.Gesture `json:"computer"`
	Outcome  Outcome         `json:"outcome"`
}

// MatchResult is reported once when a match ends.
type MatchResult struct {
	Winner        Winner `json:"winner"`
	PlayerScore   int    `json:"player_score"`
	ComputerScore int    `json:"computer_score"`
	Rounds        int    `json:"rounds"`
}

// Scores is the running tally of a match.
type Scores struct {
	Player   int `json:"player"`
	Computer int `json:"computer"`
	Rounds   int `json:"rounds"`
}

// Package main provides a game over plugin that shows a desktop
// notification with the final score. It uses AppleScript on macOS and
// notify-send elsewhere.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Event   string  `json:"event"`
	Outcome Outcome `json:"outcome"`
}

// Outcome is the finished game as sent by the executor.
type Outcome struct {
	Game      string         `json:"game"`
	Players   int            `json:"players"`
	Scores    map[string]int `json:"scores"`
	Winner    string         `json:"winner"`
	Best      int            `json:"best"`
	NewRecord bool           `json:"new_record"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}
	if req.Event != "game_over" {
		writeResponse(fmt.Errorf("unknown event: %s", req.Event))
		return
	}

	title, body := message(req.Outcome)
	writeResponse(notify(title, body))
}

// message builds the notification text for o.
func message(o Outcome) (title, body string) {
	switch o.Game {
	case "":
		title = "Game over"
	case "rps":
		title = "Rock Paper Scissors over"
	default:
		title = strings.ToUpper(o.Game[:1]) + o.Game[1:] + " over"
	}

	keys := make([]string, 0, len(o.Scores))
	for k := range o.Scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+2)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, o.Scores[k]))
	}
	if o.Winner != "" {
		parts = append(parts, "winner: "+o.Winner)
	}
	if o.NewRecord {
		parts = append(parts, "new record!")
	}
	return title, strings.Join(parts, ", ")
}

func notify(title, body string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "darwin" {
		script := fmt.Sprintf("display notification %q with title %q", body, title)
		cmd = exec.Command("osascript", "-e", script)
	} else {
		cmd = exec.Command("notify-send", title, body)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// writeResponse writes the result of the plugin run to stdout.
func writeResponse(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

package plugin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/robertgvds/vision-games/internal/app"
)

var (
	// ErrTimeout is returned when a plugin outlives the executor timeout.
	ErrTimeout = errors.New("plugin timed out")
	// ErrBadResponse is returned when stdout is not a Response.
	ErrBadResponse = errors.New("invalid plugin response")
	// ErrRefused is returned when a plugin answers success=false.
	ErrRefused = errors.New("plugin refused")
)

// Executor runs one plugin per call, bounded by a timeout.
type Executor struct {
	timeout time.Duration
}

// NewExecutor creates an Executor that kills plugins after timeout.
func NewExecutor(timeout time.Duration) *Executor {
	return &Executor{timeout: timeout}
}

// GameOver hands o to p. The plugin reads a Request on stdin, runs in its
// own directory with the game in its environment and must answer a
// Response on stdout.
func (e *Executor) GameOver(ctx context.Context, p *Plugin, o app.Outcome) error {
	input, err := json.Marshal(&Request{Event: EventGameOver, Outcome: o})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	resp, err := e.run(ctx, p, input, gameEnv(o))
	if err != nil {
		return err
	}
	if !resp.Success {
		if resp.Error == "" {
			return ErrRefused
		}
		return fmt.Errorf("%w: %s", ErrRefused, resp.Error)
	}
	return nil
}

func (e *Executor) run(ctx context.Context, p *Plugin, input []byte, env []string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.Executable)
	cmd.Dir = p.Path
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("run: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("run: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadResponse, strings.TrimSpace(stdout.String()))
	}
	return &resp, nil
}

func gameEnv(o app.Outcome) []string {
	return []string{
		"VISION_GAMES_EVENT=" + EventGameOver,
		"VISION_GAMES_GAME=" + string(o.Game),
		"VISION_GAMES_SESSION=" + o.SessionID,
	}
}

// Package tray provides a system tray menu for starting the vision games.
package tray

import (
	"context"
	"fmt"
	"sync"

	"github.com/getlantern/systray"
	"github.com/sirupsen/logrus"

	"github.com/robertgvds/vision-games/internal/app"
	"github.com/robertgvds/vision-games/internal/logging"
)

// Games is the part of the app the tray drives.
type Games interface {
	StartGame(game app.Game, players int) (app.Status, error)
	Restart() (app.Status, error)
	StopGame()
}

// choice is one entry of the game menu.
type choice struct {
	title   string
	game    app.Game
	players int
}

var choices = []choice{
	{"Ninja", app.GameNinja, 1},
	{"Dodge", app.GameDodge, 1},
	{"Dodge (2 players)", app.GameDodge, 2},
	{"Rock Paper Scissors", app.GameRPS, 1},
}

// Tray represents the system tray application.
type Tray struct {
	games    Games
	log      logrus.FieldLogger
	onOpen   func()
	onQuit   func()
	lastText string
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuLast *systray.MenuItem
}

// New creates a new Tray driving games.
func New(games Games, log logrus.FieldLogger) *Tray {
	if log == nil {
		log = logging.Discard()
	}
	return &Tray{
		games:    games,
		log:      log.WithField("component", "tray"),
		lastText: "Last: none",
	}
}

// OnOpen sets the callback function to be called when the open menu item is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit stops a running tray.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Vision Games")
	systray.SetTooltip("Hand and face controlled minigames")

	menuPlay := systray.AddMenuItem("Play", "Start a game")
	items := make([]*systray.MenuItem, len(choices))
	for i, c := range choices {
		items[i] = menuPlay.AddSubMenuItem(c.title, "Start "+c.title)
	}
	menuRestart := systray.AddMenuItem("Restart", "Play the last game again")
	menuStop := systray.AddMenuItem("Stop", "Stop the running game")
	systray.AddSeparator()

	t.mu.Lock()
	t.menuLast = systray.AddMenuItem(t.lastText, "Last finished game")
	t.menuLast.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Game...", "Open the game in the browser")
	menuQuit := systray.AddMenuItem("Quit", "Quit Vision Games")

	for i := range items {
		go func(item *systray.MenuItem, c choice) {
			for range item.ClickedCh {
				t.start(c)
			}
		}(items[i], choices[i])
	}

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-menuRestart.ClickedCh:
				if _, err := t.games.Restart(); err != nil {
					t.log.WithError(err).Warn("restart")
				}
			case <-menuStop.ClickedCh:
				t.games.StopGame()
			case <-menuOpen.ClickedCh:
				t.callback(func() func() { return t.onOpen })
			case <-menuQuit.ClickedCh:
				t.callback(func() func() { return t.onQuit })
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) start(c choice) {
	if _, err := t.games.StartGame(c.game, c.players); err != nil {
		t.log.WithError(err).WithField("game", c.game).Warn("start game")
	}
}

// callback runs the callback returned by get outside the lock.
func (t *Tray) callback(get func() func()) {
	t.mu.RLock()
	fn := get()
	t.mu.RUnlock()

	if fn != nil {
		fn()
	}
}

// Report shows a finished game in the menu. It implements app.ResultSink.
func (t *Tray) Report(_ context.Context, o app.Outcome) error {
	text := summary(o)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastText = text
	if t.menuLast != nil {
		t.menuLast.SetTitle(text)
	}
	return nil
}

// LastText returns the text of the last result entry.
func (t *Tray) LastText() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastText
}

func summary(o app.Outcome) string {
	switch {
	case o.Game == app.GameRPS && o.Match != nil:
		return fmt.Sprintf("Last: rps %d-%d, %s", o.Match.PlayerScore, o.Match.ComputerScore, o.Winner)
	case o.NewRecord:
		return fmt.Sprintf("Last: %s %d, new record!", o.Game, o.Best)
	case o.Winner != "":
		return fmt.Sprintf("Last: %s %d, %s", o.Game, o.Best, o.Winner)
	}
	return fmt.Sprintf("Last: %s %d", o.Game, o.Best)
}

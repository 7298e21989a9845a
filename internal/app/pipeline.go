package app

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/robertgvds/vision-games/internal/arcade"
	"github.com/robertgvds/vision-games/internal/logging"
)

// Runner drives one game on its own goroutine. Each tick takes the latest
// sample from the mailbox; a tick without a fresh sample is skipped and the
// elapsed time is carried to the next processed tick.
type Runner struct {
	id       string
	game     Game
	players  int
	play     play
	interval time.Duration
	mailbox  *Mailbox
	log      logrus.FieldLogger
	throttle *logging.Throttle

	publish func(View)
	finish  func(context.Context, Outcome) Outcome

	mu        sync.Mutex
	seq       uint64
	last      time.Time
	startedAt time.Time
	over      bool

	stopCh chan struct{}
	done   chan struct{}
}

func (r *Runner) start(now time.Time) {
	r.startedAt = now
	r.last = now
	r.stopCh = make(chan struct{})
	r.done = make(chan struct{})
	go r.run()
}

// stop ends the loop and waits for it, so no tick runs after it returns.
func (r *Runner) stop() {
	if r.stopCh == nil {
		return
	}
	close(r.stopCh)
	<-r.done
	r.stopCh = nil
}

func (r *Runner) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case now := <-ticker.C:
			r.step(now)
		}
	}
}

// step runs one tick at wall time now.
func (r *Runner) step(now time.Time) View {
	r.mu.Lock()
	defer r.mu.Unlock()

	sample := r.mailbox.Take()

	var dt time.Duration
	if sample != nil {
		dt = now.Sub(r.last)
		if dt < 0 {
			dt = 0
		}
		r.last = now
	}

	view, outcome := r.play.tick(dt, sample)
	r.seq++
	view.SessionID = r.id
	view.Seq = r.seq

	r.logEvents(view.Events)

	if outcome != nil && !r.over {
		r.over = true
		outcome.SessionID = r.id
		outcome.EndedAt = now
		if r.finish != nil {
			*outcome = r.finish(context.Background(), *outcome)
		}
		view.Outcome = outcome
	}

	if r.publish != nil {
		r.publish(view)
	}
	return view
}

// jump forwards a jump to the owned game between ticks.
func (r *Runner) jump(player int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.play.jump(player)
}

func (r *Runner) logEvents(events []arcade.Event) {
	for _, e := range events {
		entry := r.log.WithFields(logrus.Fields{"game": r.game, "session": r.id})
		switch e.Type {
		case arcade.EventNeedSubjects:
			if r.throttle.Allow(r.id + ":need") {
				entry.WithField("need", e.Need).Warn("waiting for players")
			}
		case arcade.EventResumed, arcade.EventStarted:
			r.throttle.Forget(r.id + ":need")
			entry.Debug(string(e.Type))
		case arcade.EventEliminated:
			entry.WithField("player", e.Player).Info("player eliminated")
		case arcade.EventStageUp:
			entry.WithField("stage", e.Stage).Info("difficulty raised")
		case arcade.EventGameOver:
			entry.WithField("scores", e.Scores).Info("game over")
		}
	}
}

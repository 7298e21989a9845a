package plugin

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/robertgvds/vision-games/internal/app"
)

// Sink runs the discovered plugins for every finished game. It implements
// app.ResultSink.
type Sink struct {
	manager  *Manager
	executor *Executor
	log      logrus.FieldLogger
}

// NewSink creates a Sink over the plugins found by manager.
func NewSink(manager *Manager, executor *Executor) *Sink {
	return &Sink{manager: manager, executor: executor, log: manager.log}
}

// Report sends o to each interested plugin in name order. Every plugin
// runs even when an earlier one fails.
func (s *Sink) Report(ctx context.Context, o app.Outcome) error {
	var errs []error
	for _, p := range s.manager.For(string(o.Game)) {
		if err := s.executor.GameOver(ctx, p, o); err != nil {
			s.log.WithError(err).WithField("plugin", p.Manifest.Name).Warn("plugin failed")
			errs = append(errs, fmt.Errorf("%s: %w", p.Manifest.Name, err))
		}
	}
	return errors.Join(errs...)
}

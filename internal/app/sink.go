package app

import (
	"context"
	"fmt"

	"github.com/robertgvds/vision-games/internal/store"
)

// StoreSink records finished games in the results table.
type StoreSink struct {
	results *store.ResultRepository
}

// NewStoreSink creates a sink writing to st.
func NewStoreSink(st *store.Store) *StoreSink {
	return &StoreSink{results: st.Results()}
}

// Report inserts one result row.
func (s *StoreSink) Report(ctx context.Context, o Outcome) error {
	err := s.results.Create(ctx, &store.Result{
		Game:      string(o.Game),
		SessionID: o.SessionID,
		Players:   o.Players,
		Winner:    o.Winner,
		Scores:    o.Scores,
		Best:      o.Best,
		NewRecord: o.NewRecord,
	})
	if err != nil {
		return fmt.Errorf("record %s result: %w", o.Game, err)
	}
	return nil
}

// SinkFunc adapts a function to ResultSink.
type SinkFunc func(ctx context.Context, o Outcome) error

// Report calls f.
func (f SinkFunc) Report(ctx context.Context, o Outcome) error {
	return f(ctx, o)
}

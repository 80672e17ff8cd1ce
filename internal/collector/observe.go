package collector

import (
	"context"
	"time"

	"github.com/tyler180/nba-stats-backends/internal/nbastats"
)

type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// Resolution records how one collector run got its payload.
type Resolution struct {
	RunID  string
	Kind   nbastats.Kind
	Object Locator
	Source Source
	// Outcome is the remote send result ("ok" or "failed"); empty for local hits.
	Outcome string
	Empty   bool
	Params  map[string]string
	At      time.Time
}

type Observer interface {
	Observe(ctx context.Context, r Resolution)
}

type ObserverFunc func(ctx context.Context, r Resolution)

func (f ObserverFunc) Observe(ctx context.Context, r Resolution) { f(ctx, r) }

// Observers fans a resolution out to each non-nil observer in order.
type Observers []Observer

func (os Observers) Observe(ctx context.Context, r Resolution) {
	for _, o := range os {
		if o != nil {
			o.Observe(ctx, r)
		}
	}
}

// WithRunID stamps every resolution passed to next with id.
func WithRunID(id string, next Observer) Observer {
	return ObserverFunc(func(ctx context.Context, r Resolution) {
		r.RunID = id
		if next != nil {
			next.Observe(ctx, r)
		}
	})
}

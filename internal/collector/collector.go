// Package collector resolves one resource cache-first: read the object
// store, fall back to the remote endpoint, and write what the remote gave.
package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tyler180/nba-stats-backends/internal/nbastats"
	"github.com/tyler180/nba-stats-backends/internal/objectstore"
	"github.com/tyler180/nba-stats-backends/internal/schema"
)

// Locator is where a resource lives in the object store.
type Locator struct {
	Bucket string
	Key    string
}

func (l Locator) String() string { return l.Bucket + l.Key }

func DateKey(d time.Time) string {
	return fmt.Sprintf("/%04d/%02d/%02d.json", d.Year(), int(d.Month()), d.Day())
}

// NBALeague keeps the unprefixed date key; other leagues are scoped by id.
const NBALeague = "00"

func ScoreboardKey(d time.Time, leagueID string) string {
	if leagueID == NBALeague {
		return DateKey(d)
	}
	return "/" + leagueID + DateKey(d)
}

func GameKey(d time.Time, gameID string) string {
	return fmt.Sprintf("/%04d/%02d/%02d/%s.json", d.Year(), int(d.Month()), d.Day(), gameID)
}

func IDKey(id int64) string {
	return fmt.Sprintf("/%d.json", id)
}

// Handler is the kind-independent surface of a collector.
type Handler interface {
	Run(ctx context.Context, force bool) error
	CurrentData() schema.Payload
	SetCurrentData(p schema.Payload)
	Locator() Locator
	Kind() nbastats.Kind
}

// Buckets overrides the registry bucket per kind.
type Buckets map[nbastats.Kind]string

func (b Buckets) For(k nbastats.Kind) string {
	if name, ok := b[k]; ok && name != "" {
		return name
	}
	r, _ := nbastats.Lookup(k)
	return r.Bucket
}

// Deps are shared by every collector built for one process.
type Deps struct {
	Sender   nbastats.Sender
	Store    objectstore.Store
	Buckets  Buckets
	Observer Observer
	Logger   *slog.Logger
}

type Collector[T any] struct {
	endpoint *nbastats.Endpoint[T]
	store    objectstore.Store
	loc      Locator
	observer Observer
	logger   *slog.Logger
}

func newCollector[T any](d Deps, ep *nbastats.Endpoint[T], key string) *Collector[T] {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	kind := ep.Request().Resource().Kind
	return &Collector[T]{
		endpoint: ep,
		store:    d.Store,
		loc:      Locator{Bucket: d.Buckets.For(kind), Key: key},
		observer: d.Observer,
		logger:   logger,
	}
}

func NewScoreboard(d Deps, date time.Time, leagueID string) *Collector[schema.ScoreboardV3] {
	return newCollector(d, nbastats.NewScoreboard(d.Sender, date, leagueID), ScoreboardKey(date, leagueID))
}

func NewBoxScoreSummary(d Deps, date time.Time, gameID string) *Collector[schema.BoxScoreSummaryV3] {
	return newCollector(d, nbastats.NewBoxScoreSummary(d.Sender, gameID), GameKey(date, gameID))
}

func NewPlayByPlay(d Deps, date time.Time, gameID string) *Collector[schema.PlayByPlayV3] {
	return newCollector(d, nbastats.NewPlayByPlay(d.Sender, gameID), GameKey(date, gameID))
}

func NewPlayerInfo(d Deps, playerID int64) *Collector[schema.CommonPlayerInfo] {
	return newCollector(d, nbastats.NewPlayerInfo(d.Sender, playerID), IDKey(playerID))
}

func NewTeamDetails(d Deps, teamID int64) *Collector[schema.TeamDetails] {
	return newCollector(d, nbastats.NewTeamDetails(d.Sender, teamID), IDKey(teamID))
}

func (c *Collector[T]) Locator() Locator { return c.loc }

func (c *Collector[T]) Kind() nbastats.Kind { return c.endpoint.Request().Resource().Kind }

func (c *Collector[T]) CurrentData() schema.Payload { return c.endpoint.CurrentData() }

func (c *Collector[T]) SetCurrentData(p schema.Payload) { c.endpoint.SetCurrentData(p) }

// Record validates whatever Run resolved. Call Run first; otherwise the
// endpoint goes to the remote without touching the store.
func (c *Collector[T]) Record(ctx context.Context) (*T, error) {
	rec, err := c.endpoint.Record(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", c.Kind(), c.loc, err)
	}
	return rec, nil
}

// Run resolves the payload. Unless force is set a stored object wins and
// nothing is fetched or written. Otherwise the remote result, empty or not,
// is written exactly once.
func (c *Collector[T]) Run(ctx context.Context, force bool) error {
	kind := c.Kind()
	params := c.endpoint.Request().Params()

	if !force {
		data, err := c.store.Get(ctx, c.loc.Bucket, c.loc.Key)
		switch {
		case err == nil:
			c.endpoint.SetCurrentData(data)
			c.logger.Info("resolved from local", "resource", kind, "params", params, "object", c.loc.String())
			c.observe(ctx, SourceLocal, "", data)
			return nil
		case !errors.Is(err, objectstore.ErrNotFound):
			return fmt.Errorf("%s %s: read: %w", kind, c.loc, err)
		}
	}

	data, err := c.endpoint.Dict(ctx, force)
	if err != nil {
		return fmt.Errorf("%s %s: fetch: %w", kind, c.loc, err)
	}
	if err := c.store.Put(ctx, c.loc.Bucket, c.loc.Key, data); err != nil {
		return fmt.Errorf("%s %s: write: %w", kind, c.loc, err)
	}
	outcome := ""
	if o, ok := c.endpoint.LastOutcome(); ok {
		outcome = o.String()
	}
	c.logger.Info("resolved from remote", "resource", kind, "params", params, "object", c.loc.String(),
		"outcome", outcome, "empty", data.Empty())
	c.observe(ctx, SourceRemote, outcome, data)
	return nil
}

func (c *Collector[T]) observe(ctx context.Context, src Source, outcome string, data schema.Payload) {
	if c.observer == nil {
		return
	}
	c.observer.Observe(ctx, Resolution{
		Kind:    c.Kind(),
		Object:  c.loc,
		Source:  src,
		Outcome: outcome,
		Empty:   data.Empty(),
		Params:  c.endpoint.Request().Params(),
		At:      time.Now().UTC(),
	})
}

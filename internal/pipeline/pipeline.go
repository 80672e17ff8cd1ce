// Package pipeline composes collectors into the acquisition runs: the daily
// scoreboard and the per-game series (box score, teams, players,
// play-by-play).
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tyler180/nba-stats-backends/internal/collector"
	"github.com/tyler180/nba-stats-backends/internal/nbastats"
	"github.com/tyler180/nba-stats-backends/internal/schema"
)

const (
	DailyScoreboardRun  = "daily_scoreboard"
	SingleGameSeriesRun = "single_game_series"

	DefaultPace = 3 * time.Second
)

// Curator exports a validated play-by-play record downstream.
type Curator interface {
	CuratePlayByPlay(ctx context.Context, date time.Time, rec *schema.PlayByPlayV3) error
}

// RunHook is told about every finished run, failed or not.
type RunHook interface {
	RunFinished(ctx context.Context, rep Report, err error)
}

type Pipeline struct {
	Deps collector.Deps
	// Pace is slept after every team-details and player-info step.
	Pace    time.Duration
	Sleep   func(ctx context.Context, d time.Duration) error
	Curator Curator
	Hooks   []RunHook
	Logger  *slog.Logger
}

// StepFailure is a per-id failure that did not stop the run.
type StepFailure struct {
	Kind nbastats.Kind
	ID   string
	Err  error
}

type Report struct {
	RunID    string
	Run      string
	GameID   string
	Games    []string
	Teams    []int64
	Players  []int64
	Steps    int
	Failures []StepFailure
}

// Err joins every step failure, nil when the run was clean.
func (r Report) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}

func (r *Report) fail(kind nbastats.Kind, id string, err error) {
	r.Failures = append(r.Failures, StepFailure{Kind: kind, ID: id, Err: err})
}

type run struct {
	id      string
	deps    collector.Deps
	teams   map[int64]struct{}
	players map[int64]struct{}
}

func (p *Pipeline) newRun() *run {
	id := uuid.NewString()
	deps := p.Deps
	deps.Observer = collector.WithRunID(id, p.Deps.Observer)
	return &run{id: id, deps: deps, teams: map[int64]struct{}{}, players: map[int64]struct{}{}}
}

// scheduleTeam reports whether id has not been scheduled in this run yet.
func (r *run) scheduleTeam(id int64) bool {
	if _, ok := r.teams[id]; ok {
		return false
	}
	r.teams[id] = struct{}{}
	return true
}

func (r *run) schedulePlayer(id int64) bool {
	if _, ok := r.players[id]; ok {
		return false
	}
	r.players[id] = struct{}{}
	return true
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p *Pipeline) pause(ctx context.Context) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	return sleep(ctx, p.Pace)
}

func (p *Pipeline) finish(ctx context.Context, rep Report, err error) {
	for _, h := range p.Hooks {
		h.RunFinished(ctx, rep, err)
	}
}

// SleepContext waits d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func resolve[T any](ctx context.Context, c *collector.Collector[T], force bool) (*T, error) {
	if err := c.Run(ctx, force); err != nil {
		return nil, err
	}
	return c.Record(ctx)
}

// DailyScoreboard resolves and validates the scoreboard for one day.
func (p *Pipeline) DailyScoreboard(ctx context.Context, date time.Time, leagueID string, force bool) (Report, error) {
	r := p.newRun()
	rep := Report{RunID: r.id, Run: DailyScoreboardRun, Steps: 1}
	log := p.logger().With("run_id", r.id, "run", DailyScoreboardRun, "game_date", date.Format(time.DateOnly))

	rec, err := resolve(ctx, collector.NewScoreboard(r.deps, date, leagueID), force)
	if err != nil {
		err = fmt.Errorf("daily scoreboard %s: %w", date.Format(time.DateOnly), err)
		p.finish(ctx, rep, err)
		return rep, err
	}
	if rec != nil {
		rep.Games = rec.GameIDs()
	}
	log.Info("run finished", "games", len(rep.Games))
	p.finish(ctx, rep, nil)
	return rep, nil
}

// SingleGameSeries resolves one game and everything it references. A box
// score failure aborts; team, player and play-by-play failures are recorded
// and the run carries on, returning them joined at the end.
func (p *Pipeline) SingleGameSeries(ctx context.Context, date time.Time, gameID string, force bool) (Report, error) {
	r := p.newRun()
	rep := Report{RunID: r.id, Run: SingleGameSeriesRun, GameID: gameID}
	log := p.logger().With("run_id", r.id, "run", SingleGameSeriesRun, "game_id", gameID)

	rep.Steps++
	box, err := resolve(ctx, collector.NewBoxScoreSummary(r.deps, date, gameID), force)
	if err != nil {
		err = fmt.Errorf("game %s: box score summary: %w", gameID, err)
		p.finish(ctx, rep, err)
		return rep, err
	}
	if box == nil {
		log.Warn("box score summary empty; no team or player ids")
	}

	away, home := box.TeamIDs()
	for _, id := range []*int64{away, home} {
		if id == nil || !r.scheduleTeam(*id) {
			continue
		}
		rep.Teams = append(rep.Teams, *id)
		rep.Steps++
		if _, err := resolve(ctx, collector.NewTeamDetails(r.deps, *id), force); err != nil {
			log.Error("team details failed", "team_id", *id, "err", err)
			rep.fail(nbastats.TeamDetails, strconv.FormatInt(*id, 10), err)
		}
		if err := p.pause(ctx); err != nil {
			p.finish(ctx, rep, err)
			return rep, err
		}
	}

	awayIDs, homeIDs := box.RosterIDs()
	for _, id := range slices.Concat(awayIDs, homeIDs) {
		if !r.schedulePlayer(id) {
			continue
		}
		rep.Players = append(rep.Players, id)
		rep.Steps++
		if _, err := resolve(ctx, collector.NewPlayerInfo(r.deps, id), force); err != nil {
			log.Error("player info failed", "player_id", id, "err", err)
			rep.fail(nbastats.CommonPlayerInfo, strconv.FormatInt(id, 10), err)
		}
		if err := p.pause(ctx); err != nil {
			p.finish(ctx, rep, err)
			return rep, err
		}
	}

	rep.Steps++
	pbp, err := resolve(ctx, collector.NewPlayByPlay(r.deps, date, gameID), force)
	switch {
	case err != nil:
		log.Error("play by play failed", "err", err)
		rep.fail(nbastats.PlayByPlay, gameID, err)
	case pbp != nil && p.Curator != nil:
		if err := p.Curator.CuratePlayByPlay(ctx, date, pbp); err != nil {
			log.Error("play by play curation failed", "err", err)
			rep.fail(nbastats.PlayByPlay, gameID, fmt.Errorf("curate play by play %s: %w", gameID, err))
		}
	}

	err = rep.Err()
	log.Info("run finished", "teams", len(rep.Teams), "players", len(rep.Players),
		"steps", rep.Steps, "failures", len(rep.Failures))
	p.finish(ctx, rep, err)
	return rep, err
}

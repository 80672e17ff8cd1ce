// Package acquisition is the task boundary: it decodes Lambda events and
// runs the matching pipeline.
package acquisition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tyler180/nba-stats-backends/internal/metrics"
	"github.com/tyler180/nba-stats-backends/internal/pipeline"
	"github.com/tyler180/nba-stats-backends/internal/probe"
)

// Raw is the undecoded Lambda event.
type Raw = json.RawMessage

const (
	ModeDailyScoreboard  = "scrape_daily_scoreboard"
	ModeSingleGameSeries = "scrape_single_game_series"
	ModeProbe            = "probe"
)

type Event struct {
	Mode     string `json:"mode"`
	GameDate string `json:"game_date"` // YYYY-MM-DD
	LeagueID string `json:"league_id"`
	GameID   string `json:"game_id"`
	// AllGames runs the single game series for every game on the scoreboard.
	AllGames bool `json:"all_games"`
	Force    bool `json:"force"`
}

type Result struct {
	Mode     string   `json:"mode"`
	RunID    string   `json:"run_id,omitempty"`
	GameDate string   `json:"game_date,omitempty"`
	GameID   string   `json:"game_id,omitempty"`
	Games    []string `json:"games,omitempty"`
	Teams    int      `json:"teams"`
	Players  int      `json:"players"`
	Steps    int      `json:"steps"`
	Failures []string `json:"failures,omitempty"`
	Series   []Result `json:"series,omitempty"`
}

func resultOf(mode string, date time.Time, rep pipeline.Report) Result {
	res := Result{
		Mode:     mode,
		RunID:    rep.RunID,
		GameDate: date.Format(time.DateOnly),
		GameID:   rep.GameID,
		Games:    rep.Games,
		Teams:    len(rep.Teams),
		Players:  len(rep.Players),
		Steps:    rep.Steps,
	}
	for _, f := range rep.Failures {
		res.Failures = append(res.Failures, fmt.Sprintf("%s %s: %v", f.Kind, f.ID, f.Err))
	}
	return res
}

type Service struct {
	Pipeline *pipeline.Pipeline
	LeagueID string
	Checks   []probe.Check
	// Metrics is nil unless Build was given a registry.
	Metrics *metrics.Recorder
	Logger  *slog.Logger
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// ParseDate accepts YYYY-MM-DD only.
func ParseDate(v string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("game_date %q: want YYYY-MM-DD", v)
	}
	return d, nil
}

// Handle is the Lambda handler. The returned string is the JSON Result,
// also on partial failure.
func (s *Service) Handle(ctx context.Context, raw Raw) (string, error) {
	var e Event
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &e); err != nil {
			return "", fmt.Errorf("decode event: %w", err)
		}
	}
	res, err := s.Dispatch(ctx, e)
	out, merr := json.Marshal(res)
	if merr != nil {
		return "", errors.Join(err, merr)
	}
	return string(out), err
}

func (s *Service) Dispatch(ctx context.Context, e Event) (Result, error) {
	mode := strings.TrimSpace(e.Mode)
	if mode == ModeProbe {
		return Result{Mode: mode}, probe.Run(ctx, s.logger(), s.Checks...)
	}
	if mode != ModeDailyScoreboard && mode != ModeSingleGameSeries {
		return Result{Mode: mode}, fmt.Errorf("unknown mode %q", e.Mode)
	}

	date, err := ParseDate(e.GameDate)
	if err != nil {
		return Result{Mode: mode}, err
	}
	if mode == ModeSingleGameSeries {
		if e.GameID == "" {
			return Result{Mode: mode}, errors.New("game_id is required")
		}
		rep, err := s.ScrapeSingleGameSeries(ctx, date, e.GameID, e.Force)
		return resultOf(mode, date, rep), err
	}

	league := e.LeagueID
	if league == "" {
		league = s.LeagueID
	}
	rep, err := s.ScrapeDailyScoreboard(ctx, date, league, e.Force)
	res := resultOf(mode, date, rep)
	if err != nil || !e.AllGames {
		return res, err
	}
	series, err := s.ScrapeGames(ctx, date, rep.Games, e.Force)
	for _, r := range series {
		res.Series = append(res.Series, resultOf(ModeSingleGameSeries, date, r))
	}
	return res, err
}

func (s *Service) ScrapeDailyScoreboard(ctx context.Context, date time.Time, leagueID string, force bool) (pipeline.Report, error) {
	return s.Pipeline.DailyScoreboard(ctx, date, leagueID, force)
}

func (s *Service) ScrapeSingleGameSeries(ctx context.Context, date time.Time, gameID string, force bool) (pipeline.Report, error) {
	return s.Pipeline.SingleGameSeries(ctx, date, gameID, force)
}

// ScrapeGames runs the series for each game in order. A failed game does
// not stop the others; cancellation does.
func (s *Service) ScrapeGames(ctx context.Context, date time.Time, gameIDs []string, force bool) ([]pipeline.Report, error) {
	reps := make([]pipeline.Report, 0, len(gameIDs))
	var errs []error
	for _, id := range gameIDs {
		rep, err := s.ScrapeSingleGameSeries(ctx, date, id, force)
		reps = append(reps, rep)
		if err != nil {
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
		}
	}
	return reps, errors.Join(errs...)
}

package acquisition

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tyler180/nba-stats-backends/internal/collector"
	"github.com/tyler180/nba-stats-backends/internal/config"
	"github.com/tyler180/nba-stats-backends/internal/nbastats"
	"github.com/tyler180/nba-stats-backends/internal/objectstore"
	"github.com/tyler180/nba-stats-backends/internal/pipeline"
	"github.com/tyler180/nba-stats-backends/internal/probe"
	"github.com/tyler180/nba-stats-backends/internal/schema"
	"github.com/tyler180/nba-stats-backends/internal/schema/schematest"
)

// stubStats serves fixtures; games lists the scoreboard, brokenBox makes
// those games' box scores invalid.
type stubStats struct {
	games     []string
	brokenBox map[string]bool
	calls     map[nbastats.Kind]int
}

func (s *stubStats) Send(_ context.Context, req nbastats.Request) nbastats.Outcome {
	if s.calls == nil {
		s.calls = map[nbastats.Kind]int{}
	}
	kind := req.Resource().Kind
	s.calls[kind]++
	params := req.Params()
	var p schema.Payload
	switch kind {
	case nbastats.Scoreboard:
		p = schematest.Scoreboard(params["GameDate"], params["LeagueID"], s.games...)
	case nbastats.BoxScoreSummary:
		if s.brokenBox[params["GameID"]] {
			return nbastats.Outcome{OK: true, Status: 200, Body: []byte(`{"meta":{},"boxScoreSummary":"nope"}`)}
		}
		p = schematest.BoxScore(params["GameID"],
			schematest.Team{ID: 1610612738, Tricode: "BOS", Players: schematest.Roster(1000, 2)},
			schematest.Team{ID: 1610612747, Tricode: "LAL", Players: schematest.Roster(2000, 2)})
	case nbastats.TeamDetails:
		id, _ := strconv.ParseInt(params["TeamID"], 10, 64)
		p = schematest.TeamDetails(id)
	case nbastats.CommonPlayerInfo:
		id, _ := strconv.ParseInt(params["PlayerID"], 10, 64)
		p = schematest.PlayerInfo(id)
	case nbastats.PlayByPlay:
		p = schematest.PlayByPlay(params["GameID"], 3)
	}
	b, err := p.Encode()
	if err != nil {
		return nbastats.Outcome{Err: err}
	}
	return nbastats.Outcome{OK: true, Status: 200, Body: b}
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newService(stats nbastats.Sender, store objectstore.Store) *Service {
	return &Service{
		Pipeline: &pipeline.Pipeline{
			Deps:   collector.Deps{Sender: stats, Store: store, Logger: quiet()},
			Sleep:  func(context.Context, time.Duration) error { return nil },
			Logger: quiet(),
		},
		LeagueID: "00",
		Logger:   quiet(),
	}
}

func decode(t *testing.T, out string) Result {
	t.Helper()
	var res Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	return res
}

func TestHandle_DailyScoreboard(t *testing.T) {
	stats := &stubStats{games: []string{"0040900407"}}
	store := objectstore.NewMemory()
	svc := newService(stats, store)

	out, err := svc.Handle(context.Background(), Raw(`{"mode":"scrape_daily_scoreboard","game_date":"2010-06-17"}`))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	res := decode(t, out)
	if len(res.Games) != 1 || res.Games[0] != "0040900407" || res.GameDate != "2010-06-17" {
		t.Fatalf("result %+v", res)
	}
	if keys := store.Keys(); len(keys) != 1 || !strings.Contains(keys[0], "/2010/06/17.json") {
		t.Fatalf("keys %v", keys)
	}
	if len(res.Series) != 0 {
		t.Fatalf("series ran without all_games: %+v", res.Series)
	}
}

func TestHandle_SingleGameSeries(t *testing.T) {
	stats := &stubStats{}
	svc := newService(stats, objectstore.NewMemory())

	out, err := svc.Handle(context.Background(), Raw(`{"mode":"scrape_single_game_series","game_date":"2010-06-17","game_id":"0040900407"}`))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	res := decode(t, out)
	if res.Teams != 2 || res.Players != 4 || res.Steps != 8 {
		t.Fatalf("result %+v", res)
	}
	if stats.calls[nbastats.PlayByPlay] != 1 || stats.calls[nbastats.CommonPlayerInfo] != 4 {
		t.Fatalf("calls %v", stats.calls)
	}
}

func TestHandle_AllGamesContinuesPastFailedGame(t *testing.T) {
	stats := &stubStats{
		games:     []string{"0040900401", "0040900402"},
		brokenBox: map[string]bool{"0040900401": true},
	}
	svc := newService(stats, objectstore.NewMemory())

	out, err := svc.Handle(context.Background(), Raw(`{"mode":"scrape_daily_scoreboard","game_date":"2010-06-03","all_games":true}`))
	if err == nil {
		t.Fatal("expected the broken game to surface")
	}
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err %v is not a validation error", err)
	}
	res := decode(t, out)
	if len(res.Series) != 2 || res.Series[1].GameID != "0040900402" || res.Series[1].Steps != 8 {
		t.Fatalf("series %+v", res.Series)
	}
	if stats.calls[nbastats.PlayByPlay] != 1 {
		t.Fatalf("play by play calls %d want 1", stats.calls[nbastats.PlayByPlay])
	}
}

func TestHandle_BadEvents(t *testing.T) {
	svc := newService(&stubStats{}, objectstore.NewMemory())
	for name, raw := range map[string]string{
		"unknown mode": `{"mode":"scrape_everything","game_date":"2010-06-17"}`,
		"bad date":     `{"mode":"scrape_daily_scoreboard","game_date":"06/17/2010"}`,
		"missing game": `{"mode":"scrape_single_game_series","game_date":"2010-06-17"}`,
		"not json":     `{"mode":`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Handle(context.Background(), Raw(raw)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestHandle_Probe(t *testing.T) {
	svc := newService(&stubStats{}, objectstore.NewMemory())
	svc.Checks = []probe.Check{
		{Name: "detect_bucket_scoreboard", Run: func(context.Context) error { return nil }},
		{Name: "detect_table_runs", Run: func(context.Context) error { return errors.New("not active") }},
	}
	_, err := svc.Handle(context.Background(), Raw(`{"mode":"probe"}`))
	if err == nil || !strings.Contains(err.Error(), "detect_table_runs") {
		t.Fatalf("err = %v", err)
	}
}

func TestBuild_MemoryStoreWithMetrics(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{"PACE_DELAY": "0s", "AWS_REGION": "us-east-1"})
	if err != nil {
		t.Fatal(err)
	}
	store := objectstore.NewMemory()
	stats := &stubStats{}
	svc, err := Build(context.Background(), cfg, quiet(), Options{Store: store, Sender: stats, Registry: prometheus.NewRegistry()})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if svc.Pipeline.Curator != nil || len(svc.Pipeline.Hooks) != 1 {
		t.Fatalf("unexpected wiring: curator=%v hooks=%d", svc.Pipeline.Curator, len(svc.Pipeline.Hooks))
	}
	if len(svc.Checks) != len(cfg.Buckets.All()) {
		t.Fatalf("checks %d", len(svc.Checks))
	}
	if _, err := svc.ScrapeSingleGameSeries(context.Background(), mustDate(t, "2010-06-17"), "0040900407", false); err != nil {
		t.Fatalf("series: %v", err)
	}
	_, puts := store.Counts()
	if puts != 8 {
		t.Fatalf("puts %d want 8", puts)
	}
}

func mustDate(t *testing.T, v string) time.Time {
	t.Helper()
	d, err := ParseDate(v)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// Command acquire runs the acquisition pipelines from a shell, for local
// runs and backfills.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tyler180/nba-stats-backends/internal/app/acquisition"
	"github.com/tyler180/nba-stats-backends/internal/config"
	"github.com/tyler180/nba-stats-backends/internal/logging"
	"github.com/tyler180/nba-stats-backends/internal/objectstore"
)

func main() {
	var (
		mode        = flag.String("mode", acquisition.ModeSingleGameSeries, "scrape_daily_scoreboard, scrape_single_game_series or probe")
		date        = flag.String("date", "", "game date, YYYY-MM-DD")
		game        = flag.String("game", "", "game id for scrape_single_game_series")
		league      = flag.String("league", "", "league id, defaults to LEAGUE_ID")
		allGames    = flag.Bool("games", false, "with scrape_daily_scoreboard, also run every game on the scoreboard")
		force       = flag.Bool("force", false, "refetch from stats.nba.com even when stored")
		storeKind   = flag.String("store", "s3", "raw payload store: s3 or memory")
		doProbe     = flag.Bool("probe", false, "check buckets and ledger table, then exit")
		metricsAddr = flag.String("metrics-addr", "", "serve /metrics here and keep running after the run until interrupted")
	)
	flag.Parse()
	log.SetFlags(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.ServiceName, cfg.LogLevel, cfg.Debug)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := acquisition.Options{}
	switch *storeKind {
	case "s3":
	case "memory":
		opts.Store = objectstore.NewMemory()
	default:
		log.Fatalf("unknown -store %q", *storeKind)
	}

	if *metricsAddr != "" {
		opts.Registry = prometheus.NewRegistry()
	}

	svc, err := acquisition.Build(ctx, cfg, logger, opts)
	if err != nil {
		log.Fatalf("build: %v", err)
	}
	var srv *http.Server
	if svc.Metrics != nil {
		srv = &http.Server{Addr: *metricsAddr, Handler: svc.Metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "err", err)
			}
		}()
	}

	e := acquisition.Event{Mode: *mode, GameDate: *date, LeagueID: *league, GameID: *game, AllGames: *allGames, Force: *force}
	if *doProbe {
		e.Mode = acquisition.ModeProbe
	}
	res, runErr := svc.Dispatch(ctx, e)
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("encode result: %w", err))
	} else {
		fmt.Println(string(out))
	}

	if srv != nil && ctx.Err() == nil {
		logger.Info("run complete; serving metrics until interrupted", "addr", *metricsAddr)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	if runErr != nil {
		logger.Error("run failed", "err", runErr)
		os.Exit(1)
	}
}

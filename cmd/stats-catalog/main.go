package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"

	"github.com/tyler180/nba-stats-backends/internal/app/acquisition"
	"github.com/tyler180/nba-stats-backends/internal/catalog"
	"github.com/tyler180/nba-stats-backends/internal/config"
	"github.com/tyler180/nba-stats-backends/internal/logging"
)

type Event struct {
	GameDate    string `json:"game_date"` // optional partition to count
	Materialize bool   `json:"materialize"`
}

type handler struct {
	cfg    config.Config
	runner *catalog.Runner
	logger *slog.Logger
}

func (h *handler) handle(ctx context.Context, e Event) (string, error) {
	if e.GameDate != "" {
		if _, err := acquisition.ParseDate(e.GameDate); err != nil {
			return "", err
		}
	}
	location := catalog.ActionsLocation(h.cfg.CuratedBucket, h.cfg.CuratedPrefix)
	serving := ""
	if e.Materialize {
		serving = strings.TrimRight(h.cfg.AthenaOutput, "/") + "/serve/" + catalog.ShootingTable + "/"
	}
	sum, err := catalog.Register(ctx, h.runner, location, e.GameDate, serving)
	if err != nil {
		return "", err
	}
	h.logger.Info("catalog registered", "table", sum.Database+"."+sum.Table, "rows", sum.Rows,
		"game_date", sum.GameDate, "date_rows", sum.DateRows, "materialized", sum.Materialized)
	out, err := json.Marshal(sum)
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}
	return string(out), nil
}

func main() {
	log.SetFlags(0)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if !cfg.AthenaEnabled() {
		log.Fatal(errors.New("CURATED_BUCKET and ATHENA_OUTPUT are required"))
	}
	logger := logging.New(cfg.ServiceName+"-catalog", cfg.LogLevel, cfg.Debug)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatalf("aws config: %v", err)
	}
	h := &handler{
		cfg: cfg,
		runner: &catalog.Runner{
			Client:    athena.NewFromConfig(awsCfg),
			Workgroup: cfg.AthenaWorkgroup,
			Database:  cfg.AthenaDatabase,
			OutputS3:  cfg.AthenaOutput,
			Logger:    logger,
		},
		logger: logger,
	}
	lambda.Start(h.handle)
}

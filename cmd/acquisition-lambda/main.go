package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/tyler180/nba-stats-backends/internal/app/acquisition"
	"github.com/tyler180/nba-stats-backends/internal/config"
	"github.com/tyler180/nba-stats-backends/internal/logging"
)

func main() {
	log.SetFlags(0)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.ServiceName, cfg.LogLevel, cfg.Debug)
	slog.SetDefault(logger)

	svc, err := acquisition.Build(context.Background(), cfg, logger, acquisition.Options{})
	if err != nil {
		log.Fatalf("build: %v", err)
	}
	lambda.Start(svc.Handle)
}

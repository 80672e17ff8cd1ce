package acquisition

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tyler180/nba-stats-backends/internal/collector"
	"github.com/tyler180/nba-stats-backends/internal/config"
	"github.com/tyler180/nba-stats-backends/internal/curate"
	"github.com/tyler180/nba-stats-backends/internal/ledger"
	"github.com/tyler180/nba-stats-backends/internal/metrics"
	"github.com/tyler180/nba-stats-backends/internal/nbastats"
	"github.com/tyler180/nba-stats-backends/internal/objectstore"
	"github.com/tyler180/nba-stats-backends/internal/pipeline"
	"github.com/tyler180/nba-stats-backends/internal/probe"
)

type Options struct {
	// Store replaces S3 for raw payloads, e.g. objectstore.Memory for dry runs.
	Store objectstore.Store
	// Registry enables Prometheus metrics when set.
	Registry *prometheus.Registry
	// Sender replaces the stats.nba.com client.
	Sender nbastats.Sender
}

// Build wires a Service from cfg. The ledger, curator and metrics are only
// attached when configured.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger, opts Options) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.AWSRegion != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.AWSRegion))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	s3store := objectstore.NewS3(objectstore.NewS3Client(awsCfg, cfg.S3Endpoint, cfg.S3UsePathStyle))
	var store objectstore.Store = s3store
	if opts.Store != nil {
		store = opts.Store
	}
	sender := opts.Sender
	if sender == nil {
		sender = nbastats.NewClient(cfg.StatsBaseURL, cfg.RequestTimeout, logger)
	}

	var (
		observers collector.Observers
		hooks     []pipeline.RunHook
		rec       *metrics.Recorder
	)
	buckets := cfg.Buckets.All()
	checks := probe.Buckets(s3store, buckets...)

	if opts.Registry != nil {
		rec = metrics.NewRecorder(opts.Registry)
		observers = append(observers, rec)
		hooks = append(hooks, rec)
	}
	if cfg.LedgerTable != "" {
		l := ledger.New(dynamodb.NewFromConfig(awsCfg), cfg.LedgerTable, logger)
		observers = append(observers, l)
		hooks = append(hooks, l)
		checks = append(checks, probe.Table(cfg.LedgerTable, l))
	}

	p := &pipeline.Pipeline{
		Deps: collector.Deps{
			Sender:   sender,
			Store:    store,
			Buckets:  cfg.Buckets.ByKind(),
			Observer: observers,
			Logger:   logger,
		},
		Pace:   cfg.Pace,
		Hooks:  hooks,
		Logger: logger,
	}
	if cfg.CuratedBucket != "" {
		p.Curator = &curate.Curator{Store: s3store, Bucket: cfg.CuratedBucket, Prefix: cfg.CuratedPrefix, Logger: logger}
		checks = append(checks, probe.Buckets(s3store, cfg.CuratedBucket)...)
	}

	logger.Info("acquisition wired",
		"store", fmt.Sprintf("%T", store),
		"ledger", cfg.LedgerTable != "",
		"curated", cfg.CuratedBucket != "",
		"metrics", opts.Registry != nil,
		"pace", cfg.Pace)

	return &Service{Pipeline: p, LeagueID: cfg.LeagueID, Checks: checks, Metrics: rec, Logger: logger}, nil
}

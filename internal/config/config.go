// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/tyler180/nba-stats-backends/internal/collector"
	"github.com/tyler180/nba-stats-backends/internal/nbastats"
)

type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"nba-stats-acquisition"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Debug       bool   `env:"DEBUG" envDefault:"false"`

	StatsBaseURL   string        `env:"NBA_STATS_BASE_URL" envDefault:"https://stats.nba.com/stats/"`
	RequestTimeout time.Duration `env:"NBA_STATS_TIMEOUT" envDefault:"5s"`
	Pace           time.Duration `env:"PACE_DELAY" envDefault:"3s"`
	LeagueID       string        `env:"LEAGUE_ID" envDefault:"00"`

	AWSRegion      string `env:"AWS_REGION"`
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3UsePathStyle bool   `env:"S3_USE_PATH_STYLE" envDefault:"false"`

	Buckets Buckets `envPrefix:"BUCKET_"`

	// LedgerTable enables the DynamoDB run ledger when set.
	LedgerTable string `env:"LEDGER_TABLE_NAME"`

	CuratedBucket string `env:"CURATED_BUCKET"`
	CuratedPrefix string `env:"CURATED_PREFIX" envDefault:"curated"`

	AthenaDatabase  string `env:"ATHENA_DB" envDefault:"nba_stats"`
	AthenaWorkgroup string `env:"ATHENA_WORKGROUP" envDefault:"primary"`
	AthenaOutput    string `env:"ATHENA_OUTPUT"`
}

// Buckets names the raw-payload bucket of each resource kind.
type Buckets struct {
	Scoreboard       string `env:"SCOREBOARD" envDefault:"scoreboard"`
	BoxScoreSummary  string `env:"BOXSCORESUMMARY" envDefault:"boxscoresummary"`
	PlayByPlay       string `env:"PLAYBYPLAY" envDefault:"playbyplay"`
	CommonPlayerInfo string `env:"COMMONPLAYERINFO" envDefault:"commonplayerinfo"`
	TeamDetails      string `env:"TEAMDETAILS" envDefault:"teamdetails"`
}

func (b Buckets) ByKind() collector.Buckets {
	return collector.Buckets{
		nbastats.Scoreboard:       b.Scoreboard,
		nbastats.BoxScoreSummary:  b.BoxScoreSummary,
		nbastats.PlayByPlay:       b.PlayByPlay,
		nbastats.CommonPlayerInfo: b.CommonPlayerInfo,
		nbastats.TeamDetails:      b.TeamDetails,
	}
}

// All lists the configured raw buckets in kind order.
func (b Buckets) All() []string {
	return []string{b.BoxScoreSummary, b.CommonPlayerInfo, b.PlayByPlay, b.Scoreboard, b.TeamDetails}
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return errors.New("config: NBA_STATS_TIMEOUT must be positive")
	}
	if c.Pace < 0 {
		return errors.New("config: PACE_DELAY must not be negative")
	}
	for _, b := range c.Buckets.All() {
		if b == "" {
			return errors.New("config: bucket names must not be empty")
		}
	}
	return nil
}

// AthenaEnabled reports whether the catalog has somewhere to write results.
func (c Config) AthenaEnabled() bool { return c.AthenaOutput != "" && c.CuratedBucket != "" }

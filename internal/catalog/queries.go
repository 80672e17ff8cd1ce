// Package catalog registers curated objects with Athena and builds the
// serving tables derived from them.
package catalog

import (
	"context"
	"fmt"
	"strings"
)

const (
	ActionsTable  = "play_by_play_actions"
	ShootingTable = "player_shooting_by_game"
)

// ActionsLocation is the S3 prefix the curator writes play-by-play under.
func ActionsLocation(bucket, prefix string) string {
	p := strings.Trim(prefix, "/")
	if p == "" {
		return fmt.Sprintf("s3://%s/play_by_play/", bucket)
	}
	return fmt.Sprintf("s3://%s/%s/play_by_play/", bucket, p)
}

// BuildCreateActions mirrors curate.ActionRow column for column.
func BuildCreateActions(db, location string) string {
	return fmt.Sprintf(`
CREATE EXTERNAL TABLE IF NOT EXISTS %s.%s (
  game_id        string,
  action_number  int,
  action_id      bigint,
  period         int,
  clock          string,
  team_id        bigint,
  team_tricode   string,
  person_id      bigint,
  player_name    string,
  action_type    string,
  sub_type       string,
  description    string,
  location       string,
  is_field_goal  boolean,
  shot_distance  int,
  shot_result    string,
  score_home     int,
  score_away     int,
  points_total   int
)
PARTITIONED BY (game_date string)
STORED AS PARQUET
LOCATION '%s'
TBLPROPERTIES ('parquet.compression'='SNAPPY')`, db, ActionsTable, location)
}

func BuildRepair(db string) string {
	return fmt.Sprintf("MSCK REPAIR TABLE %s.%s", db, ActionsTable)
}

func BuildCountForDate(db, gameDate string) string {
	return fmt.Sprintf(`SELECT COUNT(*) AS c FROM %s.%s WHERE game_date='%s'`, db, ActionsTable, gameDate)
}

func BuildDropShooting(db string) string {
	return fmt.Sprintf(`DROP TABLE IF EXISTS %s.%s`, db, ShootingTable)
}

// BuildShootingCTAS materializes per-player field goal totals for every
// curated game. Partition columns come last.
func BuildShootingCTAS(db, location string) string {
	return fmt.Sprintf(`
CREATE TABLE %s.%s
WITH (
  format = 'PARQUET',
  external_location = '%s',
  partitioned_by = ARRAY['game_date']
) AS
SELECT
  game_id,
  person_id,
  MAX(player_name)                                  AS player_name,
  MAX(team_tricode)                                 AS team_tricode,
  COUNT_IF(is_field_goal)                           AS fga,
  COUNT_IF(is_field_goal AND shot_result = 'Made')  AS fgm,
  ROUND(AVG(IF(is_field_goal, shot_distance)), 1)   AS avg_shot_distance,
  game_date
FROM %s.%s
WHERE person_id IS NOT NULL
GROUP BY game_date, game_id, person_id`, db, ShootingTable, strings.TrimRight(location, "/"), db, ActionsTable)
}

type Summary struct {
	Database     string `json:"database"`
	Table        string `json:"table"`
	Location     string `json:"location"`
	Rows         int64  `json:"rows"`
	DateRows     int64  `json:"date_rows,omitempty"`
	GameDate     string `json:"game_date,omitempty"`
	Materialized bool   `json:"materialized"`
}

// Register creates the actions table if needed, loads new partitions and
// counts rows. With gameDate set it also counts that partition. With
// servingLocation set it rebuilds the shooting table there.
func Register(ctx context.Context, r *Runner, location, gameDate, servingLocation string) (Summary, error) {
	sum := Summary{Database: r.Database, Table: ActionsTable, Location: location, GameDate: gameDate}

	if _, err := r.ExecAndWait(ctx, BuildCreateActions(r.Database, location)); err != nil {
		return sum, fmt.Errorf("create %s: %w", ActionsTable, err)
	}
	if _, err := r.ExecAndWait(ctx, BuildRepair(r.Database)); err != nil {
		return sum, fmt.Errorf("repair %s: %w", ActionsTable, err)
	}
	n, err := r.CountRows(ctx, ActionsTable)
	if err != nil {
		return sum, err
	}
	sum.Rows = n
	if gameDate != "" {
		if sum.DateRows, err = r.count(ctx, BuildCountForDate(r.Database, gameDate)); err != nil {
			return sum, err
		}
	}
	if servingLocation == "" {
		return sum, nil
	}
	if _, err := r.ExecAndWait(ctx, BuildDropShooting(r.Database)); err != nil {
		r.logger().Warn("drop serving table", "table", ShootingTable, "err", err)
	}
	if _, err := r.ExecAndWait(ctx, BuildShootingCTAS(r.Database, servingLocation)); err != nil {
		return sum, fmt.Errorf("materialize %s: %w", ShootingTable, err)
	}
	sum.Materialized = true
	return sum, nil
}

// Package curate turns validated payloads into query-friendly parquet
// objects partitioned by game date.
package curate

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	parquet "github.com/parquet-go/parquet-go"

	"github.com/tyler180/nba-stats-backends/internal/schema"
)

const ContentTypeParquet = "application/octet-stream"

// ActionRow is one play-by-play action flattened for Athena.
type ActionRow struct {
	GameID       string  `parquet:"game_id"`
	ActionNumber int32   `parquet:"action_number"`
	ActionID     int64   `parquet:"action_id"`
	Period       int32   `parquet:"period"`
	Clock        string  `parquet:"clock"`
	TeamID       *int64  `parquet:"team_id,optional"`
	TeamTricode  *string `parquet:"team_tricode,optional"`
	PersonID     *int64  `parquet:"person_id,optional"`
	PlayerName   *string `parquet:"player_name,optional"`
	ActionType   string  `parquet:"action_type"`
	SubType      *string `parquet:"sub_type,optional"`
	Description  string  `parquet:"description"`
	Location     *string `parquet:"location,optional"`
	IsFieldGoal  bool    `parquet:"is_field_goal"`
	ShotDistance *int32  `parquet:"shot_distance,optional"`
	ShotResult   *string `parquet:"shot_result,optional"`
	ScoreHome    *int32  `parquet:"score_home,optional"`
	ScoreAway    *int32  `parquet:"score_away,optional"`
	PointsTotal  int32   `parquet:"points_total"`
}

func strPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func idPtr(n int64) *int64 {
	if n == 0 {
		return nil
	}
	return &n
}

func scorePtr(s string) *int32 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return nil
	}
	v := int32(n)
	return &v
}

// ActionRows flattens rec. Shot fields are only set for field goals.
func ActionRows(rec *schema.PlayByPlayV3) []ActionRow {
	if rec == nil || rec.Game == nil {
		return nil
	}
	out := make([]ActionRow, 0, len(rec.Game.Actions))
	for _, a := range rec.Game.Actions {
		row := ActionRow{
			GameID:       rec.Game.GameID,
			ActionNumber: int32(a.ActionNumber),
			ActionID:     a.ActionID,
			Period:       int32(a.Period),
			Clock:        a.Clock,
			TeamID:       idPtr(a.TeamID),
			TeamTricode:  strPtr(a.TeamTricode),
			PersonID:     idPtr(a.PersonID),
			PlayerName:   strPtr(a.PlayerName),
			ActionType:   a.ActionType,
			SubType:      strPtr(a.SubType),
			Description:  a.Description,
			Location:     strPtr(a.Location),
			IsFieldGoal:  a.IsFieldGoal == 1,
			ScoreHome:    scorePtr(a.ScoreHome),
			ScoreAway:    scorePtr(a.ScoreAway),
			PointsTotal:  int32(a.PointsTotal),
		}
		if row.IsFieldGoal {
			d := int32(a.ShotDistance)
			row.ShotDistance = &d
			row.ShotResult = strPtr(a.ShotResult)
		}
		out = append(out, row)
	}
	return out
}

// EncodeParquet writes rows as one Snappy-compressed parquet file.
func EncodeParquet[T any](rows []T) ([]byte, error) {
	var buf bytes.Buffer
	w := parquet.NewGenericWriter[T](&buf, parquet.Compression(&parquet.Snappy))
	if _, err := w.Write(rows); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PlayByPlayKey is the curated object key for one game.
func PlayByPlayKey(prefix string, date time.Time, gameID string) string {
	return fmt.Sprintf("%s/play_by_play/game_date=%s/%s.parquet",
		strings.Trim(prefix, "/"), date.Format(time.DateOnly), gameID)
}

type BlobPutter interface {
	PutBlob(ctx context.Context, bucket, key string, body []byte, contentType string) error
}

type Curator struct {
	Store  BlobPutter
	Bucket string
	Prefix string
	Logger *slog.Logger
}

// CuratePlayByPlay uploads the game's actions. A game without actions
// writes nothing.
func (c *Curator) CuratePlayByPlay(ctx context.Context, date time.Time, rec *schema.PlayByPlayV3) error {
	rows := ActionRows(rec)
	if len(rows) == 0 {
		return nil
	}
	body, err := EncodeParquet(rows)
	if err != nil {
		return fmt.Errorf("encode parquet: %w", err)
	}
	key := PlayByPlayKey(c.Prefix, date, rec.Game.GameID)
	if err := c.Store.PutBlob(ctx, c.Bucket, key, body, ContentTypeParquet); err != nil {
		return err
	}
	if c.Logger != nil {
		c.Logger.Info("curated play by play", "bucket", c.Bucket, "key", key, "rows", len(rows), "bytes", len(body))
	}
	return nil
}

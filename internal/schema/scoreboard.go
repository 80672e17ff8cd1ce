package schema

import (
	"fmt"
	"time"
)

// Meta is the request echo stats.nba.com attaches to every v3 response.
type Meta struct {
	Version int       `json:"version"`
	Request string    `json:"request"`
	Time    time.Time `json:"time"`
}

func (m *Meta) validate() error {
	if m == nil {
		return required("meta")
	}
	if m.Request == "" {
		return required("meta.request")
	}
	return nil
}

type ScoreboardV3 struct {
	Meta       *Meta            `json:"meta"`
	Scoreboard *DailyScoreboard `json:"scoreboard"`
}

type DailyScoreboard struct {
	GameDate   string           `json:"gameDate"`
	LeagueID   string           `json:"leagueId"`
	LeagueName string           `json:"leagueName"`
	Games      []ScoreboardGame `json:"games"`
}

type ScoreboardGame struct {
	GameID         string              `json:"gameId"`
	GameCode       string              `json:"gameCode"`
	GameStatus     int                 `json:"gameStatus"`
	GameStatusText string              `json:"gameStatusText"`
	Period         int                 `json:"period"`
	GameClock      string              `json:"gameClock"`
	GameTimeUTC    time.Time           `json:"gameTimeUTC"`
	SeriesText     string              `json:"seriesText"`
	PoRoundDesc    string              `json:"poRoundDesc"`
	IfNecessary    bool                `json:"ifNecessary"`
	HomeTeam       *ScoreboardTeamGame `json:"homeTeam"`
	AwayTeam       *ScoreboardTeamGame `json:"awayTeam"`
}

type ScoreboardTeamGame struct {
	TeamID      int64         `json:"teamId"`
	TeamName    string        `json:"teamName"`
	TeamCity    string        `json:"teamCity"`
	TeamTricode string        `json:"teamTricode"`
	Wins        int           `json:"wins"`
	Losses      int           `json:"losses"`
	Score       int           `json:"score"`
	Periods     []PeriodScore `json:"periods"`
}

type PeriodScore struct {
	Period     int    `json:"period"`
	PeriodType string `json:"periodType"`
	Score      int    `json:"score"`
}

func (s *ScoreboardV3) Validate() error {
	if err := s.Meta.validate(); err != nil {
		return err
	}
	if s.Scoreboard == nil {
		return required("scoreboard")
	}
	if _, err := time.Parse(time.DateOnly, s.Scoreboard.GameDate); err != nil {
		return fmt.Errorf("scoreboard.gameDate: %w", err)
	}
	if s.Scoreboard.LeagueID == "" {
		return required("scoreboard.leagueId")
	}
	for i, g := range s.Scoreboard.Games {
		if g.GameID == "" {
			return required(fmt.Sprintf("scoreboard.games[%d].gameId", i))
		}
		if g.HomeTeam == nil || g.AwayTeam == nil {
			return required(fmt.Sprintf("scoreboard.games[%d].homeTeam/awayTeam", i))
		}
	}
	return nil
}

// GameIDs lists the games on the board in payload order.
func (s *ScoreboardV3) GameIDs() []string {
	out := make([]string, 0, len(s.Scoreboard.Games))
	for _, g := range s.Scoreboard.Games {
		out = append(out, g.GameID)
	}
	return out
}

// ParseScoreboard validates a scoreboardv3 payload.
func ParseScoreboard(p Payload) (*ScoreboardV3, error) {
	return parse[ScoreboardV3]("scoreboardv3", p)
}

package schema

import (
	"fmt"
	"slices"
	"time"
)

type BoxScoreSummaryV3 struct {
	Meta            *Meta            `json:"meta"`
	BoxScoreSummary *BoxScoreSummary `json:"boxScoreSummary"`
}

type BoxScoreSummary struct {
	GameID           string          `json:"gameId"`
	GameCode         string          `json:"gameCode"`
	GameStatus       int             `json:"gameStatus"`
	GameStatusText   string          `json:"gameStatusText"`
	Period           int             `json:"period"`
	GameClock        string          `json:"gameClock"`
	GameTimeUTC      time.Time       `json:"gameTimeUTC"`
	AwayTeamID       *int64          `json:"awayTeamId"`
	HomeTeamID       *int64          `json:"homeTeamId"`
	Duration         string          `json:"duration"`
	Attendance       int             `json:"attendance"`
	Sellout          int             `json:"sellout"`
	SeriesGameNumber string          `json:"seriesGameNumber"`
	SeriesText       string          `json:"seriesText"`
	IfNecessary      bool            `json:"ifNecessary"`
	Arena            *Arena          `json:"arena"`
	Officials        []Official      `json:"officials"`
	HomeTeam         *TeamGameTotals `json:"homeTeam"`
	AwayTeam         *TeamGameTotals `json:"awayTeam"`
	GameSubtype      string          `json:"gameSubtype"`
}

type Arena struct {
	ArenaID       int64  `json:"arenaId"`
	ArenaName     string `json:"arenaName"`
	ArenaCity     string `json:"arenaCity"`
	ArenaState    string `json:"arenaState"`
	ArenaCountry  string `json:"arenaCountry"`
	ArenaTimezone string `json:"arenaTimezone"`
}

type Official struct {
	PersonID   int64  `json:"personId"`
	Name       string `json:"name"`
	JerseyNum  string `json:"jerseyNum"`
	Assignment string `json:"assignment"`
}

// TeamGameTotals is one side of a box score summary.
type TeamGameTotals struct {
	TeamID      int64         `json:"teamId"`
	TeamName    string        `json:"teamName"`
	TeamCity    string        `json:"teamCity"`
	TeamTricode string        `json:"teamTricode"`
	TeamSlug    string        `json:"teamSlug"`
	TeamWins    int           `json:"teamWins"`
	TeamLosses  int           `json:"teamLosses"`
	Score       int           `json:"score"`
	Periods     []PeriodScore `json:"periods"`
	Players     []GamePlayer  `json:"players"`
	Inactives   []GamePlayer  `json:"inactives"`
}

type GamePlayer struct {
	PersonID   int64  `json:"personId"`
	FirstName  string `json:"firstName"`
	FamilyName string `json:"familyName"`
	JerseyNum  string `json:"jerseyNum"`
	Name       string `json:"name,omitempty"`
	NameI      string `json:"nameI,omitempty"`
}

func (b *BoxScoreSummaryV3) Validate() error {
	if err := b.Meta.validate(); err != nil {
		return err
	}
	s := b.BoxScoreSummary
	if s == nil {
		return required("boxScoreSummary")
	}
	if s.GameID == "" {
		return required("boxScoreSummary.gameId")
	}
	if s.HomeTeam == nil {
		return required("boxScoreSummary.homeTeam")
	}
	if s.AwayTeam == nil {
		return required("boxScoreSummary.awayTeam")
	}
	if err := s.HomeTeam.validate("boxScoreSummary.homeTeam"); err != nil {
		return err
	}
	return s.AwayTeam.validate("boxScoreSummary.awayTeam")
}

func (t *TeamGameTotals) validate(path string) error {
	for i, p := range t.Players {
		if p.PersonID <= 0 {
			return required(fmt.Sprintf("%s.players[%d].personId", path, i))
		}
	}
	for i, p := range t.Inactives {
		if p.PersonID <= 0 {
			return required(fmt.Sprintf("%s.inactives[%d].personId", path, i))
		}
	}
	return nil
}

// TeamIDs returns the away and home team ids; either is nil when the
// summary does not carry it.
func (b *BoxScoreSummaryV3) TeamIDs() (away, home *int64) {
	if b == nil || b.BoxScoreSummary == nil {
		return nil, nil
	}
	return b.BoxScoreSummary.AwayTeamID, b.BoxScoreSummary.HomeTeamID
}

// RosterIDs returns the active and inactive player ids of each side, sorted
// ascending with duplicates removed.
func (b *BoxScoreSummaryV3) RosterIDs() (away, home []int64) {
	if b == nil || b.BoxScoreSummary == nil {
		return nil, nil
	}
	return b.BoxScoreSummary.AwayTeam.personIDs(), b.BoxScoreSummary.HomeTeam.personIDs()
}

func (t *TeamGameTotals) personIDs() []int64 {
	if t == nil {
		return nil
	}
	ids := make([]int64, 0, len(t.Players)+len(t.Inactives))
	for _, p := range t.Players {
		ids = append(ids, p.PersonID)
	}
	for _, p := range t.Inactives {
		ids = append(ids, p.PersonID)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// ParseBoxScoreSummary validates a boxscoresummaryv3 payload.
func ParseBoxScoreSummary(p Payload) (*BoxScoreSummaryV3, error) {
	return parse[BoxScoreSummaryV3]("boxscoresummaryv3", p)
}

package schema

import "errors"

type CommonPlayerInfo struct {
	Resource   string           `json:"resource"`
	Parameters []map[string]any `json:"parameters"`
	ResultSets []ResultSet      `json:"resultSets"`
}

var playerInfoHeaders = map[string][]string{
	"CommonPlayerInfo": {
		"PERSON_ID", "FIRST_NAME", "LAST_NAME", "DISPLAY_FIRST_LAST", "DISPLAY_LAST_COMMA_FIRST",
		"DISPLAY_FI_LAST", "PLAYER_SLUG", "BIRTHDATE", "SCHOOL", "COUNTRY", "LAST_AFFILIATION",
		"HEIGHT", "WEIGHT", "SEASON_EXP", "JERSEY", "POSITION", "ROSTERSTATUS",
		"GAMES_PLAYED_CURRENT_SEASON_FLAG", "TEAM_ID", "TEAM_NAME", "TEAM_ABBREVIATION", "TEAM_CODE",
		"TEAM_CITY", "PLAYERCODE", "FROM_YEAR", "TO_YEAR", "DLEAGUE_FLAG", "NBA_FLAG",
		"GAMES_PLAYED_FLAG", "DRAFT_YEAR", "DRAFT_ROUND", "DRAFT_NUMBER", "GREATEST_75_FLAG",
	},
	"PlayerHeadlineStats": {"PLAYER_ID", "PLAYER_NAME", "TimeFrame", "PTS", "AST", "REB", "ALL_STAR_APPEARANCES"},
	"AvailableSeasons":    {"SEASON_ID"},
}

func (c *CommonPlayerInfo) Validate() error {
	if c.Parameters == nil {
		return required("parameters")
	}
	if c.ResultSets == nil {
		return required("resultSets")
	}
	for _, rs := range c.ResultSets {
		if err := rs.validate("resultSets."+rs.Name, playerInfoHeaders); err != nil {
			return err
		}
	}
	return nil
}

// PlayerSummary is the CommonPlayerInfo row reduced to identity fields.
type PlayerSummary struct {
	PersonID    int64
	DisplayName string
	Position    string
	TeamID      int64
	TeamTricode string
	FromYear    int64
	ToYear      int64
}

// Player returns the first CommonPlayerInfo row.
func (c *CommonPlayerInfo) Player() (PlayerSummary, error) {
	rs, ok := findResultSet(c.ResultSets, "CommonPlayerInfo")
	if !ok || len(rs.RowSet) == 0 {
		return PlayerSummary{}, errors.New("commonplayerinfo: no CommonPlayerInfo row")
	}
	row := rs.Rows()[0]
	return PlayerSummary{
		PersonID:    cellInt(row["PERSON_ID"]),
		DisplayName: cellString(row["DISPLAY_FIRST_LAST"]),
		Position:    cellString(row["POSITION"]),
		TeamID:      cellInt(row["TEAM_ID"]),
		TeamTricode: cellString(row["TEAM_ABBREVIATION"]),
		FromYear:    cellInt(row["FROM_YEAR"]),
		ToYear:      cellInt(row["TO_YEAR"]),
	}, nil
}

// ParseCommonPlayerInfo validates a commonplayerinfo payload.
func ParseCommonPlayerInfo(p Payload) (*CommonPlayerInfo, error) {
	return parse[CommonPlayerInfo]("commonplayerinfo", p)
}

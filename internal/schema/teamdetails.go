package schema

import "errors"

type TeamDetails struct {
	Resource   string             `json:"resource"`
	Parameters *TeamDetailsParams `json:"parameters"`
	ResultSets []ResultSet        `json:"resultSets"`
}

type TeamDetailsParams struct {
	TeamID int64 `json:"TeamID"`
}

var awardHeaders = []string{"YEARAWARDED", "OPPOSITETEAM"}
var personHeaders = []string{"PLAYERID", "PLAYER", "POSITION", "JERSEY", "SEASONSWITHTEAM", "YEAR"}

var teamDetailsHeaders = map[string][]string{
	"TeamBackground": {
		"TEAM_ID", "ABBREVIATION", "NICKNAME", "YEARFOUNDED", "CITY", "ARENA", "ARENACAPACITY",
		"OWNER", "GENERALMANAGER", "HEADCOACH", "DLEAGUEAFFILIATION",
	},
	"TeamHistory":             {"TEAM_ID", "CITY", "NICKNAME", "YEARFOUNDED", "YEARACTIVETILL"},
	"TeamSocialSites":         {"ACCOUNTTYPE", "WEBSITE_LINK"},
	"TeamAwardsChampionships": awardHeaders,
	"TeamAwardsConf":          awardHeaders,
	"TeamAwardsDiv":           awardHeaders,
	"TeamHof":                 personHeaders,
	"TeamRetired":             personHeaders,
}

func (t *TeamDetails) Validate() error {
	if t.Parameters == nil {
		return required("parameters")
	}
	if t.Parameters.TeamID <= 0 {
		return required("parameters.TeamID")
	}
	if t.ResultSets == nil {
		return required("resultSets")
	}
	for _, rs := range t.ResultSets {
		if err := rs.validate("resultSets."+rs.Name, teamDetailsHeaders); err != nil {
			return err
		}
	}
	return nil
}

// TeamBackground is the single TeamBackground row.
type TeamBackground struct {
	TeamID       int64
	Abbreviation string
	Nickname     string
	YearFounded  int64
	City         string
	Arena        string
	HeadCoach    string
}

func (t *TeamDetails) Background() (TeamBackground, error) {
	rs, ok := findResultSet(t.ResultSets, "TeamBackground")
	if !ok || len(rs.RowSet) == 0 {
		return TeamBackground{}, errors.New("teamdetails: no TeamBackground row")
	}
	row := rs.Rows()[0]
	return TeamBackground{
		TeamID:       cellInt(row["TEAM_ID"]),
		Abbreviation: cellString(row["ABBREVIATION"]),
		Nickname:     cellString(row["NICKNAME"]),
		YearFounded:  cellInt(row["YEARFOUNDED"]),
		City:         cellString(row["CITY"]),
		Arena:        cellString(row["ARENA"]),
		HeadCoach:    cellString(row["HEADCOACH"]),
	}, nil
}

// ParseTeamDetails validates a teamdetails payload.
func ParseTeamDetails(p Payload) (*TeamDetails, error) {
	return parse[TeamDetails]("teamdetails", p)
}

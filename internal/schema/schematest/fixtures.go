// Package schematest builds small but valid stats.nba.com payloads for tests.
package schematest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tyler180/nba-stats-backends/internal/schema"
)

func mustPayload(s string) schema.Payload {
	p, err := schema.DecodePayload([]byte(s))
	if err != nil {
		panic(fmt.Sprintf("schematest: %v\n%s", err, s))
	}
	return p
}

func meta(request string) string {
	return fmt.Sprintf(`{"version":1,"request":%q,"time":"2022-05-30T03:21:35.123Z"}`, request)
}

// Scoreboard returns a scoreboardv3 payload for date (YYYY-MM-DD).
func Scoreboard(date, leagueID string, gameIDs ...string) schema.Payload {
	games := make([]string, 0, len(gameIDs))
	for _, id := range gameIDs {
		games = append(games, fmt.Sprintf(`{
			"gameId":%q,"gameCode":"20220529/BOSMIA","gameStatus":3,"gameStatusText":"Final",
			"period":4,"gameClock":"","gameTimeUTC":"2022-05-30T00:30:00Z",
			"homeTeam":{"teamId":1610612748,"teamName":"Heat","teamCity":"Miami","teamTricode":"MIA","wins":3,"losses":4,"score":96,"periods":[]},
			"awayTeam":{"teamId":1610612738,"teamName":"Celtics","teamCity":"Boston","teamTricode":"BOS","wins":4,"losses":3,"score":100,"periods":[]}
		}`, id))
	}
	return mustPayload(fmt.Sprintf(`{"meta":%s,"scoreboard":{"gameDate":%q,"leagueId":%q,"leagueName":"National Basketball Association","games":[%s]}}`,
		meta("http://nba.cloud/league/00/2022/05/29/scoreboard.json"), date, leagueID, strings.Join(games, ",")))
}

// Team describes one side of a box score fixture.
type Team struct {
	ID        int64
	Tricode   string
	Players   []int64
	Inactives []int64
}

// BoxScore returns a boxscoresummaryv3 payload. A zero team id is omitted
// from awayTeamId/homeTeamId.
func BoxScore(gameID string, away, home Team) schema.Payload {
	summary := map[string]any{
		"gameId":         gameID,
		"gameCode":       "20100617/BOSLAL",
		"gameStatus":     3,
		"gameStatusText": "Final",
		"period":         4,
		"homeTeam":       teamTotals(home),
		"awayTeam":       teamTotals(away),
	}
	if away.ID != 0 {
		summary["awayTeamId"] = away.ID
	}
	if home.ID != 0 {
		summary["homeTeamId"] = home.ID
	}
	b, err := json.Marshal(map[string]any{
		"meta":            json.RawMessage(meta("https://stats.nba.com/stats/boxscoresummaryv3?GameID=" + gameID)),
		"boxScoreSummary": summary,
	})
	if err != nil {
		panic(err)
	}
	return mustPayload(string(b))
}

func teamTotals(t Team) map[string]any {
	players := make([]map[string]any, 0, len(t.Players))
	for _, id := range t.Players {
		players = append(players, map[string]any{
			"personId": id, "firstName": "First", "familyName": fmt.Sprintf("P%d", id),
			"jerseyNum": "7", "name": fmt.Sprintf("First P%d", id), "nameI": fmt.Sprintf("F. P%d", id),
		})
	}
	inactives := make([]map[string]any, 0, len(t.Inactives))
	for _, id := range t.Inactives {
		inactives = append(inactives, map[string]any{
			"personId": id, "firstName": "First", "familyName": fmt.Sprintf("I%d", id), "jerseyNum": "0",
		})
	}
	return map[string]any{
		"teamId": t.ID, "teamName": "Team", "teamCity": "City", "teamTricode": t.Tricode,
		"teamSlug": strings.ToLower(t.Tricode), "teamWins": 4, "teamLosses": 3, "score": 83,
		"periods": []any{}, "players": players, "inactives": inactives,
	}
}

// Roster returns n consecutive player ids starting at first.
func Roster(first int64, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = first + int64(i)
	}
	return out
}

// PlayByPlay returns a playbyplayv3 payload with n jump-ball style actions.
func PlayByPlay(gameID string, n int) schema.Payload {
	actions := make([]map[string]any, 0, n)
	for i := 1; i <= n; i++ {
		actions = append(actions, map[string]any{
			"actionNumber": i, "clock": "PT12M00.00S", "period": 1 + (i-1)/100,
			"teamId": 1610612747, "teamTricode": "LAL", "personId": 977, "playerName": "Bryant",
			"playerNameI": "K. Bryant", "location": "h", "description": fmt.Sprintf("action %d", i),
			"actionType": "Made Shot", "subType": "Jump Shot", "videoAvailable": 0, "actionId": i,
			"shotDistance": 18, "shotResult": "Made", "isFieldGoal": 1, "scoreHome": "2", "scoreAway": "0",
			"pointsTotal": 2,
		})
	}
	b, err := json.Marshal(map[string]any{
		"meta": json.RawMessage(meta("https://stats.nba.com/stats/playbyplayv3?GameID=" + gameID)),
		"game": map[string]any{"gameId": gameID, "videoAvailable": 0, "actions": actions},
	})
	if err != nil {
		panic(err)
	}
	return mustPayload(string(b))
}

// PlayerInfo returns a commonplayerinfo payload for playerID.
func PlayerInfo(playerID int64) schema.Payload {
	row := []any{
		playerID, "Kobe", "Bryant", "Kobe Bryant", "Bryant, Kobe", "K. Bryant", "kobe-bryant",
		"1978-08-23T00:00:00", "Lower Merion HS (PA)", "USA", "Lower Merion HS (PA)/USA", "6-6", "212",
		20, "24", "Forward-Guard", "Inactive", "N", 1610612747, "Lakers", "LAL", "lakers", "Los Angeles",
		"kobe_bryant", 1996, 2015, "N", "Y", "Y", "1996", "1", "13", "Y",
	}
	b, err := json.Marshal(map[string]any{
		"resource":   "commonplayerinfo",
		"parameters": []any{map[string]any{"PlayerID": playerID}, map[string]any{"LeagueID": nil}},
		"resultSets": []any{
			map[string]any{"name": "CommonPlayerInfo", "headers": playerInfoHeaders, "rowSet": []any{row}},
			map[string]any{"name": "AvailableSeasons", "headers": []string{"SEASON_ID"}, "rowSet": []any{[]any{"22015"}}},
		},
	})
	if err != nil {
		panic(err)
	}
	return mustPayload(string(b))
}

var playerInfoHeaders = []string{
	"PERSON_ID", "FIRST_NAME", "LAST_NAME", "DISPLAY_FIRST_LAST", "DISPLAY_LAST_COMMA_FIRST",
	"DISPLAY_FI_LAST", "PLAYER_SLUG", "BIRTHDATE", "SCHOOL", "COUNTRY", "LAST_AFFILIATION",
	"HEIGHT", "WEIGHT", "SEASON_EXP", "JERSEY", "POSITION", "ROSTERSTATUS",
	"GAMES_PLAYED_CURRENT_SEASON_FLAG", "TEAM_ID", "TEAM_NAME", "TEAM_ABBREVIATION", "TEAM_CODE",
	"TEAM_CITY", "PLAYERCODE", "FROM_YEAR", "TO_YEAR", "DLEAGUE_FLAG", "NBA_FLAG",
	"GAMES_PLAYED_FLAG", "DRAFT_YEAR", "DRAFT_ROUND", "DRAFT_NUMBER", "GREATEST_75_FLAG",
}

// TeamDetails returns a teamdetails payload for teamID.
func TeamDetails(teamID int64) schema.Payload {
	b, err := json.Marshal(map[string]any{
		"resource":   "teamdetails",
		"parameters": map[string]any{"TeamID": teamID},
		"resultSets": []any{
			map[string]any{
				"name": "TeamBackground",
				"headers": []string{
					"TEAM_ID", "ABBREVIATION", "NICKNAME", "YEARFOUNDED", "CITY", "ARENA", "ARENACAPACITY",
					"OWNER", "GENERALMANAGER", "HEADCOACH", "DLEAGUEAFFILIATION",
				},
				"rowSet": []any{[]any{teamID, "LAL", "Lakers", 1948, "Los Angeles", "Crypto.com Arena", "19060",
					"Jeanie Buss", "Rob Pelinka", "JJ Redick", "South Bay Lakers"}},
			},
			map[string]any{
				"name":    "TeamAwardsChampionships",
				"headers": []string{"YEARAWARDED", "OPPOSITETEAM"},
				"rowSet":  []any{[]any{2010, "Boston Celtics"}},
			},
		},
	})
	if err != nil {
		panic(err)
	}
	return mustPayload(string(b))
}

// Package nbastats talks to the stats.nba.com API: the resource registry,
// the HTTP client and the per-resource endpoints that memoize a payload.
package nbastats

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Kind names a resource family. It doubles as the source name in logs and
// ledgers.
type Kind string

const (
	BoxScoreSummary  Kind = "boxscore_summary"
	CommonPlayerInfo Kind = "common_player_info"
	PlayByPlay       Kind = "play_by_play"
	Scoreboard       Kind = "scoreboard"
	TeamDetails      Kind = "team_details"
)

// Resource ties a kind to its remote endpoint path and default bucket.
type Resource struct {
	Kind     Kind
	Bucket   string
	Endpoint string
}

var registry = map[Kind]Resource{
	BoxScoreSummary:  {Kind: BoxScoreSummary, Bucket: "boxscoresummary", Endpoint: "boxscoresummaryv3"},
	CommonPlayerInfo: {Kind: CommonPlayerInfo, Bucket: "commonplayerinfo", Endpoint: "commonplayerinfo"},
	PlayByPlay:       {Kind: PlayByPlay, Bucket: "playbyplay", Endpoint: "playbyplayv3"},
	Scoreboard:       {Kind: Scoreboard, Bucket: "scoreboard", Endpoint: "scoreboardv3"},
	TeamDetails:      {Kind: TeamDetails, Bucket: "teamdetails", Endpoint: "teamdetails"},
}

// Lookup returns the registered resource for k.
func Lookup(k Kind) (Resource, bool) {
	r, ok := registry[k]
	return r, ok
}

// Resources lists every registered resource ordered by kind.
func Resources() []Resource {
	out := make([]Resource, 0, len(registry))
	for _, r := range registry {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Resource) int { return strings.Compare(string(a.Kind), string(b.Kind)) })
	return out
}

func mustLookup(k Kind) Resource {
	r, ok := registry[k]
	if !ok {
		panic(fmt.Sprintf("nbastats: unregistered kind %q", k))
	}
	return r
}

// Request is an immutable resource request: which endpoint and which query
// parameters.
type Request struct {
	resource Resource
	query    url.Values
}

func newRequest(k Kind, query url.Values) Request {
	return Request{resource: mustLookup(k), query: query}
}

func (r Request) Resource() Resource { return r.resource }

// Query returns a copy of the query parameters.
func (r Request) Query() url.Values {
	out := make(url.Values, len(r.query))
	for k, v := range r.query {
		out[k] = slices.Clone(v)
	}
	return out
}

// Params flattens the query for logs and ledgers.
func (r Request) Params() map[string]string {
	out := make(map[string]string, len(r.query))
	for k := range r.query {
		out[k] = r.query.Get(k)
	}
	return out
}

func (r Request) String() string {
	return r.resource.Endpoint + "?" + r.query.Encode()
}

// ScoreboardRequest asks for the scoreboard of one day in one league.
func ScoreboardRequest(date time.Time, leagueID string) Request {
	return newRequest(Scoreboard, url.Values{
		"GameDate": {date.Format(time.DateOnly)},
		"LeagueID": {leagueID},
	})
}

func BoxScoreSummaryRequest(gameID string) Request {
	return newRequest(BoxScoreSummary, url.Values{"GameID": {gameID}})
}

// PlayByPlayRequest asks for the actions between two periods; 0 and 0 means
// the whole game.
func PlayByPlayRequest(gameID string, startPeriod, endPeriod int) Request {
	return newRequest(PlayByPlay, url.Values{
		"GameID":      {gameID},
		"StartPeriod": {strconv.Itoa(startPeriod)},
		"EndPeriod":   {strconv.Itoa(endPeriod)},
	})
}

func PlayerInfoRequest(playerID int64) Request {
	return newRequest(CommonPlayerInfo, url.Values{"PlayerID": {strconv.FormatInt(playerID, 10)}})
}

func TeamDetailsRequest(teamID int64) Request {
	return newRequest(TeamDetails, url.Values{"TeamID": {strconv.FormatInt(teamID, 10)}})
}

package nbastats

import (
	"context"
	"fmt"
	"time"

	"github.com/tyler180/nba-stats-backends/internal/schema"
)

// Endpoint binds one Request to a Sender and a validator. It holds at most
// one payload: the last remote result or whatever the caller adopted from
// storage with SetCurrentData.
type Endpoint[T any] struct {
	sender Sender
	req    Request
	parse  func(schema.Payload) (*T, error)

	data     schema.Payload
	resolved bool
	// err is a decode failure of the last 200 body, returned until a forced
	// call or SetCurrentData replaces it.
	err  error
	last *Outcome
}

func NewEndpoint[T any](sender Sender, req Request, parse func(schema.Payload) (*T, error)) *Endpoint[T] {
	return &Endpoint[T]{sender: sender, req: req, parse: parse}
}

func NewScoreboard(s Sender, date time.Time, leagueID string) *Endpoint[schema.ScoreboardV3] {
	return NewEndpoint(s, ScoreboardRequest(date, leagueID), schema.ParseScoreboard)
}

func NewBoxScoreSummary(s Sender, gameID string) *Endpoint[schema.BoxScoreSummaryV3] {
	return NewEndpoint(s, BoxScoreSummaryRequest(gameID), schema.ParseBoxScoreSummary)
}

func NewPlayByPlay(s Sender, gameID string) *Endpoint[schema.PlayByPlayV3] {
	return NewEndpoint(s, PlayByPlayRequest(gameID, 0, 0), schema.ParsePlayByPlay)
}

func NewPlayerInfo(s Sender, playerID int64) *Endpoint[schema.CommonPlayerInfo] {
	return NewEndpoint(s, PlayerInfoRequest(playerID), schema.ParseCommonPlayerInfo)
}

func NewTeamDetails(s Sender, teamID int64) *Endpoint[schema.TeamDetails] {
	return NewEndpoint(s, TeamDetailsRequest(teamID), schema.ParseTeamDetails)
}

func (e *Endpoint[T]) Request() Request { return e.req }

// Dict returns the raw payload, calling the remote when nothing has been
// resolved yet or when force is set. A failed send yields an empty payload.
// A 200 body that is not a JSON object is an error, and stays one for
// later calls without force.
func (e *Endpoint[T]) Dict(ctx context.Context, force bool) (schema.Payload, error) {
	if e.resolved && !force {
		return e.data, e.err
	}
	out := e.sender.Send(ctx, e.req)
	e.last = &out
	e.resolved = true
	e.data = schema.Payload{}
	e.err = nil
	if !out.OK {
		return e.data, nil
	}
	p, err := schema.DecodePayload(out.Body)
	if err != nil {
		e.err = fmt.Errorf("%s: %w", e.req.resource.Endpoint, err)
		return e.data, e.err
	}
	e.data = p
	return e.data, nil
}

// Record validates the current payload. An empty payload gives (nil, nil)
// and the validator is not run.
func (e *Endpoint[T]) Record(ctx context.Context, force bool) (*T, error) {
	data, err := e.Dict(ctx, force)
	if err != nil {
		return nil, err
	}
	if data.Empty() {
		return nil, nil
	}
	return e.parse(data)
}

// SetCurrentData adopts a payload read from storage; later Dict calls
// without force return it instead of calling the remote.
func (e *Endpoint[T]) SetCurrentData(p schema.Payload) {
	if p == nil {
		p = schema.Payload{}
	}
	e.data = p
	e.err = nil
	e.resolved = true
}

func (e *Endpoint[T]) CurrentData() schema.Payload { return e.data }

// LastOutcome reports the most recent remote send, if any.
func (e *Endpoint[T]) LastOutcome() (Outcome, bool) {
	if e.last == nil {
		return Outcome{}, false
	}
	return *e.last, true
}

package nbastats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tyler180/nba-stats-backends/internal/schema"
	"github.com/tyler180/nba-stats-backends/internal/schema/schematest"
)

type stubSender struct {
	out   Outcome
	calls []Request
}

func (s *stubSender) Send(_ context.Context, req Request) Outcome {
	s.calls = append(s.calls, req)
	return s.out
}

func okBody(t *testing.T, p schema.Payload) Outcome {
	t.Helper()
	b, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}
	return Outcome{OK: true, Status: 200, Body: b}
}

func TestEndpoint_MemoizesUntilForced(t *testing.T) {
	s := &stubSender{out: okBody(t, schematest.TeamDetails(1610612747))}
	ep := NewTeamDetails(s, 1610612747)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := ep.Dict(ctx, false); err != nil {
			t.Fatal(err)
		}
	}
	if len(s.calls) != 1 {
		t.Fatalf("remote calls = %d want 1", len(s.calls))
	}
	if _, err := ep.Dict(ctx, true); err != nil {
		t.Fatal(err)
	}
	if len(s.calls) != 2 {
		t.Fatalf("forced remote calls = %d want 2", len(s.calls))
	}
}

func TestEndpoint_FailureGivesEmptyAndNilRecord(t *testing.T) {
	s := &stubSender{out: Outcome{Status: 500, Err: errors.New("status 500")}}
	validated := false
	ep := NewEndpoint(s, BoxScoreSummaryRequest("0040900407"), func(p schema.Payload) (*schema.BoxScoreSummaryV3, error) {
		validated = true
		return schema.ParseBoxScoreSummary(p)
	})

	rec, err := ep.Record(context.Background(), false)
	if err != nil || rec != nil {
		t.Fatalf("got %v, %v want nil, nil", rec, err)
	}
	if validated {
		t.Fatal("validator ran on empty payload")
	}
	if !ep.CurrentData().Empty() {
		t.Fatalf("current data %v", ep.CurrentData())
	}
	out, ok := ep.LastOutcome()
	if !ok || out.OK {
		t.Fatalf("last outcome %+v %v", out, ok)
	}
}

func TestEndpoint_SetCurrentDataSkipsRemote(t *testing.T) {
	s := &stubSender{out: Outcome{Err: errors.New("should not be called")}}
	ep := NewPlayerInfo(s, 977)
	ep.SetCurrentData(schematest.PlayerInfo(977))

	rec, err := ep.Record(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil || len(rec.ResultSets) != 2 {
		t.Fatalf("record %+v", rec)
	}
	if len(s.calls) != 0 {
		t.Fatalf("remote called %d times", len(s.calls))
	}
	if _, ok := ep.LastOutcome(); ok {
		t.Fatal("no outcome expected before a send")
	}
}

func TestEndpoint_NonObjectBody(t *testing.T) {
	s := &stubSender{out: Outcome{OK: true, Status: 200, Body: []byte(`[1,2,3]`)}}
	ep := NewScoreboard(s, time.Date(2022, 5, 29, 0, 0, 0, 0, time.UTC), "00")
	ctx := context.Background()
	if _, err := ep.Dict(ctx, false); err == nil {
		t.Fatal("expected decode error")
	}
	rec, err := ep.Record(ctx, false)
	if err == nil || rec != nil {
		t.Fatalf("record after bad body: %v, %v want error", rec, err)
	}
	if len(s.calls) != 1 {
		t.Fatalf("remote calls %d want 1", len(s.calls))
	}

	s.out = okBody(t, schematest.Scoreboard("2022-05-29", "00"))
	if _, err := ep.Record(ctx, true); err != nil {
		t.Fatalf("forced record: %v", err)
	}
}

func TestEndpoint_ValidationErrorPropagates(t *testing.T) {
	s := &stubSender{out: Outcome{OK: true, Status: 200, Body: []byte(`{"meta":{"request":"x"}}`)}}
	ep := NewPlayByPlay(s, "0040900407")
	_, err := ep.Record(context.Background(), false)
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRequestParams(t *testing.T) {
	cases := []struct {
		req  Request
		kind Kind
		want map[string]string
	}{
		{ScoreboardRequest(time.Date(2022, 5, 29, 0, 0, 0, 0, time.UTC), "00"), Scoreboard, map[string]string{"GameDate": "2022-05-29", "LeagueID": "00"}},
		{BoxScoreSummaryRequest("0040900407"), BoxScoreSummary, map[string]string{"GameID": "0040900407"}},
		{PlayByPlayRequest("0040900407", 0, 0), PlayByPlay, map[string]string{"GameID": "0040900407", "StartPeriod": "0", "EndPeriod": "0"}},
		{PlayerInfoRequest(977), CommonPlayerInfo, map[string]string{"PlayerID": "977"}},
		{TeamDetailsRequest(1610612747), TeamDetails, map[string]string{"TeamID": "1610612747"}},
	}
	for _, tc := range cases {
		if tc.req.Resource().Kind != tc.kind {
			t.Fatalf("kind %s want %s", tc.req.Resource().Kind, tc.kind)
		}
		got := tc.req.Params()
		if len(got) != len(tc.want) {
			t.Fatalf("%s params %v want %v", tc.kind, got, tc.want)
		}
		for k, v := range tc.want {
			if got[k] != v {
				t.Fatalf("%s param %s = %q want %q", tc.kind, k, got[k], v)
			}
		}
	}
}

func TestRequestQueryIsCopy(t *testing.T) {
	req := BoxScoreSummaryRequest("0040900407")
	q := req.Query()
	q.Set("GameID", "changed")
	if req.Params()["GameID"] != "0040900407" {
		t.Fatal("request mutated through Query copy")
	}
}

func TestRegistry(t *testing.T) {
	want := map[Kind][2]string{
		BoxScoreSummary:  {"boxscoresummary", "boxscoresummaryv3"},
		CommonPlayerInfo: {"commonplayerinfo", "commonplayerinfo"},
		PlayByPlay:       {"playbyplay", "playbyplayv3"},
		Scoreboard:       {"scoreboard", "scoreboardv3"},
		TeamDetails:      {"teamdetails", "teamdetails"},
	}
	rs := Resources()
	if len(rs) != len(want) {
		t.Fatalf("resources %d want %d", len(rs), len(want))
	}
	for _, r := range rs {
		w := want[r.Kind]
		if r.Bucket != w[0] || r.Endpoint != w[1] {
			t.Fatalf("%s: got %s/%s want %s/%s", r.Kind, r.Bucket, r.Endpoint, w[0], w[1])
		}
	}
}

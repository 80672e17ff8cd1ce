package catalog

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
)

type fakeAthena struct {
	sqls   []string
	failOn string
	counts [][2]string // first sql substring match gives the count cell
	polls  int
}

func (f *fakeAthena) StartQueryExecution(_ context.Context, in *athena.StartQueryExecutionInput, _ ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error) {
	f.sqls = append(f.sqls, aws.ToString(in.QueryString))
	return &athena.StartQueryExecutionOutput{QueryExecutionId: aws.String(fmt.Sprint(len(f.sqls) - 1))}, nil
}

func (f *fakeAthena) sqlFor(qid *string) string {
	var i int
	fmt.Sscan(aws.ToString(qid), &i)
	return f.sqls[i]
}

func (f *fakeAthena) GetQueryExecution(_ context.Context, in *athena.GetQueryExecutionInput, _ ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error) {
	f.polls++
	state := types.QueryExecutionStateSucceeded
	var reason *string
	if f.failOn != "" && strings.Contains(f.sqlFor(in.QueryExecutionId), f.failOn) {
		state = types.QueryExecutionStateFailed
		reason = aws.String("SYNTAX_ERROR")
	}
	return &athena.GetQueryExecutionOutput{QueryExecution: &types.QueryExecution{
		QueryExecutionId: in.QueryExecutionId,
		Status:           &types.QueryExecutionStatus{State: state, StateChangeReason: reason},
	}}, nil
}

func (f *fakeAthena) GetQueryResults(_ context.Context, in *athena.GetQueryResultsInput, _ ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error) {
	sql := f.sqlFor(in.QueryExecutionId)
	cell := "0"
	for _, c := range f.counts {
		if strings.Contains(sql, c[0]) {
			cell = c[1]
			break
		}
	}
	return &athena.GetQueryResultsOutput{ResultSet: &types.ResultSet{Rows: []types.Row{
		{Data: []types.Datum{{VarCharValue: aws.String("c")}}},
		{Data: []types.Datum{{VarCharValue: aws.String(cell)}}},
	}}}, nil
}

func newRunner(f *fakeAthena) *Runner {
	return &Runner{Client: f, Database: "nba_stats", Workgroup: "primary", OutputS3: "s3://results/", Poll: time.Millisecond}
}

func TestRegister_CreatesRepairsCounts(t *testing.T) {
	f := &fakeAthena{counts: [][2]string{
		{"game_date='2010-06-17'", "455"},
		{"COUNT(*) AS c FROM nba_stats.play_by_play_actions", "1200"},
	}}
	loc := ActionsLocation("nba-curated", "/curated/")
	sum, err := Register(context.Background(), newRunner(f), loc, "2010-06-17", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if loc != "s3://nba-curated/curated/play_by_play/" {
		t.Fatalf("location %s", loc)
	}
	if sum.Rows != 1200 || sum.DateRows != 455 || sum.Materialized {
		t.Fatalf("summary %+v", sum)
	}
	if len(f.sqls) != 4 {
		t.Fatalf("queries %d want 4: %v", len(f.sqls), f.sqls)
	}
	if !strings.Contains(f.sqls[0], "CREATE EXTERNAL TABLE IF NOT EXISTS nba_stats.play_by_play_actions") ||
		!strings.Contains(f.sqls[0], "PARTITIONED BY (game_date string)") ||
		!strings.Contains(f.sqls[0], "LOCATION 's3://nba-curated/curated/play_by_play/'") {
		t.Fatalf("create sql:\n%s", f.sqls[0])
	}
	if f.sqls[1] != "MSCK REPAIR TABLE nba_stats.play_by_play_actions" {
		t.Fatalf("repair sql %q", f.sqls[1])
	}
}

func TestRegister_Materializes(t *testing.T) {
	f := &fakeAthena{failOn: "DROP TABLE"}
	sum, err := Register(context.Background(), newRunner(f), ActionsLocation("b", ""), "", "s3://b/serve/shooting/")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !sum.Materialized {
		t.Fatal("expected materialized")
	}
	last := f.sqls[len(f.sqls)-1]
	if !strings.Contains(last, "CREATE TABLE nba_stats.player_shooting_by_game") ||
		!strings.Contains(last, "external_location = 's3://b/serve/shooting'") {
		t.Fatalf("ctas:\n%s", last)
	}
}

func TestRegister_CreateFails(t *testing.T) {
	f := &fakeAthena{failOn: "CREATE EXTERNAL"}
	_, err := Register(context.Background(), newRunner(f), "s3://b/play_by_play/", "", "")
	if err == nil || !strings.Contains(err.Error(), "SYNTAX_ERROR") {
		t.Fatalf("err = %v", err)
	}
	if len(f.sqls) != 1 {
		t.Fatalf("ran %d queries after failure", len(f.sqls))
	}
}

func TestExecAndWait_ContextCancelled(t *testing.T) {
	f := &fakeAthena{}
	r := newRunner(f)
	r.Poll = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.ExecAndWait(ctx, "SELECT 1"); err != context.Canceled {
		t.Fatalf("err = %v", err)
	}
	if f.polls != 0 {
		t.Fatalf("polled %d times", f.polls)
	}
}

func TestCountRows_BadShape(t *testing.T) {
	f := &fakeAthena{counts: [][2]string{{"COUNT", "many"}}}
	if _, err := newRunner(f).CountRows(context.Background(), ActionsTable); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestScalarInt(t *testing.T) {
	row := func(v *string) types.Row { return types.Row{Data: []types.Datum{{VarCharValue: v}}} }
	header := row(aws.String("c"))
	if n, err := scalarInt(&types.ResultSet{Rows: []types.Row{header, row(aws.String("455"))}}); err != nil || n != 455 {
		t.Fatalf("got %d, %v want 455", n, err)
	}
	for name, rs := range map[string]*types.ResultSet{
		"nil":       nil,
		"header":    {Rows: []types.Row{header}},
		"null cell": {Rows: []types.Row{header, row(nil)}},
		"two rows":  {Rows: []types.Row{header, row(aws.String("1")), row(aws.String("2"))}},
	} {
		if _, err := scalarInt(rs); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

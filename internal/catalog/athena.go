package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
)

// AthenaAPI is the subset of *athena.Client the runner needs.
type AthenaAPI interface {
	StartQueryExecution(ctx context.Context, in *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, in *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, in *athena.GetQueryResultsInput, optFns ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error)
}

const DefaultPoll = time.Second

type Runner struct {
	Client    AthenaAPI
	Workgroup string
	Database  string
	OutputS3  string // s3://bucket/prefix/
	Poll      time.Duration
	Logger    *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// ExecAndWait starts sql and polls until it reaches a terminal state.
func (r *Runner) ExecAndWait(ctx context.Context, sql string) (*types.QueryExecution, error) {
	in := &athena.StartQueryExecutionInput{
		QueryString: aws.String(sql),
		QueryExecutionContext: &types.QueryExecutionContext{
			Database: aws.String(r.Database),
		},
		WorkGroup: aws.String(r.Workgroup),
	}
	if r.OutputS3 != "" {
		in.ResultConfiguration = &types.ResultConfiguration{OutputLocation: aws.String(r.OutputS3)}
	}
	startOut, err := r.Client.StartQueryExecution(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("start query: %w", err)
	}
	qid := aws.ToString(startOut.QueryExecutionId)
	r.logger().Debug("athena query started", "qid", qid)

	poll := r.Poll
	if poll <= 0 {
		poll = DefaultPoll
	}
	tick := time.NewTicker(poll)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-tick.C:
			ge, err := r.Client.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
				QueryExecutionId: aws.String(qid),
			})
			if err != nil {
				return nil, fmt.Errorf("get query execution: %w", err)
			}
			qe := ge.QueryExecution
			if qe == nil || qe.Status == nil {
				continue
			}
			switch qe.Status.State {
			case types.QueryExecutionStateSucceeded:
				attrs := []any{"qid", qid}
				if st := qe.Statistics; st != nil {
					attrs = append(attrs,
						"scanned_bytes", aws.ToInt64(st.DataScannedInBytes),
						"exec_ms", aws.ToInt64(st.EngineExecutionTimeInMillis))
				}
				r.logger().Info("athena query succeeded", attrs...)
				return qe, nil
			case types.QueryExecutionStateFailed:
				return nil, fmt.Errorf("athena failed: %s", aws.ToString(qe.Status.StateChangeReason))
			case types.QueryExecutionStateCancelled:
				return nil, errors.New("athena cancelled")
			}
		}
	}
}

// CountRows counts every row of table.
func (r *Runner) CountRows(ctx context.Context, table string) (int64, error) {
	return r.count(ctx, fmt.Sprintf("SELECT COUNT(*) AS c FROM %s.%s", r.Database, table))
}

// count runs a single-cell query and reads the cell as an integer.
func (r *Runner) count(ctx context.Context, sql string) (int64, error) {
	exec, err := r.ExecAndWait(ctx, sql)
	if err != nil {
		return 0, err
	}
	res, err := r.Client.GetQueryResults(ctx, &athena.GetQueryResultsInput{QueryExecutionId: exec.QueryExecutionId})
	if err != nil {
		return 0, fmt.Errorf("query results %s: %w", aws.ToString(exec.QueryExecutionId), err)
	}
	return scalarInt(res.ResultSet)
}

// scalarInt reads the first data cell of a result set. Athena returns the
// column header as row zero.
func scalarInt(rs *types.ResultSet) (int64, error) {
	if rs == nil || len(rs.Rows) != 2 || len(rs.Rows[1].Data) == 0 {
		return 0, errors.New("want one header row and one data row")
	}
	cell := rs.Rows[1].Data[0].VarCharValue
	if cell == nil {
		return 0, errors.New("count cell is null")
	}
	n, err := strconv.ParseInt(*cell, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("count cell %q: %w", *cell, err)
	}
	return n, nil
}

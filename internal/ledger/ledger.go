// Package ledger keeps a DynamoDB record of how every acquisition run
// resolved its resources, so failed fetches that were stored as empty
// objects can be found and forced later.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tyler180/nba-stats-backends/internal/collector"
	"github.com/tyler180/nba-stats-backends/internal/pipeline"
)

type DynamoDBAPI interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Ledger buffers resolutions per run id and writes them when the run ends.
// Table layout: PK RunID (S), SK Step (S).
type Ledger struct {
	DDB    DynamoDBAPI
	Table  string
	Logger *slog.Logger

	mu      sync.Mutex
	pending map[string][]collector.Resolution
}

func New(ddb DynamoDBAPI, table string, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{DDB: ddb, Table: table, Logger: logger, pending: map[string][]collector.Resolution{}}
}

func (l *Ledger) Observe(_ context.Context, r collector.Resolution) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending[r.RunID] = append(l.pending[r.RunID], r)
}

// RunFinished flushes the run. Ledger failures are logged, never returned:
// the payloads are already stored.
func (l *Ledger) RunFinished(ctx context.Context, rep pipeline.Report, runErr error) {
	n, err := l.Flush(ctx, rep, runErr)
	if err != nil {
		l.Logger.Error("ledger write failed", "run_id", rep.RunID, "table", l.Table, "err", err)
		return
	}
	l.Logger.Debug("ledger written", "run_id", rep.RunID, "items", n)
}

// Flush writes a summary item plus one item per buffered resolution of the
// run and returns how many items were written.
func (l *Ledger) Flush(ctx context.Context, rep pipeline.Report, runErr error) (int, error) {
	l.mu.Lock()
	rs := l.pending[rep.RunID]
	delete(l.pending, rep.RunID)
	l.mu.Unlock()

	now := strconv.FormatInt(time.Now().Unix(), 10)
	items := make([]map[string]types.AttributeValue, 0, len(rs)+1)
	items = append(items, summaryItem(rep, runErr, now))
	for i, r := range rs {
		items = append(items, resolutionItem(i+1, r))
	}

	const maxBatch = 25
	for i := 0; i < len(items); i += maxBatch {
		end := min(i+maxBatch, len(items))
		reqs := make([]types.WriteRequest, 0, end-i)
		for _, item := range items[i:end] {
			reqs = append(reqs, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		}
		if err := batchWriteWithRetry(ctx, l.DDB, l.Table, reqs); err != nil {
			return 0, fmt.Errorf("batch write ledger items: %w", err)
		}
	}
	return len(items), nil
}

func summaryItem(rep pipeline.Report, runErr error, now string) map[string]types.AttributeValue {
	status := "ok"
	if runErr != nil {
		status = "failed"
	}
	item := map[string]types.AttributeValue{
		"RunID":     &types.AttributeValueMemberS{Value: rep.RunID},  // PK
		"Step":      &types.AttributeValueMemberS{Value: "0000#run"}, // SK
		"Run":       &types.AttributeValueMemberS{Value: rep.Run},
		"Status":    &types.AttributeValueMemberS{Value: status},
		"Steps":     &types.AttributeValueMemberN{Value: strconv.Itoa(rep.Steps)},
		"Teams":     &types.AttributeValueMemberN{Value: strconv.Itoa(len(rep.Teams))},
		"Players":   &types.AttributeValueMemberN{Value: strconv.Itoa(len(rep.Players))},
		"Failures":  &types.AttributeValueMemberN{Value: strconv.Itoa(len(rep.Failures))},
		"UpdatedAt": &types.AttributeValueMemberN{Value: now},
	}
	if rep.GameID != "" {
		item["GameID"] = &types.AttributeValueMemberS{Value: rep.GameID}
	}
	if runErr != nil {
		item["Error"] = &types.AttributeValueMemberS{Value: runErr.Error()}
	}
	return item
}

func resolutionItem(seq int, r collector.Resolution) map[string]types.AttributeValue {
	params := make(map[string]types.AttributeValue, len(r.Params))
	for k, v := range r.Params {
		params[k] = &types.AttributeValueMemberS{Value: v}
	}
	item := map[string]types.AttributeValue{
		"RunID":      &types.AttributeValueMemberS{Value: r.RunID},
		"Step":       &types.AttributeValueMemberS{Value: fmt.Sprintf("%04d#%s#%s", seq, r.Kind, r.Object.Key)},
		"Resource":   &types.AttributeValueMemberS{Value: string(r.Kind)},
		"Bucket":     &types.AttributeValueMemberS{Value: r.Object.Bucket},
		"ObjectKey":  &types.AttributeValueMemberS{Value: r.Object.Key},
		"Source":     &types.AttributeValueMemberS{Value: string(r.Source)},
		"Empty":      &types.AttributeValueMemberBOOL{Value: r.Empty},
		"Params":     &types.AttributeValueMemberM{Value: params},
		"ResolvedAt": &types.AttributeValueMemberN{Value: strconv.FormatInt(r.At.Unix(), 10)},
	}
	if r.Outcome != "" {
		item["Outcome"] = &types.AttributeValueMemberS{Value: r.Outcome}
	}
	return item
}

var retryDelay = 120 * time.Millisecond

func batchWriteWithRetry(ctx context.Context, ddb DynamoDBAPI, table string, reqs []types.WriteRequest) error {
	input := &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{table: reqs},
	}
	const maxAttempts = 6
	backoff := retryDelay

	for attempt := 0; attempt < maxAttempts; attempt++ {
		out, err := ddb.BatchWriteItem(ctx, input)
		if err != nil {
			return err
		}
		if len(out.UnprocessedItems) == 0 {
			return nil
		}
		input.RequestItems = out.UnprocessedItems
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 2*time.Second {
			backoff += retryDelay
		}
	}
	return fmt.Errorf("unprocessed items remained after retries for table %s", table)
}

// TableActive reports whether the ledger table exists and is ACTIVE.
func (l *Ledger) TableActive(ctx context.Context) (bool, error) {
	out, err := l.DDB.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(l.Table)})
	if err != nil {
		return false, fmt.Errorf("describe table %s: %w", l.Table, err)
	}
	return out.Table != nil && out.Table.TableStatus == types.TableStatusActive, nil
}

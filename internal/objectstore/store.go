// Package objectstore persists raw payloads keyed by bucket and key.
package objectstore

import (
	"context"
	"errors"

	"github.com/tyler180/nba-stats-backends/internal/schema"
)

// ErrNotFound means the key has never been written. Callers treat it as a
// cache miss, not a failure.
var ErrNotFound = errors.New("objectstore: key not found")

const ContentTypeJSON = "application/json"

type Store interface {
	Get(ctx context.Context, bucket, key string) (schema.Payload, error)
	Put(ctx context.Context, bucket, key string, p schema.Payload) error
}

// Package probe checks that the services acquisition depends on answer.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

type Check struct {
	Name string
	Run  func(ctx context.Context) error
}

// Run executes every check, logging start, done or error for each, and
// returns all failures joined.
func Run(ctx context.Context, logger *slog.Logger, checks ...Check) error {
	if logger == nil {
		logger = slog.Default()
	}
	var errs []error
	for _, c := range checks {
		logger.Info(c.Name + ", start")
		if err := c.Run(ctx); err != nil {
			logger.Error(c.Name+", meets error", "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
			continue
		}
		logger.Info(c.Name + ", done")
	}
	return errors.Join(errs...)
}

type bucketChecker interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
}

// Buckets checks that each bucket exists.
func Buckets(s bucketChecker, buckets ...string) []Check {
	out := make([]Check, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, Check{
			Name: "detect_bucket_" + b,
			Run: func(ctx context.Context) error {
				ok, err := s.BucketExists(ctx, b)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("bucket %s does not exist", b)
				}
				return nil
			},
		})
	}
	return out
}

type tableChecker interface {
	TableActive(ctx context.Context) (bool, error)
}

// Table checks that the named DynamoDB table is ACTIVE.
func Table(name string, t tableChecker) Check {
	return Check{
		Name: "detect_table_" + name,
		Run: func(ctx context.Context) error {
			ok, err := t.TableActive(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("table %s is not active", name)
			}
			return nil
		},
	}
}

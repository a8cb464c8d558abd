package classifier

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency is used when CheckBatch is given a non-positive limit.
const DefaultBatchConcurrency = 10

// CheckBatch classifies ips with at most concurrency checks in flight.
// Results keep the order of ips. A failed check is reported in Result.Error
// and does not stop the batch; the returned error is only non-nil when ctx
// is cancelled.
func (c *Classifier) CheckBatch(ctx context.Context, ips []string, concurrency int) ([]Result, error) {
	results := make([]Result, len(ips))
	var mu sync.Mutex

	err := c.CheckBatchWithCallback(ctx, ips, concurrency, func(res Result, index int) {
		mu.Lock()
		results[index] = res
		mu.Unlock()
	})

	return results, err
}

// CheckBatchWithCallback classifies ips and calls fn for each completed check.
// fn is called from worker goroutines and must be safe for concurrent use.
func (c *Classifier) CheckBatchWithCallback(ctx context.Context, ips []string, concurrency int, fn func(res Result, index int)) error {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	c.logger.Info("starting batch check",
		"total", len(ips),
		"concurrency", concurrency,
	)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, ip := range ips {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			res, err := c.Check(ctx, ip)
			if err != nil {
				c.logger.Warn("check failed", "ip", ip, "error", err)
				res = c.result(ip, false, SignalNone, 0)
				res.Error = err.Error()
			}
			fn(res, i)

			// Individual failures never cancel the rest of the batch.
			return nil
		})
	}

	err := g.Wait()
	c.logger.Info("batch check complete",
		"total", len(ips),
		"elapsed", time.Since(start),
	)
	return err
}

package bulk

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vedsharma/resterx/internal/model"
	"github.com/vedsharma/resterx/internal/request"
)

// Invoker executes one materialized request
type Invoker interface {
	Invoke(ctx context.Context, m request.Materialized) model.ResponseRecord
}

// Options configures a bulk run
type Options struct {
	Count    int
	Parallel bool
	// Delay between sequential requests, ignored in parallel mode
	Delay time.Duration
	// OnResult is called after every completed request. Calls may come from
	// several goroutines in parallel mode.
	OnResult func(index int, rec model.ResponseRecord)
}

// Runner repeats one request and aggregates the timings. Results are not
// recorded in history and do not replace the current response.
type Runner struct {
	invoker Invoker
	logger  *slog.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a bulk runner
func NewRunner(invoker Invoker, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{invoker: invoker, logger: logger, sleep: sleepContext}
}

// Run sends m opts.Count times. When ctx is cancelled during a sequential
// run the stats collected so far are returned with the context error.
func (r *Runner) Run(ctx context.Context, m request.Materialized, opts Options) (Stats, error) {
	if opts.Count <= 0 {
		return Stats{}, &model.ValidationError{Field: "count", Reason: "must be at least 1"}
	}
	if opts.Delay < 0 {
		return Stats{}, &model.ValidationError{Field: "delay", Reason: "must not be negative"}
	}

	agg := newAggregator(opts.Count)
	r.logger.Debug("bulk run started", "method", m.Method, "url", m.URL, "count", opts.Count, "parallel", opts.Parallel)

	var err error
	if opts.Parallel {
		err = r.runParallel(ctx, m, opts, agg)
	} else {
		err = r.runSequential(ctx, m, opts, agg)
	}

	stats := agg.snapshot()
	r.logger.Debug("bulk run finished", "completed", stats.Completed, "successful", stats.Successful, "failed", stats.Failed)
	return stats, err
}

func (r *Runner) runSequential(ctx context.Context, m request.Materialized, opts Options, agg *aggregator) error {
	for i := 0; i < opts.Count; i++ {
		if i > 0 && opts.Delay > 0 {
			if err := r.sleep(ctx, opts.Delay); err != nil {
				return fmt.Errorf("bulk run interrupted after %d requests: %w", i, err)
			}
		}
		rec := r.invoker.Invoke(ctx, m)
		agg.add(rec)
		if opts.OnResult != nil {
			opts.OnResult(i, rec)
		}
	}
	return nil
}

// runParallel launches every request at once, with no concurrency cap
func (r *Runner) runParallel(ctx context.Context, m request.Materialized, opts Options, agg *aggregator) error {
	var g errgroup.Group
	for i := 0; i < opts.Count; i++ {
		g.Go(func() error {
			rec := r.invoker.Invoke(ctx, m)
			agg.add(rec)
			if opts.OnResult != nil {
				opts.OnResult(i, rec)
			}
			return nil
		})
	}
	return g.Wait()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package http

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/vedsharma/resterx/internal/model"
	"github.com/vedsharma/resterx/internal/request"
)

// Policy controls timeouts and retries around Invoke
type Policy struct {
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

// InvokeWithRetry runs Invoke with a per-attempt timeout and re-invokes it up
// to p.Retries more times on transport failure, waiting p.RetryDelay between
// attempts. HTTP error statuses are not retried. The last record is returned.
func (c *Client) InvokeWithRetry(ctx context.Context, m request.Materialized, p Policy) model.ResponseRecord {
	var (
		last     model.ResponseRecord
		attempts int
	)

	operation := func() (model.ResponseRecord, error) {
		attempts++
		attemptCtx := ctx
		if p.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
			defer cancel()
		}
		last = c.Invoke(attemptCtx, m)
		if last.Error {
			return last, errors.New(last.Body)
		}
		return last, nil
	}

	retries := p.Retries
	if retries < 0 {
		retries = 0
	}

	rec, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(p.RetryDelay)),
		backoff.WithMaxTries(uint(retries+1)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.logger.Info("retrying request", "url", m.URL, "attempt", attempts, "wait", wait, "error", err)
		}),
	)
	if err == nil {
		return rec
	}
	if attempts == 0 {
		return c.errorRecord(err, 0)
	}
	return last
}

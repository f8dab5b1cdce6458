package registry

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/fujidana/specref/errors"
	"github.com/fujidana/specref/logger"
	"github.com/fujidana/specref/ref"
)

// TimeoutMessage is shown to the user when the built-in wait gives up
const TimeoutMessage = "Timeout. The API reference database is not loaded at the moment."

// RetryPolicy bounds a polling wait
type RetryPolicy struct {
	Attempts int
	Interval time.Duration
}

// DefaultRetryPolicy polls five times, 50ms apart
var DefaultRetryPolicy = RetryPolicy{Attempts: 5, Interval: 50 * time.Millisecond}

// WaitBuiltin returns the built-in partition, polling until it is loaded.
// It checks once immediately and once after each of policy.Attempts pauses;
// when the budget is spent it returns an error marked errors.ErrTimeout.
func (r *Registry) WaitBuiltin(ctx context.Context, policy RetryPolicy) (*ref.Partition, error) {
	if p, ok := r.store.Partition(ref.SourceBuiltin); ok {
		return p, nil
	}
	if policy.Attempts <= 0 {
		policy = DefaultRetryPolicy
	}
	if policy.Interval <= 0 {
		policy.Interval = DefaultRetryPolicy.Interval
	}

	limiter := rate.NewLimiter(rate.Every(policy.Interval), 1)
	limiter.Allow() // spend the initial token so the first Wait pauses

	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "waiting for built-in database")
		}
		if p, ok := r.store.Partition(ref.SourceBuiltin); ok {
			r.log.Debugw("Built-in database became available",
				logger.FieldAttempts, attempt)
			return p, nil
		}
	}

	return nil, errors.WithHint(
		errors.Mark(errors.New(TimeoutMessage), errors.ErrTimeout),
		"check reference.path and the server log for load errors",
	)
}

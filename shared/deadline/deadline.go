// Package deadline bounds calls that leave the process.
//
// Call returns an upstream_timeout failure when the budget elapses. WithFallback
// answers with an explicit per-call-site value instead and records the call as degraded.
package deadline

import (
	"context"
	"errors"
	"fmt"
	"stayops/shared/failure"
	"stayops/shared/metrics"
	"time"

	"github.com/rs/zerolog/log"
)

type result[T any] struct {
	value T
	err   error
}

// Call runs fn under budget. A non-positive budget runs fn without a deadline.
func Call[T any](ctx context.Context, budget time.Duration, dependency string, fn func(ctx context.Context) (T, error)) (T, error) {
	if budget <= 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	done := make(chan result[T], 1)

	go func() {
		value, err := fn(ctx)
		done <- result[T]{value: value, err: err}
	}()

	select {
	case res := <-done:
		if errors.Is(res.err, context.DeadlineExceeded) {
			var zero T

			return zero, failure.UpstreamTimeout(dependency) // nolint:wrapcheck
		}

		return res.value, res.err
	case <-ctx.Done():
		var zero T

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, failure.UpstreamTimeout(dependency) // nolint:wrapcheck
		}

		return zero, fmt.Errorf("%s call abandoned: %w", dependency, ctx.Err())
	}
}

// WithFallback runs fn under budget and returns fallback when the budget elapses.
// The second result reports whether the fallback was used. Errors other than a
// timeout are returned unchanged.
func WithFallback[T any](ctx context.Context, budget time.Duration, dependency string, fallback T, fn func(ctx context.Context) (T, error)) (T, bool, error) {
	value, err := Call(ctx, budget, dependency, fn)
	if err == nil {
		return value, false, nil
	}

	if failure.Is(err, failure.KindUpstreamTimeout) {
		Degraded(dependency, err)

		return fallback, true, nil
	}

	return value, false, err
}

// Degraded logs and counts a call answered without its dependency.
func Degraded(dependency string, err error) {
	metrics.RecordDegraded(dependency)

	log.Warn().Err(err).Bool("degraded", true).Str("dependency", dependency).Msg("upstream call degraded, using fallback")
}

// Millis converts a configured budget in milliseconds.
func Millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

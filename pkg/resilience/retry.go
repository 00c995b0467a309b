package resilience

import (
	"context"
	"math"
	"time"

	"github.com/danghoangnhan/vidscribe/internal/domain"
	"github.com/danghoangnhan/vidscribe/internal/logger"
)

// Operation is any external call wrapped by a resilience helper.
type Operation func(ctx context.Context) error

// RetryConfig controls Retry. Backoff for attempt n (zero-based) is
// Multiplier^n seconds.
type RetryConfig struct {
	MaxAttempts int
	Multiplier  float64
}

// DefaultRetryConfig matches the pipeline's configured defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, Multiplier: 2}
}

// Retry runs op up to cfg.MaxAttempts times, backing off between
// attempts. Only transient errors (download-failure,
// provider-unavailable) are retried; any other error, and the final
// failed attempt, propagate unchanged. Context cancellation cuts the
// backoff short.
func Retry(ctx context.Context, log logger.Logger, cfg RetryConfig, op Operation) error {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	multiplier := cfg.Multiplier
	if multiplier <= 0 {
		multiplier = 2
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := time.Duration(math.Pow(multiplier, float64(attempt)) * float64(time.Second))
			log.Warn(ctx, "retrying after failure (attempt %d/%d, waiting %s): %v",
				attempt+1, attempts, wait, lastErr)

			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !domain.IsTransient(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

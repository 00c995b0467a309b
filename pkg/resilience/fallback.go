package resilience

import "context"

// WithFallback executes primary; on any failure it executes fallback
// and returns its result. If the fallback also fails, the fallback's
// error propagates. Callers never branch on the primary's error type.
func WithFallback(ctx context.Context, primary, fallback Operation) error {
	if err := primary(ctx); err == nil {
		return nil
	}
	return fallback(ctx)
}

// FirstOf tries each operation in order and returns nil as soon as one
// succeeds. The last error propagates when every operation fails.
// Generalizes WithFallback to a backend preference chain.
func FirstOf(ctx context.Context, ops ...Operation) error {
	var lastErr error
	for _, op := range ops {
		if lastErr = op(ctx); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return lastErr
}

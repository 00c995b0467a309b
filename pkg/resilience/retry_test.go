package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danghoangnhan/vidscribe/internal/domain"
	"github.com/danghoangnhan/vidscribe/internal/logger"
)

// fastRetry keeps backoff negligible so tests run quickly.
func fastRetry(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, Multiplier: 0.001}
}

func TestRetryTransientExhausted(t *testing.T) {
	calls := 0
	wantErr := domain.DownloadFailed("https://x", "unreachable", nil)

	err := Retry(context.Background(), logger.Nop(), fastRetry(3), func(ctx context.Context) error {
		calls++
		return wantErr
	})

	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want the original error propagated unchanged", err)
	}
}

func TestRetrySucceedsMidway(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), logger.Nop(), fastRetry(5), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return domain.ProviderUnavailable("gemini", "overloaded", nil)
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryDoesNotRetryFatal(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), logger.Nop(), fastRetry(3), func(ctx context.Context) error {
		calls++
		return domain.FormatInvalid("id", "", "must not be empty")
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1 (fatal errors are not retried)", calls)
	}
	if domain.KindOf(err) != domain.KindFormatInvalid {
		t.Errorf("KindOf() = %v", domain.KindOf(err))
	}
}

func TestRetryDoesNotRetryForeignErrors(t *testing.T) {
	calls := 0
	Retry(context.Background(), logger.Nop(), fastRetry(3), func(ctx context.Context) error {
		calls++
		return errors.New("plain failure")
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	errCh := make(chan error, 1)
	go func() {
		errCh <- Retry(ctx, logger.Nop(), RetryConfig{MaxAttempts: 3, Multiplier: 30}, func(ctx context.Context) error {
			calls++
			return domain.DownloadFailed("https://x", "unreachable", nil)
		})
	}()

	// Cancel while the first backoff is pending.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Retry did not honor cancellation during backoff")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWithFallback(t *testing.T) {
	t.Run("primary succeeds", func(t *testing.T) {
		fallbackRan := false
		err := WithFallback(context.Background(),
			func(ctx context.Context) error { return nil },
			func(ctx context.Context) error { fallbackRan = true; return nil },
		)
		if err != nil || fallbackRan {
			t.Errorf("err = %v, fallbackRan = %v", err, fallbackRan)
		}
	})

	t.Run("primary fails, fallback succeeds", func(t *testing.T) {
		err := WithFallback(context.Background(),
			func(ctx context.Context) error { return domain.ProviderUnavailable("a", "down", nil) },
			func(ctx context.Context) error { return nil },
		)
		if err != nil {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("both fail", func(t *testing.T) {
		fallbackErr := domain.ProviderUnavailable("b", "also down", nil)
		err := WithFallback(context.Background(),
			func(ctx context.Context) error { return domain.ProviderUnavailable("a", "down", nil) },
			func(ctx context.Context) error { return fallbackErr },
		)
		if !errors.Is(err, fallbackErr) {
			t.Errorf("err = %v, want the fallback's error", err)
		}
	})
}

func TestFirstOf(t *testing.T) {
	order := []string{}
	err := FirstOf(context.Background(),
		func(ctx context.Context) error {
			order = append(order, "a")
			return domain.ProviderUnavailable("a", "down", nil)
		},
		func(ctx context.Context) error {
			order = append(order, "b")
			return nil
		},
		func(ctx context.Context) error {
			order = append(order, "c")
			return nil
		},
	)

	if err != nil {
		t.Fatalf("FirstOf() error = %v", err)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("order = %v, want [a b]", order)
	}
}

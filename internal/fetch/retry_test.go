package fetch

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicyShouldRetry(t *testing.T) {
	t.Parallel()

	p := NewRetryPolicy(3, time.Millisecond, 2.0)
	boom := errors.New("boom")

	if p.ShouldRetry(0, nil) {
		t.Fatal("nil error must not retry")
	}
	if !p.ShouldRetry(0, boom) {
		t.Fatal("first failure should retry")
	}
	if !p.ShouldRetry(1, boom) {
		t.Fatal("second failure should retry")
	}
	if p.ShouldRetry(2, boom) {
		t.Fatal("attempts exhausted, must not retry")
	}
	if p.ShouldRetry(0, context.Canceled) {
		t.Fatal("canceled context must not retry")
	}
	if p.ShouldRetry(0, context.DeadlineExceeded) {
		t.Fatal("deadline exceeded must not retry")
	}
}

func TestRetryPolicyBackoffBounds(t *testing.T) {
	t.Parallel()

	base := 2 * time.Second
	p := NewRetryPolicy(3, base, 2.0)

	for attempt := 0; attempt < 4; attempt++ {
		full := base * time.Duration(1<<attempt)
		got := p.Backoff(attempt)
		if got < full/2 || got > full {
			t.Fatalf("attempt %d: backoff %v outside [%v, %v]", attempt, got, full/2, full)
		}
	}

	if got := p.Backoff(-1); got < base/2 || got > base {
		t.Fatalf("negative attempt treated as zero, got %v", got)
	}
}

func TestRetryPolicyBackoffCapped(t *testing.T) {
	t.Parallel()

	p := NewRetryPolicy(10, time.Minute, 4.0)
	if got := p.Backoff(9); got > 2*time.Minute {
		t.Fatalf("backoff %v exceeds cap", got)
	}
}

func TestRetryDoStopsOnSuccess(t *testing.T) {
	t.Parallel()

	p := NewRetryPolicy(3, time.Millisecond, 2.0)
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryDoReturnsLastError(t *testing.T) {
	t.Parallel()

	p := NewRetryPolicy(2, time.Millisecond, 2.0)
	boom := errors.New("still broken")
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestRetryDoStopsOnContextError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewRetryPolicy(5, time.Millisecond, 2.0)
	calls := 0
	err := p.Do(ctx, func() error {
		calls++
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestNewRetryPolicyDefaults(t *testing.T) {
	t.Parallel()

	p := NewRetryPolicy(0, 0, 0)
	if p.maxAttempts != 1 {
		t.Fatalf("expected single attempt default, got %d", p.maxAttempts)
	}
	if p.baseDelay != 2*time.Second {
		t.Fatalf("expected 2s base delay default, got %v", p.baseDelay)
	}
	if p.factor != 2.0 {
		t.Fatalf("expected factor 2.0 default, got %v", p.factor)
	}
}

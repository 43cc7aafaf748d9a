package fetch

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"
)

// RetryPolicy schedules repeated attempts with exponential backoff.
// Half of each delay is fixed and the other half is random jitter.
type RetryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	factor      float64
	maxDelay    time.Duration
}

// NewRetryPolicy builds a policy. maxAttempts is the total number of
// tries including the first one.
func NewRetryPolicy(maxAttempts int, baseDelay time.Duration, factor float64) *RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 2 * time.Second
	}
	if factor < 1 {
		factor = 2.0
	}
	return &RetryPolicy{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		factor:      factor,
		maxDelay:    2 * time.Minute,
	}
}

// ShouldRetry reports whether another attempt may follow the given
// zero-based attempt. Context cancellation is never retried.
func (p *RetryPolicy) ShouldRetry(attempt int, err error) bool {
	if err == nil {
		return false
	}
	if attempt >= p.maxAttempts-1 {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// Backoff returns the pause before the attempt after the given
// zero-based attempt.
func (p *RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := time.Duration(float64(p.baseDelay) * math.Pow(p.factor, float64(attempt)))
	if delay <= 0 || delay > p.maxDelay {
		delay = p.maxDelay
	}
	half := delay / 2
	return half + randomJitter(half)
}

// Do runs op until it succeeds, the policy gives up, or ctx ends.
// The last error from op is returned when all attempts fail.
func (p *RetryPolicy) Do(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if !p.ShouldRetry(attempt, err) {
			return err
		}
		if sleepErr := sleepCtx(ctx, p.Backoff(attempt)); sleepErr != nil {
			return fmt.Errorf("retry wait: %w", sleepErr)
		}
	}
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return max / 2
	}
	return time.Duration(n.Int64())
}

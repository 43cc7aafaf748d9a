package fetch

import (
	"context"
	"testing"
	"time"
)

func TestLimiterUnlimitedNeverBlocks(t *testing.T) {
	t.Parallel()

	l := NewLimiter(0)
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 50; i++ {
		if err := l.Wait(ctx, "https://example.com/page"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("unlimited limiter blocked for %v", elapsed)
	}
}

func TestLimiterSpacesSameDomain(t *testing.T) {
	t.Parallel()

	l := NewLimiter(20)
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx, "https://slow.example.com/a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// Burst of one: the second and third calls each wait ~50ms.
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Fatalf("expected spacing between requests, elapsed %v", elapsed)
	}
}

func TestLimiterDomainsAreIndependent(t *testing.T) {
	t.Parallel()

	l := NewLimiter(1)
	ctx := context.Background()
	start := time.Now()
	urls := []string{
		"https://a.example.com/",
		"https://b.example.com/",
		"https://c.example.com/",
	}
	for _, u := range urls {
		if err := l.Wait(ctx, u); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("distinct domains should not queue behind each other, elapsed %v", elapsed)
	}
}

func TestLimiterWaitHonorsContext(t *testing.T) {
	t.Parallel()

	l := NewLimiter(0.001)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "https://example.org/first"); err != nil {
		t.Fatalf("first token should be immediate: %v", err)
	}
	if err := l.Wait(ctx, "https://example.org/second"); err == nil {
		t.Fatal("expected context error while waiting for second token")
	}
}

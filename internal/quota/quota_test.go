package quota

import (
	"context"
	"sync"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)

func TestLimiterConsumesAllowance(t *testing.T) {
	t.Parallel()

	l := NewLimiter(NewMemoryCounter(), 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.CheckAndIncrement(ctx, "client-a", testNow)
		if err != nil {
			t.Fatalf("CheckAndIncrement: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if d.Remaining != 3-(i+1) {
			t.Fatalf("after request %d remaining = %d, want %d", i+1, d.Remaining, 3-(i+1))
		}
	}

	d, err := l.CheckAndIncrement(ctx, "client-a", testNow)
	if err != nil {
		t.Fatalf("CheckAndIncrement: %v", err)
	}
	if d.Allowed || d.Remaining != 0 {
		t.Fatalf("exhausted client should be denied with 0 remaining, got %+v", d)
	}

	wantReset := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if !d.ResetTime.Equal(wantReset) {
		t.Fatalf("ResetTime = %v, want %v", d.ResetTime, wantReset)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	t.Parallel()

	l := NewLimiter(NewMemoryCounter(), 2)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		d, err := l.Peek(ctx, "client-b", testNow)
		if err != nil {
			t.Fatalf("Peek: %v", err)
		}
		if !d.Allowed || d.Remaining != 2 {
			t.Fatalf("peek %d should leave full allowance, got %+v", i, d)
		}
	}

	if _, err := l.CheckAndIncrement(ctx, "client-b", testNow); err != nil {
		t.Fatal(err)
	}
	d, err := l.Peek(ctx, "client-b", testNow)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if !d.Allowed || d.Remaining != 1 {
		t.Fatalf("after one use peek should show 1 remaining, got %+v", d)
	}

	if _, err := l.CheckAndIncrement(ctx, "client-b", testNow); err != nil {
		t.Fatal(err)
	}
	d, err = l.Peek(ctx, "client-b", testNow)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if d.Allowed || d.Remaining != 0 {
		t.Fatalf("exhausted client should peek denied with 0 remaining, got %+v", d)
	}
}

func TestClientsAreIndependent(t *testing.T) {
	t.Parallel()

	l := NewLimiter(NewMemoryCounter(), 1)
	ctx := context.Background()

	if d, _ := l.CheckAndIncrement(ctx, "client-a", testNow); !d.Allowed {
		t.Fatal("first client should be allowed")
	}
	if d, _ := l.CheckAndIncrement(ctx, "client-a", testNow); d.Allowed {
		t.Fatal("first client should now be exhausted")
	}
	if d, _ := l.CheckAndIncrement(ctx, "client-b", testNow); !d.Allowed {
		t.Fatal("second client must not share the first client's window")
	}
}

func TestWindowResetsNextDay(t *testing.T) {
	t.Parallel()

	l := NewLimiter(NewMemoryCounter(), 1)
	ctx := context.Background()

	if d, _ := l.CheckAndIncrement(ctx, "client-a", testNow); !d.Allowed {
		t.Fatal("first request should be allowed")
	}
	if d, _ := l.CheckAndIncrement(ctx, "client-a", testNow); d.Allowed {
		t.Fatal("second request should be denied")
	}

	nextDay := testNow.Add(24 * time.Hour)
	if d, _ := l.CheckAndIncrement(ctx, "client-a", nextDay); !d.Allowed {
		t.Fatal("a new day should open a fresh window")
	}
}

func TestConcurrentIncrementsNeverExceedLimit(t *testing.T) {
	t.Parallel()

	const limit = 10
	const attempts = 100

	l := NewLimiter(NewMemoryCounter(), limit)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := l.CheckAndIncrement(ctx, "client-a", testNow)
			if err != nil {
				t.Error(err)
				return
			}
			if d.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != limit {
		t.Fatalf("exactly %d of %d concurrent attempts should pass, got %d", limit, attempts, allowed)
	}
}

package search

import (
	"context"
	"testing"
	"time"
)

func TestQueryThrottleSpacesSameQuery(t *testing.T) {
	t.Parallel()

	th := NewQueryThrottle(80 * time.Millisecond)
	defer th.Stop()
	ctx := context.Background()

	if err := th.Wait(ctx, "Go channels"); err != nil {
		t.Fatalf("first Wait: %v", err)
	}
	start := time.Now()
	if err := th.Wait(ctx, "go   CHANNELS"); err != nil {
		t.Fatalf("second Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Fatalf("second identical query waited %v, want spacing", elapsed)
	}

	start = time.Now()
	if err := th.Wait(ctx, "something else"); err != nil {
		t.Fatalf("distinct Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
		t.Fatalf("distinct query waited %v", elapsed)
	}
}

func TestQueryThrottleHonorsContext(t *testing.T) {
	t.Parallel()

	th := NewQueryThrottle(time.Hour)
	defer th.Stop()
	_ = th.Wait(context.Background(), "q")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := th.Wait(ctx, "q"); err == nil {
		t.Fatal("expected context error while throttled")
	}
}

func TestQueryThrottleDisabledAndSweep(t *testing.T) {
	t.Parallel()

	off := NewQueryThrottle(0)
	for i := 0; i < 3; i++ {
		if err := off.Wait(context.Background(), "q"); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if off.Len() != 0 {
		t.Fatal("disabled throttle should not track queries")
	}

	th := NewQueryThrottle(time.Millisecond)
	defer th.Stop()
	_ = th.Wait(context.Background(), "q")
	th.sweep(time.Now().Add(time.Second))
	if th.Len() != 0 {
		t.Fatalf("Len() after sweep = %d", th.Len())
	}
}

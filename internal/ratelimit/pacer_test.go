package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestPacer_WaitsAtLeastInterval(t *testing.T) {
	const interval = 120 * time.Millisecond
	p := NewPacer(interval)

	start := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < interval {
		t.Errorf("Wait returned after %v, want at least %v", elapsed, interval)
	}
}

func TestPacer_CancelledDuringWait(t *testing.T) {
	p := NewPacer(5 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	if err := p.Wait(ctx); err == nil {
		t.Fatal("expected error from cancelled Wait")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancelled Wait took %v, expected prompt return", elapsed)
	}
}

func TestPacer_ZeroIntervalNoPacing(t *testing.T) {
	p := NewPacer(0)

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 10; i++ {
		if err := p.Wait(ctx); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("unpaced Waits took %v", elapsed)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := p.Wait(cancelled); err == nil {
		t.Error("expected error when context already cancelled")
	}
}

func TestDomainLimiter_PerHost(t *testing.T) {
	dl := NewDomainLimiter(1, 1)

	if !dl.Allow("https://a.example.com/x") {
		t.Error("first request to a host should be allowed")
	}
	// Burst 1: an immediate second request to the same host is throttled,
	// but a different host has its own bucket.
	if dl.Allow("https://a.example.com/y") {
		t.Error("second immediate request should be throttled")
	}
	if !dl.Allow("https://b.example.com/x") {
		t.Error("different host should have its own bucket")
	}
}

func TestDomainLimiter_WaitCancelled(t *testing.T) {
	dl := NewDomainLimiter(0.001, 1)

	ctx := context.Background()
	if err := dl.Wait(ctx, "https://slow.example.com/"); err != nil {
		t.Fatalf("first Wait failed: %v", err)
	}

	cancelled, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := dl.Wait(cancelled, "https://slow.example.com/"); err == nil {
		t.Error("expected error waiting on exhausted bucket with cancelled context")
	}
}

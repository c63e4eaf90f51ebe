package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestHostLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewHostLimiter(1.0, 2)

	if !limiter.Allow("https://acme.example/careers") {
		t.Error("first request should be allowed")
	}
	if !limiter.Allow("https://acme.example/careers") {
		t.Error("second request within burst should be allowed")
	}
	if limiter.Allow("https://acme.example/careers") {
		t.Error("third request should exceed burst")
	}

	// A different host has its own bucket
	if !limiter.Allow("https://other.example/jobs") {
		t.Error("different host should not share the bucket")
	}
}

func TestHostLimiter_WaitRespectsContext(t *testing.T) {
	limiter := NewHostLimiter(0.1, 1)

	// Drain the bucket
	if err := limiter.Wait(context.Background(), "https://slow.example/"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "https://slow.example/"); err == nil {
		t.Error("expected context deadline error while bucket refills")
	}
}

func TestHostLimiter_InvalidURLPasses(t *testing.T) {
	limiter := NewHostLimiter(1.0, 1)

	if err := limiter.Wait(context.Background(), "://broken"); err != nil {
		t.Errorf("invalid URL should pass through, got %v", err)
	}
}

func TestHostLimiter_SetHostLimit(t *testing.T) {
	limiter := NewHostLimiter(0.01, 1)
	limiter.SetHostLimit("fast.example", 1000, 100)

	for i := 0; i < 10; i++ {
		if !limiter.Allow("https://fast.example/") {
			t.Fatalf("request %d should be allowed after raising the host limit", i)
		}
	}
}

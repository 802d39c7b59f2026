package ratelimit

import (
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{
			name:     "burst allows initial requests",
			rps:      1,
			burst:    3,
			calls:    3,
			wantPass: 3,
		},
		{
			name:     "exceeding burst blocks",
			rps:      1,
			burst:    2,
			calls:    5,
			wantPass: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)
			defer rl.Stop()

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow("10.0.0.1") {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	rl.Allow("10.0.0.1")
	if rl.Allow("10.0.0.1") {
		t.Error("10.0.0.1 should be exhausted")
	}

	if !rl.Allow("10.0.0.2") {
		t.Error("10.0.0.2 should be independent and allowed")
	}
}

func TestKeyedRateLimiter_Refills(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	if !rl.Allow("k") {
		t.Fatal("first request should pass")
	}
	if rl.Allow("k") {
		t.Fatal("second request in the same instant should be limited")
	}

	clock = clock.Add(time.Second)
	if !rl.Allow("k") {
		t.Error("bucket should refill after one second")
	}
}

func TestKeyedRateLimiter_EvictsIdleKeys(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	rl.Allow("old")
	clock = clock.Add(DefaultIdleTTL / 2)
	rl.Allow("recent")

	clock = clock.Add(DefaultIdleTTL/2 + time.Second)
	rl.evictIdle()

	if rl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", rl.Len())
	}
	if !rl.Allow("old") {
		t.Error("an evicted key starts with a full bucket")
	}
}

func TestPerMinute(t *testing.T) {
	rl := PerMinute(3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("k") {
			t.Fatalf("request %d should pass", i+1)
		}
	}
	if rl.Allow("k") {
		t.Error("fourth request should be limited")
	}

	unlimited := PerMinute(0)
	defer unlimited.Stop()
	for i := 0; i < 100; i++ {
		if !unlimited.Allow("k") {
			t.Fatal("PerMinute(0) should never limit")
		}
	}
}

func TestKeyedRateLimiter_StopTwice(t *testing.T) {
	rl := New(1, 1)
	rl.Stop()
	rl.Stop()
}

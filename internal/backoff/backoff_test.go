package backoff

import (
	"net/http"
	"testing"
	"time"
)

func TestDelay(t *testing.T) {
	t.Run("never exceeds cap and never negative", func(t *testing.T) {
		max := 3 * time.Second
		for attempt := -1; attempt <= 50; attempt++ {
			for i := 0; i < 20; i++ {
				d := Delay(attempt, max)
				if d < 0 {
					t.Fatalf("Delay(%d) = %v, negative", attempt, d)
				}
				if d > max {
					t.Fatalf("Delay(%d) = %v, exceeds cap %v", attempt, d, max)
				}
			}
		}
	})

	t.Run("first attempt is about one second", func(t *testing.T) {
		d := Delay(1, time.Minute)
		if d < time.Second || d >= time.Second+jitterBound {
			t.Errorf("Delay(1) = %v, want [1s, 1s+jitter)", d)
		}
	})

	t.Run("doubles per attempt", func(t *testing.T) {
		d := Delay(3, time.Minute)
		if d < 4*time.Second || d >= 4*time.Second+jitterBound {
			t.Errorf("Delay(3) = %v, want [4s, 4s+jitter)", d)
		}
	})

	t.Run("huge attempt count does not overflow", func(t *testing.T) {
		d := Delay(1 << 30, time.Hour)
		if d < 0 || d > time.Hour {
			t.Errorf("Delay(2^30) = %v, want within [0, 1h]", d)
		}
	})
}

func TestRetryDelay(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	max := 10 * time.Second

	t.Run("delta seconds hint used as-is", func(t *testing.T) {
		h := http.Header{}
		h.Set("Retry-After", "7")
		for _, attempt := range []int{1, 2, 9} {
			if d := RetryDelay(h, now, attempt, max); d != 7*time.Second {
				t.Errorf("attempt %d: RetryDelay = %v, want 7s", attempt, d)
			}
		}
	})

	t.Run("http date hint converted to remaining wait", func(t *testing.T) {
		h := http.Header{}
		h.Set("Retry-After", now.Add(4*time.Second).Format(http.TimeFormat))
		if d := RetryDelay(h, now, 1, max); d != 4*time.Second {
			t.Errorf("RetryDelay = %v, want 4s", d)
		}
	})

	t.Run("past http date floors at zero", func(t *testing.T) {
		h := http.Header{}
		h.Set("Retry-After", now.Add(-time.Minute).Format(http.TimeFormat))
		if d := RetryDelay(h, now, 1, max); d != 0 {
			t.Errorf("RetryDelay = %v, want 0", d)
		}
	})

	t.Run("far future http date capped at max", func(t *testing.T) {
		h := http.Header{}
		h.Set("Retry-After", now.Add(time.Hour).Format(http.TimeFormat))
		if d := RetryDelay(h, now, 1, max); d != max {
			t.Errorf("RetryDelay = %v, want %v", d, max)
		}
	})

	t.Run("absent or garbage hint falls back to computed delay", func(t *testing.T) {
		for _, ra := range []string{"", "soon", "-3"} {
			h := http.Header{}
			if ra != "" {
				h.Set("Retry-After", ra)
			}
			d := RetryDelay(h, now, 1, max)
			if d < time.Second || d >= time.Second+jitterBound {
				t.Errorf("Retry-After=%q: RetryDelay = %v, want computed backoff", ra, d)
			}
		}
	})
}

// Package backoff computes retry delays for transient provider failures.
//
// Delays grow exponentially with a small random jitter and are capped at a
// configurable maximum. When the upstream response carries a Retry-After
// hint, the hint takes precedence over the computed delay.
package backoff

import (
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

const (
	baseDelay = time.Second

	// jitterBound is the exclusive upper bound of the random jitter added to
	// each computed delay.
	jitterBound = 250 * time.Millisecond

	// maxExponent clamps the doubling so the shift cannot overflow for large
	// attempt counts.
	maxExponent = 10
)

// Delay returns the wait before retry number attempt (1-based): 1s, 2s, 4s...
// plus jitter, capped at maxDelay. Never negative.
func Delay(attempt int, maxDelay time.Duration) time.Duration {
	exp := attempt - 1
	if exp < 0 {
		exp = 0
	}
	if exp > maxExponent {
		exp = maxExponent
	}

	d := baseDelay<<exp + time.Duration(rand.Int63n(int64(jitterBound)))
	if d > maxDelay {
		return maxDelay
	}
	return d
}

// RetryDelay resolves the wait before retry number attempt, honoring a
// Retry-After response header when present. A delta-seconds hint is used
// as-is; an HTTP-date hint is converted to the time remaining from now,
// floored at zero and capped at maxDelay. Without a usable hint it falls
// back to Delay.
func RetryDelay(headers http.Header, now time.Time, attempt int, maxDelay time.Duration) time.Duration {
	if ra := headers.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
		if at, err := http.ParseTime(ra); err == nil {
			wait := at.Sub(now)
			if wait < 0 {
				wait = 0
			}
			if wait > maxDelay {
				wait = maxDelay
			}
			return wait
		}
	}
	return Delay(attempt, maxDelay)
}

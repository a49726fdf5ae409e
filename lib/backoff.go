package lib

import (
	"math/rand/v2"
	"time"
)

// Backoff returns the delay before retry number attempt (0 based): base
// doubled per attempt, capped at max, with jitter in [d/2, d].
func Backoff(attempt int, base, max time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	if max < base {
		max = base
	}

	backoff := base
	for i := 0; i < attempt && backoff < max; i++ {
		backoff *= 2
	}
	backoff = min(backoff, max)

	half := backoff / 2
	return half + time.Duration(rand.Int64N(int64(half)+1))
}

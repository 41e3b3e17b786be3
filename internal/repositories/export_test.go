package repository

import "time"

// SetClock pins the rate limiter's notion of now so tests can state
// exact window bounds.
func (r *RedisRepo) SetClock(now func() time.Time) {
	r.now = now
}

package prescriptions

import (
	"go.uber.org/ratelimit"
)

type RateLimiter struct {
	rl ratelimit.Limiter
}

func NewRateLimiter(config Config) *RateLimiter {
	return &RateLimiter{
		rl: ratelimit.New(int(config.SubmissionsPerSecond)),
	}
}

// WaitOrContinue blocks if the rate limit is exceeded
func (r *RateLimiter) WaitOrContinue() {
	r.rl.Take()
}

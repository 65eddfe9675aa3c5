package middleware

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultAuthAttemptLimit  = 5
	defaultAuthAttemptWindow = time.Minute
)

// InvalidAuthRateLimiter throttles repeated invalid channel-key attempts
// per client IP. Successful authentications are never counted.
type InvalidAuthRateLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptInfo
	limit    int
	window   time.Duration
	now      func() time.Time
}

type attemptInfo struct {
	count   int
	firstAt time.Time
}

// NewInvalidAuthRateLimiter constructs a limiter allowing limit failed
// attempts per window for each IP. Non-positive arguments fall back to
// 5 attempts per minute.
func NewInvalidAuthRateLimiter(limit int, window time.Duration) *InvalidAuthRateLimiter {
	if limit <= 0 {
		limit = defaultAuthAttemptLimit
	}
	if window <= 0 {
		window = defaultAuthAttemptWindow
	}
	rl := &InvalidAuthRateLimiter{
		attempts: make(map[string]*attemptInfo),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
	go rl.cleanup()
	return rl
}

// Allow reports whether ip may make another invalid attempt inside the
// current window.
func (r *InvalidAuthRateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	info, exists := r.attempts[ip]
	if !exists || now.Sub(info.firstAt) > r.window {
		r.attempts[ip] = &attemptInfo{count: 1, firstAt: now}
		return true
	}

	if info.count >= r.limit {
		log.Warn().Str("ip", ip).Int("attempts", info.count).Msg("Invalid auth attempts rate limited")
		return false
	}
	info.count++
	return true
}

func (r *InvalidAuthRateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		r.mu.Lock()
		now := r.now()
		for ip, info := range r.attempts {
			if now.Sub(info.firstAt) > r.window {
				delete(r.attempts, ip)
			}
		}
		r.mu.Unlock()
	}
}

package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvalidAuthRateLimiterBlocksAfterLimit(t *testing.T) {
	rl := NewInvalidAuthRateLimiter(3, time.Minute)
	base := time.Now()
	rl.now = func() time.Time { return base }

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "attempt %d should pass", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
}

func TestInvalidAuthRateLimiterIsPerIP(t *testing.T) {
	rl := NewInvalidAuthRateLimiter(1, time.Minute)
	base := time.Now()
	rl.now = func() time.Time { return base }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestInvalidAuthRateLimiterWindowResets(t *testing.T) {
	rl := NewInvalidAuthRateLimiter(2, time.Minute)
	base := time.Now()
	rl.now = func() time.Time { return base }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	rl.now = func() time.Time { return base.Add(61 * time.Second) }
	assert.True(t, rl.Allow("10.0.0.1"))
}

func TestInvalidAuthRateLimiterDefaults(t *testing.T) {
	rl := NewInvalidAuthRateLimiter(0, 0)
	assert.Equal(t, defaultAuthAttemptLimit, rl.limit)
	assert.Equal(t, defaultAuthAttemptWindow, rl.window)
}

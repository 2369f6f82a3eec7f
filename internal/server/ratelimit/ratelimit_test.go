package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(limit int, window time.Duration) *Limiter {
	return NewLimiter(&Config{Enabled: true, Limit: limit, Window: window})
}

func TestAllow_WithinLimit(t *testing.T) {
	l := newTestLimiter(3, time.Minute)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		info := l.Allow("client-a")
		assert.True(t, info.Allowed, "request %d should be allowed", i)
	}
}

func TestAllow_ExceedsLimit(t *testing.T) {
	l := newTestLimiter(2, time.Hour)
	defer l.Stop()

	l.Allow("client-a")
	l.Allow("client-a")

	info := l.Allow("client-a")
	assert.False(t, info.Allowed)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	l := newTestLimiter(1, time.Hour)
	defer l.Stop()

	assert.True(t, l.Allow("client-a").Allowed)
	assert.False(t, l.Allow("client-a").Allowed)
	assert.True(t, l.Allow("client-b").Allowed)
}

func TestAllow_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false, Limit: 1, Window: time.Hour})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow("client-a").Allowed)
	}
}

func TestAllow_RefillsOverTime(t *testing.T) {
	l := newTestLimiter(1, 50*time.Millisecond)
	defer l.Stop()

	assert.True(t, l.Allow("client-a").Allowed)
	assert.False(t, l.Allow("client-a").Allowed)

	time.Sleep(60 * time.Millisecond)
	assert.True(t, l.Allow("client-a").Allowed)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "")
	t.Setenv("RATE_LIMIT_REQUESTS", "")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 60, cfg.Limit)
	assert.Equal(t, time.Minute, cfg.Window)
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}

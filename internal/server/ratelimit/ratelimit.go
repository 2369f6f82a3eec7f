// Package ratelimit provides per-client request limiting using token buckets.
package ratelimit

import (
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds limiter settings.
type Config struct {
	Enabled bool
	// Limit is the burst capacity per client.
	Limit int
	// Window is the time it takes an idle bucket to refill completely.
	Window time.Duration
	// CleanupInterval controls how often idle buckets are dropped.
	CleanupInterval time.Duration
}

// LoadConfig reads limiter settings from the environment.
// RATE_LIMIT_ENABLED defaults to true, RATE_LIMIT_REQUESTS to 60 per
// RATE_LIMIT_WINDOW_SECONDS (default 60).
func LoadConfig() *Config {
	cfg := &Config{
		Enabled:         true,
		Limit:           60,
		Window:          time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		cfg.Enabled = v != "false" && v != "0"
	}
	if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT_REQUESTS")); err == nil && v > 0 {
		cfg.Limit = v
	}
	if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); err == nil && v > 0 {
		cfg.Window = time.Duration(v) * time.Second
	}
	return cfg
}

// Info describes the limiter state for one client after a check.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// Limiter tracks a token bucket per client identifier.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	cfg     *Config
	stop    chan struct{}
	once    sync.Once
}

// NewLimiter builds a limiter and starts its idle-bucket cleanup loop.
func NewLimiter(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = LoadConfig()
	}
	l := &Limiter{
		buckets: make(map[string]*bucket),
		cfg:     cfg,
		stop:    make(chan struct{}),
	}
	if cfg.Enabled && cfg.CleanupInterval > 0 {
		go l.cleanupLoop()
	}
	return l
}

// Allow consumes one token for clientID and reports whether the request may
// proceed.
func (l *Limiter) Allow(clientID string) Info {
	if !l.cfg.Enabled {
		return Info{Allowed: true, Limit: l.cfg.Limit, Remaining: l.cfg.Limit}
	}

	refillRate := float64(l.cfg.Limit) / l.cfg.Window.Seconds()
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[clientID]
	if !ok {
		b = &bucket{tokens: float64(l.cfg.Limit), lastRefill: now}
		l.buckets[clientID] = b
	}

	b.tokens += now.Sub(b.lastRefill).Seconds() * refillRate
	if b.tokens > float64(l.cfg.Limit) {
		b.tokens = float64(l.cfg.Limit)
	}
	b.lastRefill = now

	info := Info{Limit: l.cfg.Limit}
	if b.tokens >= 1 {
		b.tokens--
		info.Allowed = true
	} else {
		info.RetryAfter = time.Duration((1 - b.tokens) / refillRate * float64(time.Second))
	}
	info.Remaining = int(b.tokens)
	if b.tokens < float64(l.cfg.Limit) {
		deficit := float64(l.cfg.Limit) - b.tokens
		info.ResetTime = now.Add(time.Duration(deficit / refillRate * float64(time.Second)))
	} else {
		info.ResetTime = now
	}
	return info
}

// Stop terminates the cleanup loop.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-l.cfg.CleanupInterval)
			l.mu.Lock()
			for id, b := range l.buckets {
				if b.lastRefill.Before(cutoff) {
					delete(l.buckets, id)
				}
			}
			l.mu.Unlock()
		}
	}
}

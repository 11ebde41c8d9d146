package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock pins the limiter's clock so refills only happen when the test advances it.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, config *Config) (*Limiter, *fixedClock) {
	t.Helper()
	limiter := NewLimiter(config)
	t.Cleanup(limiter.Stop)
	clock := &fixedClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	limiter.now = clock.Now
	return limiter, clock
}

func TestLimiter_Allow(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, 6.0, info.RetryAfter.Seconds(), 0.001)
	assert.True(t, info.ResetTime.After(limiter.now()))
}

func TestLimiter_Refill(t *testing.T) {
	limiter, clock := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: 10 * time.Second,
	})

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed)
	}
	allowed, _ := limiter.Allow("127.0.0.1", "/test", "GET")
	require.False(t, allowed)

	clock.Advance(time.Second)

	allowed, _ = limiter.Allow("127.0.0.1", "/test", "GET")
	assert.True(t, allowed, "one token refilled after one second")
	allowed, _ = limiter.Allow("127.0.0.1", "/test", "GET")
	assert.False(t, allowed)
}

func TestLimiter_DeniedRequestDoesNotConsume(t *testing.T) {
	limiter, clock := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Second,
	})

	allowed, _ := limiter.Allow("127.0.0.1", "/test", "GET")
	require.True(t, allowed)
	for i := 0; i < 5; i++ {
		allowed, _ = limiter.Allow("127.0.0.1", "/test", "GET")
		require.False(t, allowed)
	}

	clock.Advance(time.Second)
	allowed, _ = limiter.Allow("127.0.0.1", "/test", "GET")
	assert.True(t, allowed)
}

func TestLimiter_Whitelist(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
	})

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"192.168.1.1": true},
	})

	allowed, _ := limiter.Allow("192.168.1.1", "/test", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{Enabled: false})

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/api/parse", Method: "POST", Limit: 5, Window: time.Hour, Burst: 5},
		},
	})

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/api/parse", "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 5, info.Limit)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/api/parse", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 5, info.Limit)

	allowed, info = limiter.Allow("127.0.0.1", "/other", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)

	allowed, _ = limiter.Allow("10.0.0.2", "/api/parse", "POST")
	assert.True(t, allowed, "other clients have their own bucket")
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
	})

	for i := 0; i < 20; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("127.0.0.1", "/test", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowedCount)
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	limiter, clock := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		IdleTimeout:   time.Minute,
	})

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/test", "GET")
		require.True(t, allowed)
	}

	clock.Advance(45 * time.Second)
	for i := 0; i < 5; i++ {
		limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/test", "GET")
	}

	clock.Advance(30 * time.Second)
	limiter.cleanupBuckets()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Len(t, limiter.buckets, 5)
	assert.Contains(t, limiter.buckets, "127.0.0.1:/test:GET")
	assert.NotContains(t, limiter.buckets, "127.0.0.10:/test:GET")
}

func TestLimiter_Burst(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/burst", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		},
	})

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/burst", "POST")
		require.True(t, allowed, "burst request %d", i+1)
	}

	allowed, _ := limiter.Allow("127.0.0.1", "/burst", "POST")
	assert.False(t, allowed)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter, _ := newTestLimiter(t, nil)

	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Second, CleanupInterval: time.Second})
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	match := MatchEndpoint("/api/parse", "POST", configs)
	require.NotNil(t, match)
	assert.Equal(t, "/api/parse", match.Path)

	match = MatchEndpoint("/api/parse-pdf", "POST", configs)
	require.NotNil(t, match)
	assert.Equal(t, "/api/parse-pdf", match.Path)

	assert.Nil(t, MatchEndpoint("/api/parse", "GET", configs))
	assert.Nil(t, MatchEndpoint("/unknown", "POST", configs))

	health := MatchEndpoint("/health", "GET", configs)
	require.NotNil(t, health)
	assert.Equal(t, 0, health.Limit)
}

func TestMatchEndpoint_ExactOnly(t *testing.T) {
	configs := []EndpointConfig{{Path: "/api/parse", Method: "POST", Limit: 3, Window: time.Minute}}

	assert.Nil(t, MatchEndpoint("/api/parse/extra", "POST", configs))
	assert.Nil(t, MatchEndpoint("/api/parse-pdf", "POST", configs))
	assert.Nil(t, MatchEndpoint("/api", "POST", configs))

	match := MatchEndpoint("/api/parse", "POST", configs)
	require.NotNil(t, match)
	assert.Equal(t, 3, match.Limit)
}

func TestMatchEndpoint_UnlimitedRoutes(t *testing.T) {
	configs := DefaultEndpointConfigs()

	preflight := MatchEndpoint("/api/parse", "OPTIONS", configs)
	require.NotNil(t, preflight)
	assert.Equal(t, 0, preflight.Limit)

	// POST /health is not the health check
	assert.Nil(t, MatchEndpoint("/health", "POST", configs))
}

func TestLimiter_PreflightUnlimited(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    1,
		DefaultWindow:   time.Hour,
		EndpointConfigs: DefaultEndpointConfigs(),
	})

	for i := 0; i < 20; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/api/parse", "OPTIONS")
		require.True(t, allowed)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "50")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_PARSE_LIMIT", "7")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")
	t.Setenv("RATE_LIMIT_BLACKLIST", "")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 50, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Whitelist)
	assert.Empty(t, cfg.Blacklist)
	for _, ec := range cfg.EndpointConfigs {
		assert.Equal(t, 7, ec.Limit, ec.Path)
	}
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	cfg := LoadConfig()
	assert.False(t, cfg.Enabled)
}

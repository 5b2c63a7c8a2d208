package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterSlidingWindow(t *testing.T) {
	l := NewRateLimiter(3, time.Minute)
	base := time.Now()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("client-a", base.Add(time.Duration(i)*time.Second)))
	}
	assert.False(t, l.Allow("client-a", base.Add(3*time.Second)))

	// Once the window has slid past the first requests, the client is
	// admitted again.
	assert.True(t, l.Allow("client-a", base.Add(time.Minute+2*time.Second)))
}

func TestRateLimiterRejectionNotRecorded(t *testing.T) {
	l := NewRateLimiter(1, time.Minute)
	base := time.Now()

	require.True(t, l.Allow("client-a", base))
	for i := 1; i <= 5; i++ {
		assert.False(t, l.Allow("client-a", base.Add(time.Duration(i)*time.Second)))
	}

	// Only the admitted request counts against the window, so capacity
	// returns exactly one window after it, not after the rejections.
	assert.True(t, l.Allow("client-a", base.Add(time.Minute+time.Second)))
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	l := NewRateLimiter(1, time.Minute)
	now := time.Now()

	assert.True(t, l.Allow("client-a", now))
	assert.False(t, l.Allow("client-a", now))
	assert.True(t, l.Allow("client-b", now))
}

func TestRateLimiterSweepEvictsIdleClients(t *testing.T) {
	l := NewRateLimiter(3, time.Minute)
	base := time.Now()

	require.True(t, l.Allow("idle", base))
	require.True(t, l.Allow("fresh", base.Add(time.Minute)))

	l.sweep(base.Add(time.Minute + time.Second))

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.clients, "idle")
	assert.Contains(t, l.clients, "fresh")
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := NewRateLimiter(1, time.Minute)

	r := gin.New()
	r.Use(RateLimit(l))
	r.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"success": true}) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), `"success":false`)
}

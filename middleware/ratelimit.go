package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter keeps a sliding window of request timestamps per client.
// The map is guarded because handlers run concurrently.
type RateLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	clients map[string][]time.Time
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		max:     max,
		window:  window,
		clients: make(map[string][]time.Time),
	}
}

// Allow prunes timestamps older than the window and admits the request
// if the client has capacity left. Rejected requests are not recorded.
func (l *RateLimiter) Allow(clientID string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	recent := l.clients[clientID][:0]
	for _, t := range l.clients[clientID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.max {
		l.clients[clientID] = recent
		return false
	}

	l.clients[clientID] = append(recent, now)
	return true
}

// sweep evicts clients whose last request is older than the window,
// keeping the map bounded under churning client identities.
func (l *RateLimiter) sweep(now time.Time) {
	cutoff := now.Add(-l.window)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, stamps := range l.clients {
		if len(stamps) == 0 || stamps[len(stamps)-1].Before(cutoff) {
			delete(l.clients, key)
		}
	}
}

// StartCleanup sweeps idle clients on a ticker.
func (l *RateLimiter) StartCleanup(interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for range t.C {
			l.sweep(time.Now())
		}
	}()
}

// RateLimit rejects clients that exceed the window's request limit.
func RateLimit(l *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP(), time.Now()) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(l.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/DDDesignDev/homelab/config"
	"github.com/DDDesignDev/homelab/models"
)

const (
	limiterIdle = time.Hour
	sweepEvery  = 5 * time.Minute
)

// clientLimiters holds one token bucket per client IP.
type clientLimiters struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	buckets map[string]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func (l *clientLimiters) get(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.every, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = now
	return b.limiter
}

// sweep drops buckets idle since before cutoff.
func (l *clientLimiters) sweep(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, ip)
		}
	}
}

// RateLimit returns per-client-IP token-bucket middleware. A non-positive
// rate disables it. Buckets idle for an hour are swept every 5 minutes.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiters := &clientLimiters{
		every:   rate.Limit(cfg.RequestsPerSecond),
		burst:   max(cfg.Burst, 1),
		buckets: make(map[string]*bucket),
	}
	retryAfter := strconv.Itoa(int(math.Ceil(1 / cfg.RequestsPerSecond)))

	go func() {
		ticker := time.NewTicker(sweepEvery)
		defer ticker.Stop()
		for now := range ticker.C {
			limiters.sweep(now.Add(-limiterIdle))
		}
	}()

	return func(c *gin.Context) {
		if limiters.get(c.ClientIP(), time.Now()).Allow() {
			c.Next()
			return
		}
		c.Header("Retry-After", retryAfter)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
			Success: false,
			Error: &models.ErrorDetail{
				Code:    models.ErrCodeRateLimited,
				Message: "rate limit exceeded, please slow down",
			},
		})
	}
}

package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hotel-admin/utils"
)

const (
	limiterSweepInterval = time.Minute
	limiterMinIdle       = 10 * time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds a map of IP addresses to their rate limiters. Entries idle for
// longer than idleTTL are swept on access, at most once per limiterSweepInterval.
type rateLimiterStore struct {
	limiters  map[string]*limiterEntry
	mu        sync.Mutex
	every     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newRateLimiterStore(perMinute, burst int) *rateLimiterStore {
	interval := time.Minute / time.Duration(perMinute)
	// an entry is only dropped once its bucket would have refilled anyway
	idle := time.Duration(burst) * interval
	if idle < limiterMinIdle {
		idle = limiterMinIdle
	}
	return &rateLimiterStore{
		limiters: make(map[string]*limiterEntry),
		every:    rate.Every(interval),
		burst:    burst,
		idleTTL:  idle,
		now:      time.Now,
	}
}

func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= limiterSweepInterval {
		s.sweep(now)
	}

	entry, exists := s.limiters[ip]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(s.every, s.burst)}
		s.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

func (s *rateLimiterStore) sweep(now time.Time) {
	for ip, entry := range s.limiters {
		if now.Sub(entry.lastSeen) > s.idleTTL {
			delete(s.limiters, ip)
		}
	}
	s.lastSweep = now
}

// RateLimit allows perMinute requests per client IP with the given burst. Zero disables it.
func RateLimit(perMinute, burst int, log *zap.Logger) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	store := newRateLimiterStore(perMinute, burst)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.getLimiter(ip).Allow() {
			log.Warn("rate limit exceeded", zap.String("ip", ip))
			utils.AbortJSONError(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded, try again later")
			return
		}
		c.Next()
	}
}

package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/JonnyWalker81/patternlog/internal/apierror"
	"github.com/JonnyWalker81/patternlog/internal/logger"
)

// RateLimiter provides token bucket rate limiting per client IP
type RateLimiter struct {
	clients map[string]*clientInfo
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	idle    time.Duration // clients unseen for this long are dropped
	name    string        // identifier for logging
	stop    chan struct{}
	once    sync.Once
}

type clientInfo struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing perSecond requests per client
// with bursts of up to burst requests
func NewRateLimiter(perSecond float64, burst int, name string) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientInfo),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		idle:    3 * time.Minute,
		name:    name,
		stop:    make(chan struct{}),
	}

	go rl.cleanup(time.Minute)

	logger.Default().Debug("rate limiter initialized",
		logger.String("name", name),
		logger.Float64("per_second", perSecond),
		logger.Int("burst", burst),
	)

	return rl
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// cleanup removes idle clients periodically
func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			if cleaned, remaining := rl.sweep(now); cleaned > 0 {
				logger.Default().Debug("rate limiter cleanup completed",
					logger.String("name", rl.name),
					logger.Int("cleaned", cleaned),
					logger.Int("remaining", remaining),
				)
			}
		}
	}
}

func (rl *RateLimiter) sweep(now time.Time) (cleaned, remaining int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, info := range rl.clients {
		if now.Sub(info.lastSeen) > rl.idle {
			delete(rl.clients, ip)
			cleaned++
		}
	}
	return cleaned, len(rl.clients)
}

// reserve takes a token for ip. When none is available it returns false and
// the wait until the next one.
func (rl *RateLimiter) reserve(ip string, now time.Time) (bool, time.Duration) {
	rl.mu.Lock()
	info, ok := rl.clients[ip]
	if !ok {
		info = &clientInfo{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = info
	}
	info.lastSeen = now
	rl.mu.Unlock()

	if info.limiter.AllowN(now, 1) {
		return true, 0
	}
	r := info.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	return false, wait
}

// Handler returns the middleware enforcing the limiter
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed, wait := rl.reserve(ip, time.Now())
		if !allowed {
			retryAfter := int(math.Ceil(wait.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}

			logger.Ctx(c.Request.Context()).Warn("rate limit exceeded",
				logger.String("limiter", rl.name),
				logger.String("client_ip", ip),
				logger.Duration("retry_after", wait),
			)

			c.Header("X-RateLimit-Limit", strconv.Itoa(rl.burst))
			c.Header("X-RateLimit-Remaining", "0")
			apierror.WriteProblem(c, apierror.NewRateLimitError(apierror.GetRequestID(c), retryAfter))
			c.Abort()
			return
		}

		c.Next()
	}
}

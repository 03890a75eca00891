package middleware

import (
	"net/http"
	"sync"
	"time"

	"hrms/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const rateLimitClientTTL = 10 * time.Minute

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles per client IP using a token bucket. Applied to the
// credential endpoints so password guessing is bounded even though bcrypt
// already makes each attempt expensive.
type RateLimiter struct {
	rps   rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*rateLimitClient
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*rateLimitClient),
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		for ip, client := range rl.clients {
			if time.Since(client.lastSeen) > rateLimitClientTTL {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rl.mu.Lock()
		client, ok := rl.clients[ip]
		if !ok {
			client = &rateLimitClient{limiter: rate.NewLimiter(rl.rps, rl.burst)}
			rl.clients[ip] = client
		}
		client.lastSeen = time.Now()
		allowed := client.limiter.Allow()
		rl.mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Error(http.StatusTooManyRequests, "Too many requests"))
			return
		}

		c.Next()
	}
}

package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitor holds the rate limiter and the last time we saw this IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// VisitorLimiter keeps one token bucket per client IP.
type VisitorLimiter struct {
	every time.Duration
	burst int

	mu       sync.Mutex
	visitors map[string]*visitor
}

func NewVisitorLimiter(every time.Duration, burst int) *VisitorLimiter {
	return &VisitorLimiter{
		every:    every,
		burst:    burst,
		visitors: make(map[string]*visitor),
	}
}

// NewLoginLimiter is the limiter used on login and signup: one attempt every
// ten seconds on average, burst of 5.
func NewLoginLimiter() *VisitorLimiter {
	return NewVisitorLimiter(10*time.Second, 5)
}

func (l *VisitorLimiter) getVisitor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Every(l.every), l.burst)
		l.visitors[ip] = &visitor{
			limiter:  limiter,
			lastSeen: time.Now(),
		}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// Cleanup forgets visitors not seen for idle.
func (l *VisitorLimiter) Cleanup(idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ip, v := range l.visitors {
		if time.Since(v.lastSeen) > idle {
			delete(l.visitors, ip)
		}
	}
}

// Middleware throttles POST requests per IP. Form pages stay reachable with
// GET so a throttled visitor can still read the error.
func (l *VisitorLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		if !l.getVisitor(c.ClientIP()).Allow() {
			c.String(http.StatusTooManyRequests, "Too many authentication attempts. Please wait and try again.")
			c.Abort()
			return
		}
		c.Next()
	}
}

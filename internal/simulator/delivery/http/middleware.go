package http

import (
	"net/http"
	"sync"
	"time"

	"classroom-stock-sim/internal/simulator/dto"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// visitorLimiter tracks one token bucket per client IP. Entries idle longer
// than the eviction window are dropped by a background sweep.
type visitorLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
	done     chan struct{}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newVisitorLimiter(r rate.Limit, burst int) *visitorLimiter {
	vl := &visitorLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    burst,
		done:     make(chan struct{}),
	}
	go vl.cleanup()
	return vl
}

func (vl *visitorLimiter) allow(ip string) bool {
	vl.mu.Lock()
	defer vl.mu.Unlock()

	v, ok := vl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(vl.rate, vl.burst)}
		vl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

func (vl *visitorLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-vl.done:
			return
		case <-ticker.C:
			vl.sweep(3 * time.Minute)
		}
	}
}

// sweep drops visitors idle longer than maxIdle.
func (vl *visitorLimiter) sweep(maxIdle time.Duration) {
	vl.mu.Lock()
	defer vl.mu.Unlock()
	for ip, v := range vl.visitors {
		if time.Since(v.lastSeen) > maxIdle {
			delete(vl.visitors, ip)
		}
	}
}

// stop ends the background sweep.
func (vl *visitorLimiter) stop() {
	close(vl.done)
}

// AuthRateLimit limits auth attempts per client IP to slow down password
// guessing against the simple credential scheme.
func AuthRateLimit() echo.MiddlewareFunc {
	limiter := newVisitorLimiter(rate.Every(time.Second), 10)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Error: "요청이 너무 많습니다. 잠시 후 다시 시도해주세요."})
			}
			return next(c)
		}
	}
}

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestVisitorLimiter_BurstThenBlocked(t *testing.T) {
	vl := newVisitorLimiter(rate.Every(time.Hour), 3)
	defer vl.stop()

	for i := 0; i < 3; i++ {
		assert.True(t, vl.allow("10.0.0.1"), "request %d within burst", i)
	}
	assert.False(t, vl.allow("10.0.0.1"))

	// Other clients keep their own bucket.
	assert.True(t, vl.allow("10.0.0.2"))
}

func TestVisitorLimiter_SweepEvictsIdle(t *testing.T) {
	vl := newVisitorLimiter(rate.Every(time.Second), 3)
	defer vl.stop()

	vl.allow("10.0.0.1")
	vl.allow("10.0.0.2")

	vl.mu.Lock()
	vl.visitors["10.0.0.1"].lastSeen = time.Now().Add(-10 * time.Minute)
	vl.mu.Unlock()

	vl.sweep(3 * time.Minute)

	vl.mu.Lock()
	defer vl.mu.Unlock()
	_, idleKept := vl.visitors["10.0.0.1"]
	_, activeKept := vl.visitors["10.0.0.2"]
	assert.False(t, idleKept)
	assert.True(t, activeKept)
}

func TestAuthRateLimit_TooManyRequests(t *testing.T) {
	e := echo.New()
	e.POST("/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, AuthRateLimit())

	var last int
	for i := 0; i < 12; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCache_ServesRepeatedGets(t *testing.T) {
	store := cache.New(time.Minute, time.Minute)
	calls := 0

	r := gin.New()
	r.GET("/state", Cache(store, time.Minute), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/state", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"calls":1}`, w.Body.String())
	}
	assert.Equal(t, 1, calls)

	store.Flush()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/state", nil)
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"calls":2}`, w.Body.String())
}

func TestCache_SkipsErrors(t *testing.T) {
	store := cache.New(time.Minute, time.Minute)

	r := gin.New()
	r.GET("/broken", Cache(store, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "down"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/broken", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, 0, store.ItemCount())
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(rate.Limit(1), 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.7:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	// A different client has its own bucket.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.8:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestIPRateLimiter_ReusesLimiter(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)
	assert.Same(t, l.GetLimiter("1.2.3.4"), l.GetLimiter("1.2.3.4"))
	assert.NotSame(t, l.GetLimiter("1.2.3.4"), l.GetLimiter("5.6.7.8"))
}

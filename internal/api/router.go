package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"aircon-bridge/config"
	"aircon-bridge/internal/climate"
	"aircon-bridge/internal/mw"
	"aircon-bridge/internal/store"
)

// NewRouter creates and configures a new Gin router. s may be nil when the
// command log is disabled.
func NewRouter(r *climate.Registry, s store.Store, cfg config.ServerConfig) *gin.Engine {
	engine := gin.Default()

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	cacheStore := cache.New(ttl, 2*ttl)
	handler := NewHandler(r, s, cacheStore)

	perSec, burst := cfg.RateLimitPerSec, cfg.RateLimitBurst
	if perSec <= 0 {
		perSec = 10
	}
	if burst <= 0 {
		burst = 5
	}
	rateLimiter := mw.RateLimiter(rate.Limit(perSec), burst)
	caching := mw.Cache(cacheStore, ttl)

	api := engine.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/entities", caching, handler.ListEntities)
		api.GET("/entities/:id", caching, handler.GetEntity)
		api.GET("/entities/:id/commands", handler.GetCommands)
		api.GET("/fan_speeds", caching, handler.GetFanSpeeds)

		api.POST("/entities/:id/hvac_mode", handler.SetHVACMode)
		api.POST("/entities/:id/fan_mode", handler.SetFanMode)
		api.POST("/entities/:id/temperature", handler.SetTemperature)
		api.POST("/services/:service", handler.CallService)
	}

	return engine
}

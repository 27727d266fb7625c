package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"aircon-bridge/internal/climate"
	"aircon-bridge/internal/coordinator"
	"aircon-bridge/internal/device"
	"aircon-bridge/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	registry *climate.Registry
	store    store.Store
	cache    *cache.Cache
}

// NewHandler creates a new API handler. s and c may be nil.
func NewHandler(r *climate.Registry, s store.Store, c *cache.Cache) *Handler {
	return &Handler{
		registry: r,
		store:    s,
		cache:    c,
	}
}

// invalidate drops cached GET responses so reads after a command see it.
func (h *Handler) invalidate() {
	if h.cache != nil {
		h.cache.Flush()
	}
}

func (h *Handler) entity(c *gin.Context) (climate.Entity, bool) {
	e, err := h.registry.Get(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return e, true
}

// respondCommand writes the outcome of a command on e.
func (h *Handler) respondCommand(c *gin.Context, e climate.Entity, err error) {
	switch {
	case err == nil:
		h.invalidate()
		c.JSON(http.StatusOK, e.State())
	case errors.Is(err, coordinator.ErrStateUnknown):
		h.invalidate()
		c.JSON(http.StatusAccepted, gin.H{
			"warning": "command was accepted but the refreshed state is not available yet",
			"error":   err.Error(),
			"state":   e.State(),
		})
	default:
		c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, climate.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, climate.ErrUnknownEntity), errors.Is(err, climate.ErrUnknownService), errors.Is(err, device.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, climate.ErrUnsupported):
		return http.StatusConflict
	case errors.Is(err, coordinator.ErrCommunication):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

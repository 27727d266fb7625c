package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aircon-bridge/internal/vocab"
)

// ListEntities handles GET /api/entities.
func (h *Handler) ListEntities(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.States())
}

// GetEntity handles GET /api/entities/:id.
func (h *Handler) GetEntity(c *gin.Context) {
	e, ok := h.entity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, e.State())
}

// GetFanSpeeds handles GET /api/fan_speeds.
func (h *Handler) GetFanSpeeds(c *gin.Context) {
	c.JSON(http.StatusOK, vocab.FanSpeeds)
}

// GetCommands handles GET /api/entities/:id/commands.
func (h *Handler) GetCommands(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "command log is not configured"})
		return
	}
	e, ok := h.entity(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	records, err := h.store.RecentCommands(c.Request.Context(), e.ID(), limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve commands"})
		return
	}
	c.JSON(http.StatusOK, records)
}

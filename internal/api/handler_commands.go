package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"aircon-bridge/internal/climate"
	"aircon-bridge/internal/vocab"
)

type hvacModeRequest struct {
	HVACMode string `json:"hvac_mode" binding:"required"`
}

type fanModeRequest struct {
	FanMode string `json:"fan_mode" binding:"required"`
}

type temperatureRequest struct {
	Temperature *float64 `json:"temperature" binding:"required"`
}

type serviceRequest struct {
	EntityID string `json:"entity_id" binding:"required"`
}

// SetHVACMode handles POST /api/entities/:id/hvac_mode.
func (h *Handler) SetHVACMode(c *gin.Context) {
	var req hvacModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e, ok := h.entity(c)
	if !ok {
		return
	}
	h.respondCommand(c, e, e.SetHVACMode(c.Request.Context(), vocab.HVACMode(req.HVACMode)))
}

// SetFanMode handles POST /api/entities/:id/fan_mode.
func (h *Handler) SetFanMode(c *gin.Context) {
	var req fanModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e, ok := h.entity(c)
	if !ok {
		return
	}
	fc, ok := e.(climate.FanController)
	if !ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("%s has no fan control", e.ID())})
		return
	}
	h.respondCommand(c, e, fc.SetFanMode(c.Request.Context(), vocab.FanMode(req.FanMode)))
}

// SetTemperature handles POST /api/entities/:id/temperature.
func (h *Handler) SetTemperature(c *gin.Context) {
	var req temperatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e, ok := h.entity(c)
	if !ok {
		return
	}
	h.respondCommand(c, e, e.SetTemperature(c.Request.Context(), *req.Temperature))
}

// CallService handles POST /api/services/:service.
func (h *Handler) CallService(c *gin.Context) {
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e, err := h.registry.Get(req.EntityID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.respondCommand(c, e, h.registry.CallService(c.Request.Context(), c.Param("service"), req.EntityID))
}

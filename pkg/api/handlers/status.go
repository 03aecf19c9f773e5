package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/wardwatch/pkg/api/types"
)

// StatusHandler serves the monitor state.
type StatusHandler struct {
	monitor Monitor
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(m Monitor) *StatusHandler {
	return &StatusHandler{monitor: m}
}

// Status handles GET /status
// @Summary      Monitor state
// @Description  Returns presence, orientation, department and temperature as of the last cycle
// @Tags         monitor
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func (h *StatusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, types.StatusResponse{
		State:     h.monitor.Snapshot(),
		Timestamp: time.Now(),
	})
}

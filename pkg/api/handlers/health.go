package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/wardwatch/pkg/api/types"
	"github.com/urmzd/wardwatch/pkg/monitor"
)

// Monitor is the part of the monitor loop the handlers use.
type Monitor interface {
	Snapshot() monitor.Snapshot
	Dispatch(ctx context.Context, raw string) (monitor.Result, error)
	ToggleCommissioning(ctx context.Context) (monitor.Result, error)
	ReloadBeacons(ctx context.Context, beacons []monitor.Beacon) error
	SetSite(ctx context.Context, site monitor.Site) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	monitor Monitor
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(m Monitor) *HealthHandler {
	return &HealthHandler{monitor: m}
}

func connection(ok bool) string {
	if ok {
		return "connected"
	}
	return "disconnected"
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the connectivity of the motion sensor, the BLE scanner and the broker
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "All collaborators connected"
// @Failure      503  {object}  types.HealthResponse  "Running degraded"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	snap := h.monitor.Snapshot()

	status := "healthy"
	httpStatus := http.StatusOK
	if !snap.MotionConnected || !snap.ScannerConnected || !snap.TransportConnected {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:    status,
		Motion:    connection(snap.MotionConnected),
		Scanner:   connection(snap.ScannerConnected),
		Transport: connection(snap.TransportConnected),
		Timestamp: time.Now(),
	})
}

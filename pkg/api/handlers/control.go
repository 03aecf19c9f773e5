package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/wardwatch/pkg/api/types"
	"github.com/urmzd/wardwatch/pkg/monitor"
	"github.com/urmzd/wardwatch/pkg/schema"
)

// DefaultRequestTimeout bounds how long a handler waits for the loop.
const DefaultRequestTimeout = 10 * time.Second

const maxCommandBody = 4 << 10

// ControlHandler queues commands onto the monitor loop
type ControlHandler struct {
	monitor   Monitor
	validator *schema.Validator
	timeout   time.Duration
}

// NewControlHandler creates a new control handler
func NewControlHandler(m Monitor, validator *schema.Validator) *ControlHandler {
	return &ControlHandler{monitor: m, validator: validator, timeout: DefaultRequestTimeout}
}

// SendCommand handles POST /commands
// @Summary      Send a command
// @Description  Queues a text command (on/off, true/false, 1/0, fall, info or a beacon key) and waits for the loop to apply it. Beacon keys report code 3 and 4 for the first two beacons, 8 upwards for the rest.
// @Tags         control
// @Accept       json
// @Produce      json
// @Param        request  body      types.CommandRequest   true  "Command text"
// @Success      200      {object}  types.CommandResponse
// @Failure      400      {object}  types.CommandResponse  "Unknown command (code -1)"
// @Failure      504      {object}  types.ErrorResponse    "Loop did not answer in time"
// @Router       /commands [post]
func (h *ControlHandler) SendCommand(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCommandBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	if err := h.validator.Validate(schema.Command, body); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	var req types.CommandRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	res, err := h.monitor.Dispatch(ctx, req.Command)
	h.respond(c, res, err)
}

// ToggleCommissioning handles POST /commissioning
// @Summary      Toggle learning mode
// @Description  Equivalent to pressing the mode button: enters learning mode (clearing the paired identity) or leaves it
// @Tags         control
// @Produce      json
// @Success      200  {object}  types.CommandResponse  "code 6 learning on, 7 learning off"
// @Failure      504  {object}  types.ErrorResponse    "Loop did not answer in time"
// @Router       /commissioning [post]
func (h *ControlHandler) ToggleCommissioning(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	res, err := h.monitor.ToggleCommissioning(ctx)
	h.respond(c, res, err)
}

func (h *ControlHandler) respond(c *gin.Context, res monitor.Result, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, types.NewCommandResponse(res))
	case errors.Is(err, monitor.ErrInvalidCommand):
		c.JSON(http.StatusBadRequest, types.NewCommandResponse(res))
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		c.JSON(http.StatusGatewayTimeout, types.ErrorResponse{
			Error:   "timeout",
			Message: "Request timed out waiting for the monitor loop",
		})
	default:
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "monitor_error",
			Message: err.Error(),
		})
	}
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/wardwatch/pkg/api/types"
	"github.com/urmzd/wardwatch/pkg/db"
	"github.com/urmzd/wardwatch/pkg/device"
	"github.com/urmzd/wardwatch/pkg/monitor"
)

// ConfigStore holds the editable configuration of the active profile.
type ConfigStore interface {
	Beacons(ctx context.Context) ([]monitor.Beacon, error)
	Beacon(ctx context.Context, key string) (monitor.Beacon, error)
	SaveBeacon(ctx context.Context, b monitor.Beacon) (monitor.Beacon, error)
	DeleteBeacon(ctx context.Context, key string) error
	Site(ctx context.Context) (monitor.Site, error)
	SaveSite(ctx context.Context, site monitor.Site) error
	Broker(ctx context.Context) (*db.Broker, error)
	SaveBroker(ctx context.Context, b *db.Broker) error
}

// ConfigHandler handles beacon, site and broker configuration endpoints
type ConfigHandler struct {
	store   ConfigStore
	monitor Monitor
	timeout time.Duration
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(store ConfigStore, m Monitor) *ConfigHandler {
	return &ConfigHandler{store: store, monitor: m, timeout: DefaultRequestTimeout}
}

// ListBeacons handles GET /beacons
// @Summary      List department beacons
// @Description  Returns the beacon table in command-code order
// @Tags         config
// @Produce      json
// @Success      200  {object}  types.ListBeaconsResponse
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /beacons [get]
func (h *ConfigHandler) ListBeacons(c *gin.Context) {
	beacons, err := h.store.Beacons(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}

	result := make([]types.Beacon, 0, len(beacons))
	for i, b := range beacons {
		result = append(result, types.NewBeacon(i, b))
	}

	c.JSON(http.StatusOK, types.ListBeaconsResponse{
		Beacons: result,
		Count:   len(result),
	})
}

// GetBeacon handles GET /beacons/:key
// @Summary      Get a department beacon
// @Tags         config
// @Produce      json
// @Param        key  path      string  true  "Beacon key"
// @Success      200  {object}  types.Beacon
// @Failure      404  {object}  types.ErrorResponse  "Beacon not found"
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /beacons/{key} [get]
func (h *ConfigHandler) GetBeacon(c *gin.Context) {
	ctx := c.Request.Context()

	b, err := h.store.Beacon(ctx, c.Param("key"))
	if err != nil {
		storeError(c, err)
		return
	}

	beacons, err := h.store.Beacons(ctx)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewBeacon(indexOf(beacons, b.Key), b))
}

// SaveBeacon handles PUT /beacons/:key
// @Summary      Add or replace a department beacon
// @Description  Stores the beacon and reloads the monitor's beacon table. Keys are case-insensitive single words and cannot shadow built-in commands.
// @Tags         config
// @Accept       json
// @Produce      json
// @Param        key      path      string               true  "Beacon key"
// @Param        request  body      types.BeaconRequest  true  "Beacon address and department"
// @Success      200      {object}  types.Beacon
// @Failure      400      {object}  types.ErrorResponse  "Invalid key or address"
// @Failure      409      {object}  types.ErrorResponse  "Address already assigned to another beacon"
// @Failure      504      {object}  types.ErrorResponse  "Loop did not answer in time"
// @Failure      500      {object}  types.ErrorResponse  "Store error"
// @Router       /beacons/{key} [put]
func (h *ConfigHandler) SaveBeacon(c *gin.Context) {
	var req types.BeaconRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "address and department are required",
		})
		return
	}

	addr, err := device.ParseAddress(req.Address)
	if err != nil {
		storeError(c, err)
		return
	}

	saved, err := h.store.SaveBeacon(c.Request.Context(), monitor.Beacon{
		Key:        c.Param("key"),
		Address:    addr,
		Department: monitor.Department(req.Department),
	})
	if err != nil {
		storeError(c, err)
		return
	}

	beacons, ok := h.reloadBeacons(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, types.NewBeacon(indexOf(beacons, saved.Key), saved))
}

// DeleteBeacon handles DELETE /beacons/:key
// @Summary      Remove a department beacon
// @Tags         config
// @Param        key  path  string  true  "Beacon key"
// @Success      204  "Beacon removed"
// @Failure      404  {object}  types.ErrorResponse  "Beacon not found"
// @Failure      504  {object}  types.ErrorResponse  "Loop did not answer in time"
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /beacons/{key} [delete]
func (h *ConfigHandler) DeleteBeacon(c *gin.Context) {
	if err := h.store.DeleteBeacon(c.Request.Context(), c.Param("key")); err != nil {
		storeError(c, err)
		return
	}
	if _, ok := h.reloadBeacons(c); !ok {
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSite handles GET /site
// @Summary      Site coordinates
// @Tags         config
// @Produce      json
// @Success      200  {object}  types.Site
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /site [get]
func (h *ConfigHandler) GetSite(c *gin.Context) {
	site, err := h.store.Site(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.Site{Latitude: &site.Latitude, Longitude: &site.Longitude})
}

// SaveSite handles PUT /site
// @Summary      Move the site
// @Description  Stores new coordinates and applies them to subsequent events
// @Tags         config
// @Accept       json
// @Produce      json
// @Param        request  body      types.Site  true  "Coordinates"
// @Success      200      {object}  types.Site
// @Failure      400      {object}  types.ErrorResponse  "Coordinates out of range"
// @Failure      504      {object}  types.ErrorResponse  "Loop did not answer in time"
// @Failure      500      {object}  types.ErrorResponse  "Store error"
// @Router       /site [put]
func (h *ConfigHandler) SaveSite(c *gin.Context) {
	var req types.Site
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "latitude and longitude are required",
		})
		return
	}

	site := monitor.Site{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if err := h.store.SaveSite(c.Request.Context(), site); err != nil {
		storeError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()
	if err := h.monitor.SetSite(ctx, site); err != nil {
		loopError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// GetBroker handles GET /broker
// @Summary      MQTT broker config
// @Tags         config
// @Produce      json
// @Success      200  {object}  types.BrokerResponse
// @Failure      404  {object}  types.ErrorResponse  "No broker configured"
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /broker [get]
func (h *ConfigHandler) GetBroker(c *gin.Context) {
	b, err := h.store.Broker(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, brokerResponse(b))
}

// SaveBroker handles PUT /broker
// @Summary      Change the MQTT broker
// @Description  Stores the broker config used from the next start. Empty client_id or password keep the stored values.
// @Tags         config
// @Accept       json
// @Produce      json
// @Param        request  body      types.BrokerRequest  true  "Broker config"
// @Success      200      {object}  types.BrokerResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      500      {object}  types.ErrorResponse  "Store error"
// @Router       /broker [put]
func (h *ConfigHandler) SaveBroker(c *gin.Context) {
	var req types.BrokerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "url and topic_prefix are required",
		})
		return
	}

	b := &db.Broker{
		URL:         req.URL,
		ClientID:    req.ClientID,
		TopicPrefix: req.TopicPrefix,
		Username:    req.Username,
		Password:    req.Password,
	}
	if err := h.store.SaveBroker(c.Request.Context(), b); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, brokerResponse(b))
}

// reloadBeacons pushes the stored table into the loop. It writes the error
// response and returns false on failure.
func (h *ConfigHandler) reloadBeacons(c *gin.Context) ([]monitor.Beacon, bool) {
	beacons, err := h.store.Beacons(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return nil, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()
	if err := h.monitor.ReloadBeacons(ctx, beacons); err != nil {
		loopError(c, err)
		return nil, false
	}
	return beacons, true
}

func indexOf(beacons []monitor.Beacon, key string) int {
	for i, b := range beacons {
		if b.Key == key {
			return i
		}
	}
	return -1
}

func brokerResponse(b *db.Broker) types.BrokerResponse {
	return types.BrokerResponse{
		URL:         b.URL,
		ClientID:    b.ClientID,
		TopicPrefix: b.TopicPrefix,
		Username:    b.Username,
		HasPassword: b.Password != "",
	}
}

func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrBeaconNotFound), errors.Is(err, db.ErrBrokerNotFound), errors.Is(err, db.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, monitor.ErrInvalidBeaconKey), errors.Is(err, device.ErrInvalidAddress), errors.Is(err, db.ErrInvalidSite):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	case errors.Is(err, db.ErrBeaconConflict):
		c.JSON(http.StatusConflict, types.ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "store_error",
			Message: err.Error(),
		})
	}
}

func loopError(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		c.JSON(http.StatusGatewayTimeout, types.ErrorResponse{
			Error:   "timeout",
			Message: "Saved, but the monitor loop did not pick up the change in time",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, types.ErrorResponse{
		Error:   "monitor_error",
		Message: err.Error(),
	})
}

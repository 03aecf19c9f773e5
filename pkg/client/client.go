// Package client is a typed client for the monitor's REST control surface.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/urmzd/wardwatch/pkg/api/types"
)

// DefaultBaseURL is where cmd/monitor listens by default.
const DefaultBaseURL = "http://localhost:8080"

// ErrRejected is returned when the monitor refuses a command (code -1).
var ErrRejected = errors.New("command rejected")

// APIError is a non-2xx response carrying an ErrorResponse body.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("api error %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// Client talks to one monitor.
type Client struct {
	http *resty.Client
}

// New creates a client for baseURL. Requests are not retried.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(15*time.Second).
			SetHeader("Accept", "application/json"),
	}
}

// Health returns the health report. A degraded monitor (503) is not an error.
func (c *Client) Health(ctx context.Context) (*types.HealthResponse, error) {
	var out types.HealthResponse
	resp, err := c.http.R().SetContext(ctx).Get("/api/v1/health")
	if err != nil {
		return nil, fmt.Errorf("failed to call health: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusServiceUnavailable {
		return nil, apiError(resp)
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("failed to decode health: %w", err)
	}
	return &out, nil
}

// Status returns the latest monitor state.
func (c *Client) Status(ctx context.Context) (*types.StatusResponse, error) {
	var out types.StatusResponse
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("failed to call status: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

// SendCommand sends a text command. For an unknown command the monitor's
// reply is returned together with ErrRejected.
func (c *Client) SendCommand(ctx context.Context, text string) (*types.CommandResponse, error) {
	return c.post(ctx, "/api/v1/commands", types.CommandRequest{Command: text})
}

// ToggleCommissioning toggles learning mode.
func (c *Client) ToggleCommissioning(ctx context.Context) (*types.CommandResponse, error) {
	return c.post(ctx, "/api/v1/commissioning", nil)
}

// ListBeacons returns the department beacon table.
func (c *Client) ListBeacons(ctx context.Context) (*types.ListBeaconsResponse, error) {
	var out types.ListBeaconsResponse
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/api/v1/beacons")
	if err != nil {
		return nil, fmt.Errorf("failed to call beacons: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

// SaveBeacon adds or replaces the beacon with key.
func (c *Client) SaveBeacon(ctx context.Context, key string, req types.BeaconRequest) (*types.Beacon, error) {
	var out types.Beacon
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("key", key).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		Put("/api/v1/beacons/{key}")
	if err != nil {
		return nil, fmt.Errorf("failed to save beacon: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

// DeleteBeacon removes the beacon with key.
func (c *Client) DeleteBeacon(ctx context.Context, key string) error {
	resp, err := c.http.R().SetContext(ctx).SetPathParam("key", key).Delete("/api/v1/beacons/{key}")
	if err != nil {
		return fmt.Errorf("failed to delete beacon: %w", err)
	}
	if resp.StatusCode() != http.StatusNoContent {
		return apiError(resp)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*types.CommandResponse, error) {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Post(path)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", path, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		var out types.CommandResponse
		if err := json.Unmarshal(resp.Body(), &out); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return &out, nil
	case http.StatusBadRequest:
		var out struct {
			types.CommandResponse
			Error string `json:"error"`
		}
		if err := json.Unmarshal(resp.Body(), &out); err == nil && out.Error == "" {
			return &out.CommandResponse, fmt.Errorf("%w: %s", ErrRejected, out.Detail)
		}
	}
	return nil, apiError(resp)
}

func apiError(resp *resty.Response) error {
	e := &APIError{StatusCode: resp.StatusCode(), Code: http.StatusText(resp.StatusCode())}
	var body types.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Error != "" {
		e.Code = body.Error
		e.Message = body.Message
	}
	return e
}

// Package backend pkg/backend/client.go implements the HTTP client for the
// scanner backend API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mfreeman451/scandeck/pkg/models"
)

const defaultTimeout = 30 * time.Second

var _ API = (*Client)(nil)

// Client talks JSON over HTTP to the scanner backend.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a backend client rooted at baseURL (e.g.
// "http://scanner:8000/api").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// errorDetail matches the backend's error body shape.
type errorDetail struct {
	Detail string `json:"detail"`
}

// do issues one request and decodes a 2xx JSON body into out (when out
// is non-nil). Context cancellation is returned as the context error so
// callers can discard it silently.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}

		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		return &TransportError{Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.errorFromResponse(resp)
	}

	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		return &TransportError{Err: err}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return nil
}

func (*Client) errorFromResponse(resp *http.Response) error {
	terr := &TransportError{StatusCode: resp.StatusCode}

	var detail errorDetail
	if data, err := io.ReadAll(resp.Body); err == nil {
		if err := json.Unmarshal(data, &detail); err == nil {
			terr.Detail = detail.Detail
		}
	}

	return terr
}

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/", nil, nil)
}

func (c *Client) Devices(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device
	if err := c.do(ctx, http.MethodGet, "/devices", nil, &devices); err != nil {
		return nil, err
	}

	return devices, nil
}

func (c *Client) Device(ctx context.Context, deviceID string) (*models.Device, error) {
	var device models.Device
	if err := c.do(ctx, http.MethodGet, "/devices/"+deviceID, nil, &device); err != nil {
		return nil, err
	}

	return &device, nil
}

// discoverRequest / discoverResponse match POST /scan/discover.
type discoverRequest struct {
	NetworkRange string `json:"network_range"`
}

type discoverResponse struct {
	ScanID  string `json:"scan_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *Client) StartDiscovery(ctx context.Context, networkRange string) (string, error) {
	var resp discoverResponse

	err := c.do(ctx, http.MethodPost, "/scan/discover", &discoverRequest{NetworkRange: networkRange}, &resp)
	if err != nil {
		return "", err
	}

	if resp.ScanID == "" {
		return "", fmt.Errorf("%w: %w", ErrMalformedResponse, errEmptyScanID)
	}

	return resp.ScanID, nil
}

func (c *Client) ScanStatus(ctx context.Context, scanID string) (*models.JobStatus, error) {
	var status models.JobStatus
	if err := c.do(ctx, http.MethodGet, "/scan/status/"+scanID, nil, &status); err != nil {
		return nil, err
	}

	status.Progress = models.ClampProgress(status.Progress)

	return &status, nil
}

// detailedScanRequest matches POST /scan/detailed.
type detailedScanRequest struct {
	DeviceID    string              `json:"device_id"`
	Credentials *models.Credentials `json:"credentials"`
}

func (c *Client) StartDetailedScan(ctx context.Context, deviceID string, creds *models.Credentials) error {
	return c.do(ctx, http.MethodPost, "/scan/detailed", &detailedScanRequest{
		DeviceID:    deviceID,
		Credentials: creds,
	}, nil)
}

func (c *Client) DeleteDevice(ctx context.Context, deviceID string) error {
	return c.do(ctx, http.MethodDelete, "/devices/"+deviceID, nil, nil)
}

func (c *Client) Scans(ctx context.Context) ([]models.ScanRecord, error) {
	var scans []models.ScanRecord
	if err := c.do(ctx, http.MethodGet, "/scans", nil, &scans); err != nil {
		return nil, err
	}

	return scans, nil
}

// IsCanceled reports whether err is a context cancellation rather than a
// real failure; cancellations are discarded silently by callers.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

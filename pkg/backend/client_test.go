package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreeman451/scandeck/pkg/models"
)

func TestClient_Devices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/devices", r.URL.Path)

		_ = json.NewEncoder(w).Encode([]models.Device{
			{ID: "d1", IPAddress: "192.168.1.1", Status: models.StatusUp},
			{ID: "d2", IPAddress: "192.168.1.2", Status: models.StatusDown},
		})
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	devices, err := client.Devices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "192.168.1.1", devices[0].IPAddress)
}

func TestClient_DevicesMalformedPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected":"object"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	_, err := client.Devices(context.Background())
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_StartDiscovery(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/scan/discover", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "192.168.1.0/24", req["network_range"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"scan_id": "scan-abc",
			"status":  "started",
		})
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	scanID, err := client.StartDiscovery(context.Background(), "192.168.1.0/24")
	require.NoError(t, err)
	assert.Equal(t, "scan-abc", scanID)
}

func TestClient_StartDiscoveryMissingScanID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"started"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	_, err := client.StartDiscovery(context.Background(), "192.168.1.0/24")
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_TransportErrorCarriesDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Invalid network range. Use CIDR notation (e.g., 192.168.1.0/24)"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	_, err := client.StartDiscovery(context.Background(), "bogus")

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusBadRequest, terr.StatusCode)
	assert.Contains(t, terr.Detail, "CIDR notation")
}

func TestClient_ScanStatusClampsProgress(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scan/status/scan-1", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"scan_id":  "scan-1",
			"status":   "running",
			"progress": 250,
		})
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	status, err := client.ScanStatus(context.Background(), "scan-1")
	require.NoError(t, err)
	assert.Equal(t, models.ScanRunning, status.Status)
	assert.Equal(t, 100, status.Progress)
}

func TestClient_StartDetailedScan(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scan/detailed", r.URL.Path)

		var req detailedScanRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "d1", req.DeviceID)
		assert.Equal(t, models.AuthSSH, req.Credentials.AuthType)

		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	err := client.StartDetailedScan(context.Background(), "d1", &models.Credentials{
		Username: "admin",
		Password: "secret",
		AuthType: models.AuthSSH,
	})
	require.NoError(t, err)
}

func TestClient_DeleteDevice(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/devices/d1", r.URL.Path)

		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	require.NoError(t, client.DeleteDevice(context.Background(), "d1"))
}

func TestClient_CancellationIsSilent(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-block
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)

	go func() {
		_, err := client.Devices(ctx)
		errCh <- err
	}()

	cancel()

	err := <-errCh
	require.Error(t, err)
	assert.True(t, IsCanceled(err), "an aborted call must surface as a cancellation, not a transport failure")

	var terr *TransportError
	assert.False(t, errors.As(err, &terr))
}

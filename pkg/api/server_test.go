package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfreeman451/scandeck/pkg/backend"
	"github.com/mfreeman451/scandeck/pkg/inventory"
	"github.com/mfreeman451/scandeck/pkg/models"
	"github.com/mfreeman451/scandeck/pkg/orchestrator"
	"github.com/mfreeman451/scandeck/pkg/poller"
)

func newTestServer(t *testing.T) (*httptest.Server, *backend.MockAPI, *inventory.Store) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockAPI := backend.NewMockAPI(ctrl)
	store := inventory.NewStore(mockAPI)
	discovery := poller.New(poller.Config{Interval: time.Second, MaxAttempts: 5}, nil, store.Refresh)
	orch := orchestrator.New(orchestrator.Config{}, mockAPI, store, discovery, poller.NewClock(), nil)
	t.Cleanup(orch.Close)

	srv := NewServer(store, orch, mockAPI, nil, NewMetrics())

	ts := httptest.NewServer(srv.router)
	t.Cleanup(ts.Close)

	return ts, mockAPI, store
}

func seed(t *testing.T, store *inventory.Store, mockAPI *backend.MockAPI, devices []models.Device) {
	t.Helper()

	mockAPI.EXPECT().Devices(gomock.Any()).Return(devices, nil)
	require.NoError(t, store.Refresh(context.Background()))
}

func TestGetDevicesFiltered(t *testing.T) {
	ts, mockAPI, store := newTestServer(t)

	seed(t, store, mockAPI, []models.Device{
		{ID: "d1", DeviceType: "Core Switch", Status: models.StatusUp},
		{ID: "d2", DeviceType: "server", Status: models.StatusUp},
	})

	resp, err := http.Get(ts.URL + "/api/devices?filter=network")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var devices []models.Device
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&devices))
	require.Len(t, devices, 1)
	assert.Equal(t, "d1", devices[0].ID)
}

func TestGetDevicesUnknownFilter(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/devices?filter=bogus")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetStats(t *testing.T) {
	ts, mockAPI, store := newTestServer(t)

	seed(t, store, mockAPI, []models.Device{
		{ID: "d1", Status: models.StatusUp, Authenticated: true},
		{ID: "d2", Status: models.StatusDown},
	})

	resp, err := http.Get(ts.URL + "/api/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	var stats models.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, models.Stats{Total: 2, Authenticated: 1, Online: 1}, stats)
}

func TestPostDiscoverEmptyRange(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/scan/discover", "application/json",
		strings.NewReader(`{"network_range":""}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPostBulkNoMatchingDevices(t *testing.T) {
	ts, mockAPI, store := newTestServer(t)

	seed(t, store, mockAPI, []models.Device{{ID: "d1", DeviceType: "server"}})

	resp, err := http.Post(ts.URL+"/api/scan/bulk", "application/json",
		strings.NewReader(`{"credentials":{"username":"admin","password":"x","auth_type":"ssh"},"filter":"windows"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGetScanStatusIdle(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/scan/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var snap poller.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, poller.StateIdle, snap.State)
	assert.Zero(t, snap.Progress)
}

func TestDeleteDevice(t *testing.T) {
	ts, mockAPI, store := newTestServer(t)

	seed(t, store, mockAPI, []models.Device{{ID: "d1"}})

	gomock.InOrder(
		mockAPI.EXPECT().DeleteDevice(gomock.Any(), "d1").Return(nil),
		mockAPI.EXPECT().Devices(gomock.Any()).Return([]models.Device{}, nil),
	)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete, ts.URL+"/api/devices/d1", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, store.Stats().Total)
}

func TestHistoryDisabled(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/history")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

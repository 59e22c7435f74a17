// Package api pkg/api/server.go serves engine state to the dashboard over
// HTTP and pushes live scan/inventory updates over a websocket.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/mfreeman451/scandeck/pkg/backend"
	"github.com/mfreeman451/scandeck/pkg/filter"
	"github.com/mfreeman451/scandeck/pkg/history"
	"github.com/mfreeman451/scandeck/pkg/inventory"
	"github.com/mfreeman451/scandeck/pkg/models"
	"github.com/mfreeman451/scandeck/pkg/orchestrator"
	"github.com/mfreeman451/scandeck/pkg/poller"
)

const (
	historyLimit    = 100
	shutdownTimeout = 10 * time.Second
)

// Server is the dashboard-facing API.
type Server struct {
	router  *mux.Router
	store   inventory.Reader
	orch    *orchestrator.Orchestrator
	api     backend.API
	history *history.Store
	metrics *Metrics

	httpSrv  *http.Server
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewServer wires routes over the engine. hist may be nil when history
// is disabled.
func NewServer(store inventory.Reader, orch *orchestrator.Orchestrator, api backend.API, hist *history.Store, metrics *Metrics) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		store:   store,
		orch:    orch,
		api:     api,
		history: hist,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(corsMiddleware)

	s.router.HandleFunc("/api/devices", s.getDevices).Methods("GET")
	s.router.HandleFunc("/api/devices/{id}", s.deleteDevice).Methods("DELETE")
	s.router.HandleFunc("/api/stats", s.getStats).Methods("GET")
	s.router.HandleFunc("/api/refresh", s.postRefresh).Methods("POST")

	s.router.HandleFunc("/api/scan/discover", s.postDiscover).Methods("POST")
	s.router.HandleFunc("/api/scan/status", s.getScanStatus).Methods("GET")
	s.router.HandleFunc("/api/scan/detailed", s.postDetailed).Methods("POST")
	s.router.HandleFunc("/api/scan/bulk", s.postBulk).Methods("POST")

	s.router.HandleFunc("/api/history", s.getHistory).Methods("GET")
	s.router.HandleFunc("/api/scans", s.getBackendScans).Methods("GET")

	s.router.HandleFunc("/api/ws", s.handleWS).Methods("GET")
	s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")
}

// Start serves until Stop is called.
func (s *Server) Start(addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Infof("Dashboard API listening on %s", addr)

	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

// Stop drains the HTTP server and closes websocket clients.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	for conn := range s.clients {
		_ = conn.Close()
		delete(s.clients, conn)
	}
	s.mu.Unlock()

	if s.httpSrv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	return s.httpSrv.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps engine errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var terr *backend.TransportError

	switch {
	case errors.Is(err, orchestrator.ErrEmptyNetworkRange),
		errors.Is(err, filter.ErrUnknownCategory):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, orchestrator.ErrNoMatchingDevices):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.As(err, &terr):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: terr.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func (s *Server) getDevices(w http.ResponseWriter, r *http.Request) {
	devices := s.store.Devices()

	if name := r.URL.Query().Get("filter"); name != "" {
		category, err := filter.Parse(name)
		if err != nil {
			writeError(w, err)
			return
		}

		devices = filter.Apply(devices, category)
	}

	writeJSON(w, http.StatusOK, devices)
}

func (s *Server) getStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

func (s *Server) postRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.orch.Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	s.afterRefresh()
	writeJSON(w, http.StatusOK, s.store.Stats())
}

type discoverRequest struct {
	NetworkRange string `json:"network_range"`
}

type discoverResponse struct {
	ScanID string `json:"scan_id"`
}

func (s *Server) postDiscover(w http.ResponseWriter, r *http.Request) {
	var req discoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	scanID, err := s.orch.StartDiscovery(r.Context(), req.NetworkRange)
	if err != nil {
		writeError(w, err)
		return
	}

	s.metrics.ScansStarted.WithLabelValues("discovery").Inc()
	writeJSON(w, http.StatusAccepted, discoverResponse{ScanID: scanID})
}

func (s *Server) getScanStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.DiscoveryStatus())
}

type detailedRequest struct {
	DeviceID    string             `json:"device_id"`
	Credentials models.Credentials `json:"credentials"`
}

func (s *Server) postDetailed(w http.ResponseWriter, r *http.Request) {
	var req detailedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DeviceID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := s.orch.StartDetailedScan(r.Context(), req.DeviceID, &req.Credentials); err != nil {
		writeError(w, err)
		return
	}

	s.metrics.ScansStarted.WithLabelValues("detailed").Inc()
	w.WriteHeader(http.StatusAccepted)
}

type bulkRequest struct {
	Credentials models.Credentials `json:"credentials"`
	Filter      string             `json:"filter"`
}

func (s *Server) postBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	category, err := filter.Parse(req.Filter)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.orch.StartBulkScan(r.Context(), &req.Credentials, category)
	if err != nil {
		writeError(w, err)
		return
	}

	s.metrics.ScansStarted.WithLabelValues("bulk").Inc()
	s.metrics.BulkOutcomes.WithLabelValues("success").Add(float64(result.Success))
	s.metrics.BulkOutcomes.WithLabelValues("failed").Add(float64(result.Failed))

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) deleteDevice(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := s.orch.DeleteDevice(r.Context(), vars["id"]); err != nil {
		writeError(w, err)
		return
	}

	s.afterRefresh()
	w.WriteHeader(http.StatusNoContent)
}

type historyResponse struct {
	Discoveries    []history.DiscoveryEntry `json:"discoveries"`
	BulkOperations []history.BulkEntry      `json:"bulk_operations"`
}

func (s *Server) getHistory(w http.ResponseWriter, _ *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "history is disabled"})
		return
	}

	discoveries, err := s.history.Discoveries(historyLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	bulkOps, err := s.history.BulkOps(historyLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{Discoveries: discoveries, BulkOperations: bulkOps})
}

// getBackendScans proxies the backend's own scan history.
func (s *Server) getBackendScans(w http.ResponseWriter, r *http.Request) {
	scans, err := s.api.Scans(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, scans)
}

// statePush is the payload sent to websocket clients.
type statePush struct {
	Scan  poller.Snapshot `json:"scan"`
	Stats models.Stats    `json:"stats"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("Websocket upgrade failed: %v", err)
		return
	}

	// Register and send the current state immediately so a reconnecting
	// dashboard does not wait for the next transition. All writes happen
	// under s.mu; gorilla connections allow one concurrent writer.
	s.mu.Lock()
	s.clients[conn] = struct{}{}

	if err := conn.WriteJSON(statePush{Scan: s.orch.DiscoveryStatus(), Stats: s.store.Stats()}); err != nil {
		_ = conn.Close()
		delete(s.clients, conn)
		s.mu.Unlock()

		return
	}
	s.mu.Unlock()

	// Reader loop exists only to notice the peer going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.dropClient(conn)
				return
			}
		}
	}()
}

func (s *Server) dropClient(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[conn]; ok {
		_ = conn.Close()
		delete(s.clients, conn)
	}
}

// OnPollerUpdate is wired as the discovery poller's update hook; it
// mirrors counters and fans the new state out to websocket clients.
func (s *Server) OnPollerUpdate(snap poller.Snapshot) {
	if snap.State == poller.StatePolling && snap.Attempts > 0 {
		s.metrics.PollTicks.Inc()
	}

	s.broadcast(statePush{Scan: snap, Stats: s.store.Stats()})
}

// afterRefresh updates gauges and pushes fresh stats after any inventory
// refresh triggered through this server.
func (s *Server) afterRefresh() {
	stats := s.store.Stats()
	s.metrics.Refreshes.Inc()
	s.metrics.SetStats(stats)
	s.broadcast(statePush{Scan: s.orch.DiscoveryStatus(), Stats: stats})
}

func (s *Server) broadcast(payload statePush) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		if err := conn.WriteJSON(payload); err != nil {
			log.Warnf("Dropping websocket client: %v", err)
			_ = conn.Close()
			delete(s.clients, conn)
		}
	}
}

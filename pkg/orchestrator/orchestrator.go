// Package orchestrator pkg/orchestrator/orchestrator.go holds the scan
// business logic: discovery scans, single-device detailed scans and bulk
// fan-out, all reconciled back into the inventory store.
package orchestrator

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/mfreeman451/scandeck/pkg/backend"
	"github.com/mfreeman451/scandeck/pkg/filter"
	"github.com/mfreeman451/scandeck/pkg/inventory"
	"github.com/mfreeman451/scandeck/pkg/models"
	"github.com/mfreeman451/scandeck/pkg/poller"
)

const (
	DefaultBulkConcurrency = 10
	DefaultBulkRate        = 20 // requests per second across a bulk fan-out
	DefaultRefreshDelay    = 5 * time.Second
)

// Config controls scan orchestration.
type Config struct {
	// Detailed is the cadence for polling a device record after a
	// detailed scan was requested.
	Detailed poller.Config
	// BulkConcurrency caps in-flight requests during a bulk fan-out.
	BulkConcurrency int
	// BulkRate limits bulk request issue rate (req/s).
	BulkRate float64
	// RefreshDelay is how long after a bulk fan-out settles to wait
	// before the single follow-up inventory refresh, giving the backend
	// time to land asynchronous results.
	RefreshDelay time.Duration
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.BulkConcurrency <= 0 {
		out.BulkConcurrency = DefaultBulkConcurrency
	}

	if out.BulkRate <= 0 {
		out.BulkRate = DefaultBulkRate
	}

	if out.RefreshDelay <= 0 {
		out.RefreshDelay = DefaultRefreshDelay
	}

	return out
}

// Orchestrator coordinates scans against the backend. It owns every
// request it issues: Close aborts all in-flight work.
type Orchestrator struct {
	cfg       Config
	api       backend.API
	store     *inventory.Store
	discovery *poller.JobPoller
	clock     poller.Clock
	history   Recorder

	rootCtx context.Context
	stop    context.CancelFunc

	mu      sync.Mutex
	details map[string]*poller.JobPoller
}

// New wires an orchestrator. discovery is the single shared poller for
// discovery jobs; clock is shared with the ephemeral per-device pollers.
func New(cfg Config, api backend.API, store *inventory.Store, discovery *poller.JobPoller, clock poller.Clock, history Recorder) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())

	return &Orchestrator{
		cfg:       cfg.withDefaults(),
		api:       api,
		store:     store,
		discovery: discovery,
		clock:     clock,
		history:   history,
		rootCtx:   ctx,
		stop:      cancel,
		details:   make(map[string]*poller.JobPoller),
	}
}

// Close aborts all polling and in-flight requests owned by the
// orchestrator. Aborted work completes silently.
func (o *Orchestrator) Close() {
	o.stop()
	o.discovery.Detach()

	o.mu.Lock()
	defer o.mu.Unlock()

	for id, p := range o.details {
		p.Detach()
		delete(o.details, id)
	}
}

// Refresh re-fetches the inventory on demand.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	return o.store.Refresh(ctx)
}

// StartDiscovery kicks off a network-range sweep and attaches the
// discovery poller to the returned job. The UI disables the trigger
// while a scan runs; a second start here supersedes the old poll rather
// than queueing behind it.
func (o *Orchestrator) StartDiscovery(ctx context.Context, networkRange string) (string, error) {
	networkRange = strings.TrimSpace(networkRange)
	if networkRange == "" {
		return "", ErrEmptyNetworkRange
	}

	scanID, err := o.api.StartDiscovery(ctx, networkRange)
	if err != nil {
		return "", err
	}

	log.Infof("Discovery scan %s started for %s", scanID, networkRange)

	if o.history != nil {
		if err := o.history.RecordDiscovery(scanID, networkRange); err != nil {
			log.Warnf("Failed to record discovery scan %s: %v", scanID, err)
		}
	}

	var (
		lastMu sync.Mutex
		last   models.JobStatus
	)

	fetch := func(ctx context.Context) (*models.JobStatus, error) {
		status, err := o.api.ScanStatus(ctx, scanID)
		if err != nil {
			return nil, err
		}

		lastMu.Lock()
		last = *status
		lastMu.Unlock()

		return status, nil
	}

	done := o.discovery.Attach(o.rootCtx, scanID, fetch)

	go func() {
		<-done

		snap := o.discovery.Snapshot()
		if snap.JobID != scanID || snap.State == poller.StatePolling || snap.State == poller.StateIdle {
			// Superseded or cancelled; nothing to record.
			return
		}

		if o.history != nil {
			lastMu.Lock()
			total := last.TotalDevices
			lastMu.Unlock()

			if err := o.history.CompleteDiscovery(scanID, string(snap.State), total); err != nil {
				log.Warnf("Failed to record discovery outcome for %s: %v", scanID, err)
			}
		}
	}()

	return scanID, nil
}

// CancelDiscovery stops tracking the active discovery job, aborting any
// in-flight status fetch.
func (o *Orchestrator) CancelDiscovery() {
	o.discovery.Detach()
}

// DiscoveryStatus returns the discovery poller view.
func (o *Orchestrator) DiscoveryStatus() poller.Snapshot {
	return o.discovery.Snapshot()
}

// StartDetailedScan requests a credentialed scan of one device. The
// backend exposes no job id for these, so completion is observed by
// polling the device record itself through the same JobPoller primitive,
// terminating early once last_scan_status reports completed. The
// credentials are forwarded once and not retained.
func (o *Orchestrator) StartDetailedScan(ctx context.Context, deviceID string, creds *models.Credentials) error {
	if err := o.api.StartDetailedScan(ctx, deviceID, creds); err != nil {
		return err
	}

	log.Infof("Detailed scan requested for device %s", deviceID)
	o.watchDevice(deviceID)

	return nil
}

// watchDevice attaches an ephemeral poller that treats the device record
// as the job resource. One watcher per device; re-scanning a device
// restarts its watch.
func (o *Orchestrator) watchDevice(deviceID string) {
	fetch := func(ctx context.Context) (*models.JobStatus, error) {
		dev, err := o.api.Device(ctx, deviceID)
		if err != nil {
			return nil, err
		}

		status := &models.JobStatus{ScanID: deviceID, Status: models.ScanRunning}

		switch dev.LastScanStatus {
		case string(models.ScanCompleted):
			status.Status = models.ScanCompleted
			status.Progress = 100
		case string(models.ScanFailed):
			status.Status = models.ScanFailed
		}

		return status, nil
	}

	p := poller.New(o.cfg.Detailed, o.clock, o.store.Refresh)

	o.mu.Lock()
	if prev, ok := o.details[deviceID]; ok {
		prev.Detach()
	}
	o.details[deviceID] = p
	o.mu.Unlock()

	done := p.Attach(o.rootCtx, deviceID, fetch)

	go func() {
		<-done

		o.mu.Lock()
		if o.details[deviceID] == p {
			delete(o.details, deviceID)
		}
		o.mu.Unlock()
	}()
}

// StartBulkScan fans a detailed scan out across every device matching
// the category, all with the same credentials. Per-device failures are
// isolated and counted; the call returns only after every request has
// settled. Exactly one inventory refresh is scheduled RefreshDelay after
// settlement.
func (o *Orchestrator) StartBulkScan(ctx context.Context, creds *models.Credentials, category filter.Category) (*models.BulkResult, error) {
	targets := filter.Apply(o.store.Devices(), category)
	if len(targets) == 0 {
		return nil, ErrNoMatchingDevices
	}

	result := &models.BulkResult{OpID: uuid.NewString()}

	log.Infof("Bulk scan %s: %d target(s) for category %q", result.OpID, len(targets), category)

	limiter := rate.NewLimiter(rate.Limit(o.cfg.BulkRate), o.cfg.BulkConcurrency)
	sem := make(chan struct{}, o.cfg.BulkConcurrency)
	outcomes := make(chan error, len(targets))

	var wg sync.WaitGroup

	for i := range targets {
		device := targets[i]

		wg.Add(1)

		go func() {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if err := limiter.Wait(ctx); err != nil {
				outcomes <- err
				return
			}

			if err := o.api.StartDetailedScan(ctx, device.ID, creds); err != nil {
				log.Warnf("Bulk scan %s: device %s (%s) failed: %v", result.OpID, device.ID, device.IPAddress, err)
				outcomes <- err

				return
			}

			outcomes <- nil
		}()
	}

	wg.Wait()
	close(outcomes)

	for err := range outcomes {
		if err != nil {
			result.Failed++
		} else {
			result.Success++
		}
	}

	log.Infof("Bulk scan %s settled: %d succeeded, %d failed", result.OpID, result.Success, result.Failed)

	if o.history != nil {
		if err := o.history.RecordBulk(result, string(category), len(targets)); err != nil {
			log.Warnf("Failed to record bulk scan %s: %v", result.OpID, err)
		}
	}

	o.scheduleRefresh()

	return result, nil
}

// scheduleRefresh runs one inventory refresh after the configured delay,
// letting backend-side asynchronous scans land first.
func (o *Orchestrator) scheduleRefresh() {
	go func() {
		select {
		case <-o.rootCtx.Done():
			return
		case <-o.clock.After(o.cfg.RefreshDelay):
		}

		if err := o.store.Refresh(o.rootCtx); err != nil && !backend.IsCanceled(err) {
			log.Errorf("Deferred inventory refresh failed: %v", err)
		}
	}()
}

// DeleteDevice removes a device from the backend, then refreshes the
// inventory so the local view drops it. A failed delete leaves the
// inventory untouched.
func (o *Orchestrator) DeleteDevice(ctx context.Context, deviceID string) error {
	if err := o.api.DeleteDevice(ctx, deviceID); err != nil {
		return err
	}

	log.Infof("Device %s deleted", deviceID)

	return o.store.Refresh(ctx)
}

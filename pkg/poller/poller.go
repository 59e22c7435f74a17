// Package poller pkg/poller/poller.go implements the generic job polling
// primitive: given a status source and an attempt budget, observe an
// asynchronous backend job at a fixed interval until it reaches a
// terminal state, then trigger exactly one inventory refresh.
package poller

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mfreeman451/scandeck/pkg/backend"
	"github.com/mfreeman451/scandeck/pkg/models"
)

// State is the lifecycle state of the poller.
type State string

const (
	StateIdle      State = "idle"
	StatePolling   State = "polling"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateExhausted State = "exhausted"
)

const (
	DefaultInterval    = 2 * time.Second
	DefaultMaxAttempts = 150
)

// StatusFunc fetches one observation of the tracked job.
type StatusFunc func(ctx context.Context) (*models.JobStatus, error)

// RefreshFunc reconciles the inventory after the job settles.
type RefreshFunc func(ctx context.Context) error

// Snapshot is a point-in-time view of the poller for display.
type Snapshot struct {
	JobID    string `json:"job_id,omitempty"`
	State    State  `json:"state"`
	Progress int    `json:"progress"`
	Attempts int    `json:"attempts"`
}

// Config controls poll cadence and budget.
type Config struct {
	Interval    time.Duration
	MaxAttempts int
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.Interval <= 0 {
		out.Interval = DefaultInterval
	}

	if out.MaxAttempts <= 0 {
		out.MaxAttempts = DefaultMaxAttempts
	}

	return out
}

// JobPoller tracks at most one asynchronous job at a time. Attaching a
// new job cancels the previous poll; ticks within one poll are strictly
// sequential.
type JobPoller struct {
	cfg     Config
	clock   Clock
	refresh RefreshFunc

	mu       sync.Mutex
	snap     Snapshot
	gen      uint64
	cancel   context.CancelFunc
	onUpdate func(Snapshot)
}

// New creates an idle poller. refresh runs exactly once per terminated
// poll (terminal or exhausted).
func New(cfg Config, clock Clock, refresh RefreshFunc) *JobPoller {
	if clock == nil {
		clock = NewClock()
	}

	return &JobPoller{
		cfg:     cfg.withDefaults(),
		clock:   clock,
		refresh: refresh,
		snap:    Snapshot{State: StateIdle},
	}
}

// SetOnUpdate registers a hook invoked after every state or progress
// change. Must be set before the first Attach.
func (p *JobPoller) SetOnUpdate(fn func(Snapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.onUpdate = fn
}

// Snapshot returns the current poller view.
func (p *JobPoller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.snap
}

// Attach starts polling jobID through fetch. Any poll already running is
// cancelled and its in-flight fetch discarded. The returned channel
// closes when this poll run terminates (for any reason).
func (p *JobPoller) Attach(ctx context.Context, jobID string, fetch StatusFunc) <-chan struct{} {
	p.mu.Lock()

	if p.cancel != nil {
		p.cancel()
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.gen++
	gen := p.gen
	p.snap = Snapshot{JobID: jobID, State: StatePolling}
	hook := p.onUpdate
	p.mu.Unlock()

	if hook != nil {
		hook(Snapshot{JobID: jobID, State: StatePolling})
	}

	done := make(chan struct{})

	go func() {
		defer close(done)
		defer cancel()
		p.run(runCtx, gen, jobID, fetch)
	}()

	return done
}

// Detach stops any active poll and resets the poller to idle with zero
// progress. Safe to call when idle.
func (p *JobPoller) Detach() {
	p.mu.Lock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	p.gen++
	p.snap = Snapshot{State: StateIdle}
	hook := p.onUpdate
	p.mu.Unlock()

	if hook != nil {
		hook(Snapshot{State: StateIdle})
	}
}

func (p *JobPoller) run(ctx context.Context, gen uint64, jobID string, fetch StatusFunc) {
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			// Cancellation is silent; Detach or a superseding Attach
			// already reset the visible state.
			return
		case <-p.clock.After(p.cfg.Interval):
		}

		status, err := fetch(ctx)
		if err != nil {
			if backend.IsCanceled(err) || ctx.Err() != nil {
				return
			}

			// Transient failure: the tick is skipped but still counts
			// against the attempt budget.
			log.Warnf("Poll attempt %d/%d for job %s failed: %v", attempt, p.cfg.MaxAttempts, jobID, err)
			p.update(gen, func(s *Snapshot) { s.Attempts = attempt })

			continue
		}

		progress := models.ClampProgress(status.Progress)
		p.update(gen, func(s *Snapshot) {
			s.Progress = progress
			s.Attempts = attempt
		})

		if status.Status.Terminal() {
			final := StateCompleted
			if status.Status == models.ScanFailed {
				final = StateFailed
			}

			log.Infof("Job %s reached terminal state %q after %d attempts", jobID, status.Status, attempt)
			p.finish(ctx, gen, final)

			return
		}
	}

	log.Warnf("Job %s poll budget exhausted after %d attempts", jobID, p.cfg.MaxAttempts)
	p.finish(ctx, gen, StateExhausted)
}

// finish records the final state and triggers the single inventory
// refresh for this poll run. Exhaustion still refreshes once as a
// best-effort reconciliation.
func (p *JobPoller) finish(ctx context.Context, gen uint64, final State) {
	if !p.update(gen, func(s *Snapshot) { s.State = final }) {
		return
	}

	if p.refresh == nil {
		return
	}

	if err := p.refresh(ctx); err != nil && !backend.IsCanceled(err) {
		log.Errorf("Inventory refresh after poll %s failed: %v", final, err)
	}
}

// update applies fn to the snapshot if this run is still current,
// reporting whether it was. Stale runs (superseded or detached) must not
// touch visible state.
func (p *JobPoller) update(gen uint64, fn func(*Snapshot)) bool {
	p.mu.Lock()

	if gen != p.gen {
		p.mu.Unlock()
		return false
	}

	fn(&p.snap)
	snap := p.snap
	hook := p.onUpdate
	p.mu.Unlock()

	if hook != nil {
		hook(snap)
	}

	return true
}

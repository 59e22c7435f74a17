// Package inventory pkg/inventory/store.go owns the in-memory device
// collection. The store is the single shared mutable resource of the
// engine: Refresh is the only mutation entry point, everything else
// reads through the Reader interface.
package inventory

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/mfreeman451/scandeck/pkg/backend"
	"github.com/mfreeman451/scandeck/pkg/models"
)

// Reader is the read-only view handed to filter and API layers.
type Reader interface {
	// Devices returns the last successfully fetched device sequence.
	Devices() []models.Device
	// Device looks up a device by id.
	Device(id string) (models.Device, bool)
	// Stats returns the derived inventory counters.
	Stats() models.Stats
}

// Store holds the current device collection and its derived stats.
type Store struct {
	api     backend.API
	mu      sync.RWMutex
	devices []models.Device
	stats   models.Stats
}

var _ Reader = (*Store)(nil)

// NewStore creates an empty store backed by api.
func NewStore(api backend.API) *Store {
	return &Store{
		api:     api,
		devices: make([]models.Device, 0),
	}
}

// Refresh replaces the device collection with a fresh fetch. The visible
// state mutates exactly once per completed call: on transport failure the
// previous collection is kept and the error returned; on a malformed
// (non-sequence) payload the store settles to empty without surfacing a
// fatal error. Concurrent refreshes are last-completed-write-wins.
func (s *Store) Refresh(ctx context.Context) error {
	devices, err := s.api.Devices(ctx)
	if err != nil {
		if backend.IsCanceled(err) {
			return err
		}

		if errors.Is(err, backend.ErrMalformedResponse) {
			log.Warnf("Backend returned malformed device payload, resetting inventory: %v", err)
			s.replace(nil)

			return nil
		}

		return err
	}

	s.replace(devices)

	return nil
}

// replace swaps in a new collection and recomputes stats under one lock
// acquisition so readers never observe them out of sync.
func (s *Store) replace(devices []models.Device) {
	if devices == nil {
		devices = make([]models.Device, 0)
	}

	stats := models.Stats{Total: len(devices)}
	for i := range devices {
		if devices[i].Authenticated {
			stats.Authenticated++
		}

		if devices[i].Online() {
			stats.Online++
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.devices = devices
	s.stats = stats
}

func (s *Store) Devices() []models.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Device, len(s.devices))
	copy(out, s.devices)

	return out
}

func (s *Store) Device(id string) (models.Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.devices {
		if s.devices[i].ID == id {
			return s.devices[i], true
		}
	}

	return models.Device{}, false
}

func (s *Store) Stats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.stats
}

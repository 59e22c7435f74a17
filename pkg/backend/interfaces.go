package backend

import (
	"context"

	"github.com/mfreeman451/scandeck/pkg/models"
)

//go:generate mockgen -destination=mock_backend.go -package=backend github.com/mfreeman451/scandeck/pkg/backend API

// API is the scanner backend surface the engine depends on. All calls
// are JSON over HTTP and honor context cancellation: an aborted call
// returns the context's error, never a *TransportError.
type API interface {
	// Ping checks backend reachability.
	Ping(ctx context.Context) error
	// Devices fetches the full device inventory.
	Devices(ctx context.Context) ([]models.Device, error)
	// Device fetches a single device record by id.
	Device(ctx context.Context, deviceID string) (*models.Device, error)
	// StartDiscovery kicks off an asynchronous network-range sweep and
	// returns the backend-assigned scan id.
	StartDiscovery(ctx context.Context, networkRange string) (string, error)
	// ScanStatus fetches the state of a running discovery scan.
	ScanStatus(ctx context.Context, scanID string) (*models.JobStatus, error)
	// StartDetailedScan requests a credentialed scan of one device. The
	// backend tracks no job id for these; progress is observed through
	// the device record itself.
	StartDetailedScan(ctx context.Context, deviceID string, creds *models.Credentials) error
	// DeleteDevice removes a device from the backend inventory.
	DeleteDevice(ctx context.Context, deviceID string) error
	// Scans fetches the backend's discovery scan history.
	Scans(ctx context.Context) ([]models.ScanRecord, error)
}

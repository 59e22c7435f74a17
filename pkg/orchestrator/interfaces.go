package orchestrator

import "github.com/mfreeman451/scandeck/pkg/models"

// Recorder persists scan-job and bulk-operation outcomes for the history
// view. A nil Recorder disables history.
type Recorder interface {
	// RecordDiscovery logs the start of a discovery scan.
	RecordDiscovery(scanID, networkRange string) error
	// CompleteDiscovery logs the terminal outcome of a discovery scan.
	CompleteDiscovery(scanID, outcome string, totalDevices int) error
	// RecordBulk logs one settled bulk scan operation.
	RecordBulk(result *models.BulkResult, category string, targets int) error
}

// Package models pkg/models/scan.go contains scan job and credential types.
package models

// AuthType selects the protocol used for a credentialed scan.
type AuthType string

const (
	AuthSSH  AuthType = "ssh"
	AuthAD   AuthType = "ad"
	AuthWMI  AuthType = "wmi"
	AuthSNMP AuthType = "snmp"
)

// Credentials are forwarded to the backend for a detailed scan and are
// never retained after the request settles.
type Credentials struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	AuthType AuthType `json:"auth_type"`
}

// ScanState is the lifecycle state of a backend scan job.
type ScanState string

const (
	ScanRunning   ScanState = "running"
	ScanCompleted ScanState = "completed"
	ScanFailed    ScanState = "failed"
)

// Terminal reports whether no further transitions can occur.
func (s ScanState) Terminal() bool {
	return s == ScanCompleted || s == ScanFailed
}

// JobStatus is one observation of an asynchronous backend scan job.
type JobStatus struct {
	ScanID       string    `json:"scan_id"`
	Status       ScanState `json:"status"`
	Progress     int       `json:"progress"`
	TotalDevices int       `json:"total_devices"`
	Message      string    `json:"message,omitempty"`
}

// ScanRecord is one entry of the backend's scan history.
type ScanRecord struct {
	ScanID       string `json:"scan_id"`
	NetworkRange string `json:"network_range"`
	TotalDevices int    `json:"total_devices"`
	Status       string `json:"status"`
	StartedAt    string `json:"started_at,omitempty"`
	CompletedAt  string `json:"completed_at,omitempty"`
}

// BulkResult aggregates per-device outcomes of one bulk scan operation.
type BulkResult struct {
	OpID    string `json:"op_id"`
	Success int    `json:"success"`
	Failed  int    `json:"failed"`
}

// ClampProgress normalizes a backend progress value to [0,100]. Absent
// values are reported by the backend as 0, never carried over from a
// previous observation.
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}

	if p > 100 {
		return 100
	}

	return p
}

// Package models pkg/models/device.go contains the shared data model for scandeck.
package models

// DeviceStatus is the reachability state reported by the scanner backend.
type DeviceStatus string

const (
	StatusUp   DeviceStatus = "up"
	StatusDown DeviceStatus = "down"
)

// OSInfo holds OS fingerprint data from an authenticated scan.
type OSInfo struct {
	Name     string `json:"name,omitempty"`
	Vendor   string `json:"vendor,omitempty"`
	OSFamily string `json:"os_family,omitempty"`
	Accuracy int    `json:"accuracy,omitempty"`
}

// HardwareSpecs holds hardware details from an authenticated scan.
type HardwareSpecs struct {
	CPU               string `json:"cpu,omitempty"`
	Memory            string `json:"memory,omitempty"`
	Disk              string `json:"disk,omitempty"`
	SystemDescription string `json:"system_description,omitempty"`
}

// PortInfo describes one open port on a device.
type PortInfo struct {
	Port    int    `json:"port"`
	Service string `json:"service,omitempty"`
	Product string `json:"product,omitempty"`
	Version string `json:"version,omitempty"`
}

// Device represents one discovered network host as the backend reports it.
type Device struct {
	ID             string         `json:"id"`
	ScanID         string         `json:"scan_id,omitempty"`
	IPAddress      string         `json:"ip_address"`
	MACAddress     string         `json:"mac_address,omitempty"`
	Hostname       string         `json:"hostname,omitempty"`
	DeviceType     string         `json:"device_type,omitempty"`
	Status         DeviceStatus   `json:"status"`
	Authenticated  bool           `json:"authenticated"`
	OSInfo         *OSInfo        `json:"os_info,omitempty"`
	HardwareSpecs  *HardwareSpecs `json:"hardware_specs,omitempty"`
	OpenPorts      []PortInfo     `json:"open_ports,omitempty"`
	DiscoveredAt   string         `json:"discovered_at,omitempty"`
	LastScanned    string         `json:"last_scanned,omitempty"`
	LastScanStatus string         `json:"last_scan_status,omitempty"`
	ScanError      string         `json:"scan_error,omitempty"`
}

// Online reports whether the device was reachable during the last sweep.
func (d *Device) Online() bool {
	return d.Status == StatusUp
}

// Stats are the derived inventory counters shown on the dashboard.
type Stats struct {
	Total         int `json:"total"`
	Authenticated int `json:"authenticated"`
	Online        int `json:"online"`
}

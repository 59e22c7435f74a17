package orchestrator

import "errors"

var (
	// ErrNoMatchingDevices means a bulk scan resolved an empty target
	// set; it is raised before any network call is issued.
	ErrNoMatchingDevices = errors.New("no devices match the selected filter")

	// ErrEmptyNetworkRange means a discovery scan was requested without
	// a network range. CIDR well-formedness is not checked here; the
	// backend rejects bad ranges with a 400.
	ErrEmptyNetworkRange = errors.New("network range must not be empty")
)

// Package filter pkg/filter/filter.go classifies devices into the
// categories used for display filtering and bulk-scan target selection.
// All predicates are pure; a device may match several categories, and
// each operation evaluates exactly one.
package filter

import (
	"errors"
	"strings"

	"github.com/mfreeman451/scandeck/pkg/models"
)

// Category names one device classification.
type Category string

const (
	All             Category = "all"
	Online          Category = "online"
	Authenticated   Category = "authenticated"
	Unauthenticated Category = "unauthenticated"
	Windows         Category = "windows"
	Linux           Category = "linux"
	Network         Category = "network"
)

var ErrUnknownCategory = errors.New("unknown filter category")

var networkTypes = []string{"router", "switch", "firewall"}

// Parse validates a category name from user input.
func Parse(name string) (Category, error) {
	switch c := Category(strings.ToLower(name)); c {
	case All, Online, Authenticated, Unauthenticated, Windows, Linux, Network:
		return c, nil
	default:
		return "", ErrUnknownCategory
	}
}

// Matches reports whether the device belongs to the category. Unknown
// categories match nothing.
func Matches(d *models.Device, c Category) bool {
	switch c {
	case All:
		return true
	case Online:
		return d.Online()
	case Authenticated:
		return d.Authenticated
	case Unauthenticated:
		return !d.Authenticated
	case Windows:
		return matchesOS(d, "windows")
	case Linux:
		return matchesOS(d, "linux")
	case Network:
		return matchesNetwork(d)
	default:
		return false
	}
}

// Apply returns the subset of devices matching the category, preserving
// order.
func Apply(devices []models.Device, c Category) []models.Device {
	out := make([]models.Device, 0, len(devices))

	for i := range devices {
		if Matches(&devices[i], c) {
			out = append(out, devices[i])
		}
	}

	return out
}

// matchesOS is a case-insensitive substring match against the OS family,
// OS name and device type, in that order. Any one field matching is
// enough; absent fields never match.
func matchesOS(d *models.Device, substr string) bool {
	if d.OSInfo != nil {
		if containsFold(d.OSInfo.OSFamily, substr) || containsFold(d.OSInfo.Name, substr) {
			return true
		}
	}

	return containsFold(d.DeviceType, substr)
}

func matchesNetwork(d *models.Device) bool {
	for _, t := range networkTypes {
		if containsFold(d.DeviceType, t) {
			return true
		}
	}

	return false
}

func containsFold(s, substr string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), substr)
}

// Package fixture derives pan/tilt commands for mechanical fixtures
// from a target point in the venue, and manages the fixture collection.
package fixture

import (
	"errors"
	"fmt"

	"github.com/venuelab/gyrobeam/pkg/spatial"
)

var (
	// ErrDegenerateTarget is returned when the target coincides with the
	// fixture position; there is no defined aim direction. Callers skip
	// the fixture for that frame.
	ErrDegenerateTarget = errors.New("target coincides with fixture position")

	// ErrNotFound is returned for unknown fixture IDs.
	ErrNotFound = errors.New("fixture not found")
)

// Mounting is the fixture's installation orientation. It determines the
// sign conventions for pan and tilt.
type Mounting string

const (
	MountCeiling Mounting = "ceiling"
	MountFloor   Mounting = "floor"
	MountWall    Mounting = "wall"
)

// Range is an inclusive angle interval in degrees, Min < Max.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp saturates v at the nearest range boundary.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Default mechanical ranges for moving-head fixtures.
var (
	DefaultPanRange  = Range{Min: -270, Max: 270}
	DefaultTiltRange = Range{Min: -135, Max: 135}
)

// Spec describes one installed fixture. The core reads specs and never
// mutates them; edits go through the Registry.
type Spec struct {
	ID         string        `json:"id"`
	Name       string        `json:"name,omitempty"`
	Position   spatial.Point `json:"position"`
	Mounting   Mounting      `json:"mounting"`
	PanRange   Range         `json:"pan_range"`
	TiltRange  Range         `json:"tilt_range"`
	PanInvert  bool          `json:"pan_invert"`
	TiltInvert bool          `json:"tilt_invert"`
}

// Validate checks mounting and range sanity.
func (s Spec) Validate() error {
	switch s.Mounting {
	case MountCeiling, MountFloor, MountWall:
	default:
		return fmt.Errorf("unknown mounting %q", s.Mounting)
	}
	if s.PanRange.Min >= s.PanRange.Max {
		return fmt.Errorf("pan range min %g must be below max %g", s.PanRange.Min, s.PanRange.Max)
	}
	if s.TiltRange.Min >= s.TiltRange.Max {
		return fmt.Errorf("tilt range min %g must be below max %g", s.TiltRange.Min, s.TiltRange.Max)
	}
	return nil
}

// Result is a clamped pan/tilt pair in degrees.
type Result struct {
	Pan  float64 `json:"pan"`
	Tilt float64 `json:"tilt"`
}

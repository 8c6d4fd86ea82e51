// Package venue models the bounded 3D volume the pointer is constrained
// to, and the key points derived from it: the user position, the
// back-wall calibration target and the intersection bounds.
package venue

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/venuelab/gyrobeam/pkg/spatial"
)

// Accepted ranges for venue parameters, in meters.
const (
	MinDimension = 2.0
	MaxDimension = 100.0
	MinGridSize  = 0.1
	MaxGridSize  = 5.0
	MinUserHeight = 0.5
	MaxUserHeight = 1.5
)

// Dimensions are the venue extents along each axis.
type Dimensions struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

// Venue is the configured space. The zero value is not usable; start
// from Default or a validated deserialized value.
type Venue struct {
	Dimensions Dimensions `json:"dimensions"`
	GridSize   float64    `json:"grid_size"`
	UserHeight float64    `json:"user_height"`
}

// Default returns the standard 10x10x4 m venue with a 1 m grid and the
// user at 1 m above the floor.
func Default() Venue {
	return Venue{
		Dimensions: Dimensions{Width: 10, Depth: 10, Height: 4},
		GridSize:   1,
		UserHeight: 1,
	}
}

// Validate checks all venue parameters against their accepted ranges.
func (v Venue) Validate() error {
	if err := validateDimension(v.Dimensions.Width, "width"); err != nil {
		return err
	}
	if err := validateDimension(v.Dimensions.Depth, "depth"); err != nil {
		return err
	}
	if err := validateDimension(v.Dimensions.Height, "height"); err != nil {
		return err
	}
	if v.GridSize < MinGridSize || v.GridSize > MaxGridSize {
		return fmt.Errorf("grid size must be between %.1fm and %.1fm, got %gm", MinGridSize, MaxGridSize, v.GridSize)
	}
	if v.UserHeight < MinUserHeight || v.UserHeight > MaxUserHeight {
		return fmt.Errorf("user height must be between %.1fm and %.1fm, got %gm", MinUserHeight, MaxUserHeight, v.UserHeight)
	}
	return nil
}

func validateDimension(value float64, name string) error {
	if value < MinDimension || value > MaxDimension {
		return fmt.Errorf("%s must be between %.0fm and %.0fm, got %gm", name, MinDimension, MaxDimension, value)
	}
	return nil
}

// WithDimensions returns a copy with new extents, validated.
func (v Venue) WithDimensions(width, depth, height float64) (Venue, error) {
	out := v
	out.Dimensions = Dimensions{Width: width, Depth: depth, Height: height}
	if err := out.Validate(); err != nil {
		return Venue{}, err
	}
	return out, nil
}

// UserPosition returns where the pointer ray originates: the XY centre
// of the venue at the configured user height.
func (v Venue) UserPosition() r3.Vec {
	return r3.Vec{
		X: v.Dimensions.Width / 2,
		Y: v.Dimensions.Depth / 2,
		Z: v.UserHeight,
	}
}

// BackWallCenter returns the calibration reference target: the centre
// of the wall at maximum Y.
func (v Venue) BackWallCenter() r3.Vec {
	return r3.Vec{
		X: v.Dimensions.Width / 2,
		Y: v.Dimensions.Depth,
		Z: v.Dimensions.Height / 2,
	}
}

// Bounds returns the axis-aligned box used for ray intersection. The
// venue origin is always (0,0,0).
func (v Venue) Bounds() spatial.Bounds {
	return spatial.Bounds{
		Min: r3.Vec{},
		Max: r3.Vec{X: v.Dimensions.Width, Y: v.Dimensions.Depth, Z: v.Dimensions.Height},
	}
}

// Corners returns the venue's eight corners, floor level first.
func (v Venue) Corners() []r3.Vec {
	corners := make([]r3.Vec, 0, 8)
	for _, z := range []float64{0, v.Dimensions.Height} {
		for _, x := range []float64{0, v.Dimensions.Width} {
			for _, y := range []float64{0, v.Dimensions.Depth} {
				corners = append(corners, r3.Vec{X: x, Y: y, Z: z})
			}
		}
	}
	return corners
}

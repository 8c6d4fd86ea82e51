// Package sensor holds validated device orientation samples and the
// bounded interpolation buffer that smooths best-effort delivery so
// network jitter does not become visual jitter.
package sensor

import (
	"errors"
	"math"
)

// ErrInvalidSample is returned for malformed sensor input (NaN, Inf or
// out-of-range angles). A rejected sample never touches the buffer.
var ErrInvalidSample = errors.New("invalid sensor sample")

// Sample is a single timestamped orientation reading.
// Alpha is compass heading in [0,360) and circular; beta is pitch in
// [-180,180]; gamma is roll in [-90,90]. Timestamp is milliseconds on
// the sender's clock; the buffer only ever subtracts timestamps, so
// the epoch does not matter.
type Sample struct {
	Alpha     float64 `json:"alpha"`
	Beta      float64 `json:"beta"`
	Gamma     float64 `json:"gamma"`
	Timestamp float64 `json:"timestamp"`
}

// Validate checks the sample against the sensor's documented ranges.
func (s Sample) Validate() error {
	for _, v := range []float64{s.Alpha, s.Beta, s.Gamma, s.Timestamp} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidSample
		}
	}
	if s.Alpha < 0 || s.Alpha > 360 {
		return ErrInvalidSample
	}
	if s.Beta < -180 || s.Beta > 180 {
		return ErrInvalidSample
	}
	if s.Gamma < -90 || s.Gamma > 90 {
		return ErrInvalidSample
	}
	return nil
}

// wrap360 normalizes a heading into [0, 360).
func wrap360(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}

// headingDelta returns the signed shortest angular distance from a to b
// in degrees, in (-180, 180]. Interpolating 359 -> 1 goes through 0,
// not through 180.
func headingDelta(a, b float64) float64 {
	return math.Mod(b-a+540, 360) - 180
}

// lerp performs linear interpolation between two values.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Package calibration aligns the handheld's heading with the venue.
//
// The correction is a scalar yaw offset: calibrating captures the
// current compass heading as the "new north" and every later sample has
// that offset subtracted from alpha. Pitch and roll pass through
// untouched at all times, so the horizon can never tilt. A calibration
// taken with an unlevel hand still only re-references the heading.
package calibration

import (
	"errors"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/venuelab/gyrobeam/pkg/sensor"
)

// ErrInvalidSample is returned when calibrating with a malformed sample.
// A failed calibration leaves any prior record untouched.
var ErrInvalidSample = errors.New("invalid calibration sample")

// Record is one captured correction. It is replaced wholesale on
// re-calibration and cleared by Reset.
type Record struct {
	AlphaOffset float64   `json:"alpha_offset"`
	Target      r3.Vec    `json:"-"`
	CapturedAt  time.Time `json:"captured_at"`
}

// Engine owns the process-wide calibration state. All access goes
// through its mutex: a calibration request and an in-flight sample
// pipeline may interleave otherwise.
type Engine struct {
	mu  sync.Mutex
	rec *Record
}

// NewEngine returns an uncalibrated engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Calibrate captures the sample's heading as the zero reference so
// that, replayed immediately, the corrected output points at target.
// Valid both from the uncalibrated state and as an overwrite.
func (e *Engine) Calibrate(s sensor.Sample, target r3.Vec) (Record, error) {
	if err := s.Validate(); err != nil {
		return Record{}, ErrInvalidSample
	}
	for _, v := range []float64{target.X, target.Y, target.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Record{}, ErrInvalidSample
		}
	}

	rec := Record{
		AlphaOffset: s.Alpha,
		Target:      target,
		CapturedAt:  time.Now(),
	}

	e.mu.Lock()
	e.rec = &rec
	e.mu.Unlock()

	return rec, nil
}

// Correct applies the stored offset to a sample's heading. Uncalibrated
// engines return the input unchanged. Beta and gamma are never altered.
func (e *Engine) Correct(s sensor.Sample) sensor.Sample {
	e.mu.Lock()
	rec := e.rec
	e.mu.Unlock()

	if rec == nil {
		return s
	}

	out := s
	out.Alpha = math.Mod(s.Alpha-rec.AlphaOffset, 360)
	if out.Alpha < 0 {
		out.Alpha += 360
	}
	return out
}

// Reset returns the engine to the uncalibrated state.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.rec = nil
	e.mu.Unlock()
}

// IsCalibrated reports whether a correction is active.
func (e *Engine) IsCalibrated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec != nil
}

// Snapshot returns a copy of the active record, if any.
func (e *Engine) Snapshot() (Record, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.rec == nil {
		return Record{}, false
	}
	return *e.rec, true
}

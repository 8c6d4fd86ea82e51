// Package engine runs the orientation pipeline: buffered device
// samples are interpolated, heading-corrected, turned into a ray,
// intersected with the venue and translated into fixture aims.
package engine

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/venuelab/gyrobeam/internal/log"
	"github.com/venuelab/gyrobeam/pkg/calibration"
	"github.com/venuelab/gyrobeam/pkg/fixture"
	"github.com/venuelab/gyrobeam/pkg/sensor"
	"github.com/venuelab/gyrobeam/pkg/spatial"
	"github.com/venuelab/gyrobeam/pkg/venue"
)

// Engine holds all per-process pipeline state. Streams arrive and
// leave concurrently with REST edits to the venue and fixtures, so
// each piece of state carries its own lock.
type Engine struct {
	mu       sync.RWMutex
	streams  map[string]*sensor.Buffer
	capacity int

	venueMu sync.RWMutex
	venue   venue.Venue

	cal      *calibration.Engine
	fixtures *fixture.Registry
}

// New creates an engine over the given venue and fixture registry.
// bufferCapacity <= 0 falls back to the sensor default.
func New(v venue.Venue, fixtures *fixture.Registry, bufferCapacity int) *Engine {
	if bufferCapacity <= 0 {
		bufferCapacity = sensor.DefaultCapacity
	}
	return &Engine{
		streams:  make(map[string]*sensor.Buffer),
		capacity: bufferCapacity,
		venue:    v,
		cal:      calibration.NewEngine(),
		fixtures: fixtures,
	}
}

// OnSample validates and buffers one orientation reading, creating the
// stream on first contact.
func (e *Engine) OnSample(streamID string, s sensor.Sample) error {
	if err := s.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	buf, ok := e.streams[streamID]
	if !ok {
		buf = sensor.NewBuffer(e.capacity)
		e.streams[streamID] = buf
		log.Info("stream opened", "stream", streamID)
	}
	buf.Push(s)
	e.mu.Unlock()
	return nil
}

// OnCalibrate captures the device's current reading as the moment it
// points at the venue's back-wall centre, and stores the heading
// offset that aligns the two.
func (e *Engine) OnCalibrate(streamID string, s sensor.Sample) error {
	v := e.Venue()
	target := spatial.Normalize(r3.Sub(v.BackWallCenter(), v.UserPosition()))

	rec, err := e.cal.Calibrate(s, target)
	if err != nil {
		return err
	}
	log.Info("calibrated", "stream", streamID, "offset", rec.AlphaOffset)
	return nil
}

// OnResetCalibration discards any stored calibration.
func (e *Engine) OnResetCalibration() {
	e.cal.Reset()
	log.Info("calibration reset")
}

// IsCalibrated reports whether a heading offset is in effect.
func (e *Engine) IsCalibrated() bool {
	return e.cal.IsCalibrated()
}

// Calibration returns the current calibration record, if any.
func (e *Engine) Calibration() (calibration.Record, bool) {
	return e.cal.Snapshot()
}

// DropStream removes a stream's buffer once its device disconnects.
func (e *Engine) DropStream(streamID string) {
	e.mu.Lock()
	if _, ok := e.streams[streamID]; ok {
		delete(e.streams, streamID)
		log.Info("stream closed", "stream", streamID)
	}
	e.mu.Unlock()
}

// StreamCount returns the number of live streams.
func (e *Engine) StreamCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.streams)
}

// Venue returns the current venue configuration.
func (e *Engine) Venue() venue.Venue {
	e.venueMu.RLock()
	defer e.venueMu.RUnlock()
	return e.venue
}

// SetVenue replaces the venue after validation. Calibration survives a
// venue change; the heading offset is relative to the device, not the
// room geometry.
func (e *Engine) SetVenue(v venue.Venue) error {
	if err := v.Validate(); err != nil {
		return err
	}
	e.venueMu.Lock()
	e.venue = v
	e.venueMu.Unlock()
	return nil
}

// Fixtures exposes the registry for REST handlers and scene loads.
func (e *Engine) Fixtures() *fixture.Registry {
	return e.fixtures
}

// ComputeFrame runs the full pipeline for one stream at the given time
// (milliseconds). The second return is false when the stream is
// unknown or empty. A ray that misses the venue still produces a
// frame, with no hit and no aims.
func (e *Engine) ComputeFrame(streamID string, now float64) (Frame, bool) {
	e.mu.RLock()
	buf, ok := e.streams[streamID]
	e.mu.RUnlock()
	if !ok {
		return Frame{}, false
	}

	sample, ok := buf.Interpolate(now)
	if !ok {
		return Frame{}, false
	}

	corrected := e.cal.Correct(sample)
	direction := spatial.ToDirection(corrected.Alpha, corrected.Beta, corrected.Gamma)

	v := e.Venue()
	frame := Frame{
		StreamID:   streamID,
		Sample:     corrected,
		Direction:  direction,
		Calibrated: e.cal.IsCalibrated(),
	}

	hit, found, err := spatial.Intersect(v.UserPosition(), direction, v.Bounds())
	if err != nil || !found {
		return frame, true
	}
	frame.Hit = &hit

	for _, spec := range e.fixtures.List() {
		res, err := fixture.Aim(spec, hit.Point)
		if err != nil {
			// Degenerate geometry for this fixture only; skip it.
			continue
		}
		frame.Aims = append(frame.Aims, Aim{FixtureID: spec.ID, Result: res})
	}
	return frame, true
}

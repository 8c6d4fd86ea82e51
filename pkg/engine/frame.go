package engine

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/venuelab/gyrobeam/pkg/fixture"
	"github.com/venuelab/gyrobeam/pkg/protocol"
	"github.com/venuelab/gyrobeam/pkg/sensor"
	"github.com/venuelab/gyrobeam/pkg/spatial"
)

// Aim pairs a fixture with its computed pan/tilt.
type Aim struct {
	FixtureID string
	Result    fixture.Result
}

// Frame is one pipeline output: the corrected sample, the pointer ray,
// the venue intersection (nil on a miss) and the fixture aims.
type Frame struct {
	StreamID   string
	Sample     sensor.Sample
	Direction  r3.Vec
	Hit        *spatial.Hit
	Aims       []Aim
	Calibrated bool
}

// StateUpdate converts the frame into its broadcast payload.
func (f Frame) StateUpdate() protocol.StateUpdate {
	update := protocol.StateUpdate{
		StreamID: f.StreamID,
		Sensor: protocol.SensorData{
			Alpha:     f.Sample.Alpha,
			Beta:      f.Sample.Beta,
			Gamma:     f.Sample.Gamma,
			Timestamp: f.Sample.Timestamp,
		},
		Pointer: protocol.Pointer{
			Direction: protocol.Point{X: f.Direction.X, Y: f.Direction.Y, Z: f.Direction.Z},
		},
		Fixtures:   make([]protocol.FixtureAim, 0, len(f.Aims)),
		Calibrated: f.Calibrated,
	}
	if f.Hit != nil {
		update.Pointer.Intersection = &protocol.Point{
			X: f.Hit.Point.X,
			Y: f.Hit.Point.Y,
			Z: f.Hit.Point.Z,
		}
	}
	for _, aim := range f.Aims {
		update.Fixtures = append(update.Fixtures, protocol.FixtureAim{
			FixtureID: aim.FixtureID,
			Pan:       aim.Result.Pan,
			Tilt:      aim.Result.Tilt,
		})
	}
	return update
}

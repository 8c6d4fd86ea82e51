package calibration

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/venuelab/gyrobeam/pkg/sensor"
)

var target = r3.Vec{Y: 1}

func TestEngine_StartsUncalibrated(t *testing.T) {
	e := NewEngine()
	if e.IsCalibrated() {
		t.Error("new engine should be uncalibrated")
	}

	s := sensor.Sample{Alpha: 123, Beta: 4, Gamma: 5}
	if got := e.Correct(s); got != s {
		t.Errorf("uncalibrated Correct changed the sample: %+v", got)
	}
}

func TestEngine_HeadingOffset(t *testing.T) {
	e := NewEngine()
	if _, err := e.Calibrate(sensor.Sample{Alpha: 200}, target); err != nil {
		t.Fatalf("calibrate failed: %v", err)
	}

	if got := e.Correct(sensor.Sample{Alpha: 200}).Alpha; got != 0 {
		t.Errorf("replayed calibration sample alpha = %v, want 0", got)
	}
	if got := e.Correct(sensor.Sample{Alpha: 210}).Alpha; got != 10 {
		t.Errorf("alpha 210 corrected to %v, want 10", got)
	}
	// 190 - 200 wraps to 350, not -10.
	if got := e.Correct(sensor.Sample{Alpha: 190}).Alpha; got != 350 {
		t.Errorf("alpha 190 corrected to %v, want 350", got)
	}
}

func TestEngine_PitchRollPassThrough(t *testing.T) {
	e := NewEngine()
	e.Calibrate(sensor.Sample{Alpha: 90, Beta: 45, Gamma: -30}, target)

	s := sensor.Sample{Alpha: 120, Beta: 33, Gamma: -12}
	got := e.Correct(s)
	if got.Beta != s.Beta || got.Gamma != s.Gamma {
		t.Errorf("beta/gamma altered by correction: %+v", got)
	}
}

func TestEngine_Recalibrate(t *testing.T) {
	e := NewEngine()
	e.Calibrate(sensor.Sample{Alpha: 100}, target)
	e.Calibrate(sensor.Sample{Alpha: 250}, target)

	if got := e.Correct(sensor.Sample{Alpha: 250}).Alpha; got != 0 {
		t.Errorf("recalibration not applied, got alpha %v", got)
	}
}

func TestEngine_Reset(t *testing.T) {
	e := NewEngine()
	e.Calibrate(sensor.Sample{Alpha: 100}, target)
	e.Reset()

	if e.IsCalibrated() {
		t.Error("expected uncalibrated after reset")
	}
	if got := e.Correct(sensor.Sample{Alpha: 100}).Alpha; got != 100 {
		t.Errorf("correction still applied after reset: %v", got)
	}
}

func TestEngine_InvalidSampleKeepsPriorRecord(t *testing.T) {
	e := NewEngine()
	e.Calibrate(sensor.Sample{Alpha: 100}, target)

	_, err := e.Calibrate(sensor.Sample{Alpha: math.NaN()}, target)
	if !errors.Is(err, ErrInvalidSample) {
		t.Fatalf("expected ErrInvalidSample, got %v", err)
	}

	rec, ok := e.Snapshot()
	if !ok || rec.AlphaOffset != 100 {
		t.Errorf("prior record disturbed: %+v ok=%v", rec, ok)
	}
}

func TestEngine_InvalidTargetRejected(t *testing.T) {
	e := NewEngine()
	_, err := e.Calibrate(sensor.Sample{Alpha: 10}, r3.Vec{X: math.NaN()})
	if !errors.Is(err, ErrInvalidSample) {
		t.Errorf("expected ErrInvalidSample for NaN target, got %v", err)
	}
}

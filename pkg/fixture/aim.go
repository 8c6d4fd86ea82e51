package fixture

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// degenerateEps: aim vectors shorter than this have no usable direction.
const degenerateEps = 1e-9

// Aim computes the pan/tilt pair that points the fixture at target.
//
// Pan comes from the horizontal components via atan2, so the full 360°
// of heading is representable without a discontinuity; tilt is the
// elevation of the target over the horizontal distance. A ceiling
// mount hangs with its neutral axis pointing down and its forward along
// -Y, so both conventions flip relative to a floor mount; a wall mount
// keeps a horizontal neutral axis. The invert flags flip the respective
// sign again, independently of mounting.
//
// The raw angles are clamped, not wrapped, into the spec's ranges: a
// target outside the physical envelope saturates at the nearest
// boundary. Best-effort pointing is intentional.
func Aim(spec Spec, target r3.Vec) (Result, error) {
	v := r3.Sub(target, spec.Position.Vec())
	if r3.Norm(v) < degenerateEps {
		return Result{}, ErrDegenerateTarget
	}

	horizontal := math.Hypot(v.X, v.Y)

	var pan, tilt float64
	switch spec.Mounting {
	case MountCeiling:
		pan = math.Atan2(v.X, -v.Y)
		tilt = -math.Atan2(v.Z, horizontal)
	default: // floor and wall share the upright conventions
		pan = math.Atan2(v.X, v.Y)
		tilt = math.Atan2(v.Z, horizontal)
	}

	pan = pan * 180 / math.Pi
	tilt = tilt * 180 / math.Pi

	if spec.PanInvert {
		pan = -pan
	}
	if spec.TiltInvert {
		tilt = -tilt
	}

	return Result{
		Pan:  spec.PanRange.Clamp(pan),
		Tilt: spec.TiltRange.Clamp(tilt),
	}, nil
}

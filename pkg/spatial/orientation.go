package spatial

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ToDirection converts compass/pitch/roll angles (degrees) into a unit
// direction vector. Alpha 0 points at +Y, alpha 90 at +X, beta 90
// straight up.
//
// Gamma (roll) is accepted but does not participate: rotating the device
// around its own pointing axis cannot change where it points. The
// parameter is kept so a future screen-orientation correction slots in
// without touching call sites.
func ToDirection(alpha, beta, gamma float64) r3.Vec {
	_ = gamma

	a := alpha * math.Pi / 180
	b := beta * math.Pi / 180

	v := r3.Vec{
		X: math.Sin(a) * math.Cos(b),
		Y: math.Cos(a) * math.Cos(b),
		Z: math.Sin(b),
	}

	// The formula is already unit length; normalize anyway to absorb
	// floating-point drift.
	return Normalize(v)
}

// Normalize returns v scaled to unit length. A near-zero vector falls
// back to the forward direction (+Y) rather than producing NaNs.
func Normalize(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n < 1e-10 {
		return r3.Vec{Y: 1}
	}
	return r3.Scale(1/n, v)
}

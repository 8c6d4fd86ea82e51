package spatial

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidDirection is returned when a ray direction is degenerate
// (zero length). This is a caller bug, not a miss.
var ErrInvalidDirection = errors.New("invalid ray direction")

// parallelEps is the threshold below which a direction component is
// treated as axis-parallel.
const parallelEps = 1e-8

// Bounds is an axis-aligned box, Min < Max on every axis.
type Bounds struct {
	Min r3.Vec
	Max r3.Vec
}

// Hit is the result of a ray/box intersection.
type Hit struct {
	Point    r3.Vec
	Distance float64
}

// Intersect computes where a ray leaves or enters the box using the slab
// method. The second return is false on a miss; a miss is a valid
// outcome, not an error. An error is returned only for a degenerate
// (zero-length) direction.
func Intersect(origin, direction r3.Vec, bounds Bounds) (Hit, bool, error) {
	n := r3.Norm(direction)
	if n < 1e-10 {
		return Hit{}, false, ErrInvalidDirection
	}
	direction = r3.Scale(1/n, direction)

	tNear := math.Inf(-1)
	tFar := math.Inf(1)

	for _, axis := range []struct{ o, d, lo, hi float64 }{
		{origin.X, direction.X, bounds.Min.X, bounds.Max.X},
		{origin.Y, direction.Y, bounds.Min.Y, bounds.Max.Y},
		{origin.Z, direction.Z, bounds.Min.Z, bounds.Max.Z},
	} {
		if math.Abs(axis.d) < parallelEps {
			// Ray is parallel to this slab: either the origin lies
			// between the planes or there is no intersection at all.
			if axis.o < axis.lo || axis.o > axis.hi {
				return Hit{}, false, nil
			}
			continue
		}

		t0 := (axis.lo - axis.o) / axis.d
		t1 := (axis.hi - axis.o) / axis.d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tNear {
			tNear = t0
		}
		if t1 < tFar {
			tFar = t1
		}
		if tNear > tFar {
			return Hit{}, false, nil
		}
	}

	// Box entirely behind the ray.
	if tFar < 0 {
		return Hit{}, false, nil
	}

	// Inside the box tNear is negative: use the exit point instead.
	t := tNear
	if t < 0 {
		t = tFar
	}

	return Hit{
		Point:    r3.Add(origin, r3.Scale(t, direction)),
		Distance: t,
	}, true, nil
}

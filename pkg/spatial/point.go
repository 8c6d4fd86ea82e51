// Package spatial converts device orientation angles into direction
// vectors and intersects pointer rays with the venue volume.
//
// Coordinate frame is Z-up: X is venue width (east/west), Y is depth
// (north/south), Z is height. All angles are degrees at the package
// boundary; radians are internal only.
package spatial

import "gonum.org/v1/gonum/spatial/r3"

// Point is the JSON-friendly form of a venue coordinate. The math core
// works on r3.Vec; Point is the wire and persisted representation.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec converts the point to an r3 vector.
func (p Point) Vec() r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// PointFrom converts an r3 vector to a Point.
func PointFrom(v r3.Vec) Point {
	return Point{X: v.X, Y: v.Y, Z: v.Z}
}

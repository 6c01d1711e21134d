// Package geom provides the 2D geometry primitives used by the toolpath
// encoders: points, dimensions, bounding boxes, rotation between the
// pad-local, part-local and board-global frames, and angle normalization.
package geom

import "math"

// Point is a 2D coordinate in millimeters.
type Point struct {
	X, Y float64
}

// Add translates p by q and returns the result. It is used to move
// board-local coordinates into the global frame by adding the board origin.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Magnitude returns the distance of p from the origin.
func (p Point) Magnitude() float64 {
	return math.Hypot(p.X, p.Y)
}

// Dim is a width/height pair in millimeters.
type Dim struct {
	W, H float64
}

// Area returns W*H.
func (d Dim) Area() float64 {
	return d.W * d.H
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Point
}

// Dim returns the width and height of the box.
func (b Box) Dim() Dim {
	return Dim{W: b.Max.X - b.Min.X, H: b.Max.Y - b.Min.Y}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// NormalizeDeg maps an angle in degrees, from any range, into [0,360).
func NormalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}

// RotateDeg rotates p around the origin by the given signed angle in
// degrees. The magnitude of p is preserved for any angle.
func RotateDeg(p Point, deg float64) Point {
	sin, cos := math.Sincos(Radians(deg))
	return Point{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

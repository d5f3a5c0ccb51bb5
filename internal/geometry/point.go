// Package geometry provides the 2D point/vector value type shared by shapes,
// the scene and the tools.
package geometry

import "math"

// Point is an immutable 2D coordinate that doubles as a vector.
// Every operation returns a new value.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul scales p by k.
func (p Point) Mul(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Div divides p by k. k must be non-zero; callers guard.
func (p Point) Div(k float64) Point {
	return Point{X: p.X / k, Y: p.Y / k}
}

// MulXY multiplies p by q component-wise.
func (p Point) MulXY(q Point) Point {
	return Point{X: p.X * q.X, Y: p.Y * q.Y}
}

// DivXY divides p by q component-wise. Both components of q must be non-zero.
func (p Point) DivXY(q Point) Point {
	return Point{X: p.X / q.X, Y: p.Y / q.Y}
}

// Hypot returns the Euclidean norm of p.
func (p Point) Hypot() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Hypot()
}

// Less orders points by norm.
func (p Point) Less(q Point) bool {
	return p.Hypot() < q.Hypot()
}

// Ordered returns a and b with the lower-norm point first.
func Ordered(a, b Point) (Point, Point) {
	if b.Less(a) {
		return b, a
	}
	return a, b
}

// NearlyEqual reports whether p and q differ by at most tol on each axis.
func (p Point) NearlyEqual(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// Mean returns the arithmetic mean of pts. It returns the zero point for an
// empty slice.
func Mean(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var sum Point
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Div(float64(len(pts)))
}

// Bounds returns the axis-aligned min and max corners of pts.
func Bounds(pts []Point) (Point, Point) {
	if len(pts) == 0 {
		return Point{}, Point{}
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

// SegmentDistance returns the shortest distance from p to the segment a-b.
// The projection parameter is clamped to [0, 1]; a degenerate segment is
// measured as a point.
func SegmentDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Distance(a)
	}

	u := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	switch {
	case u < 0:
		return p.Distance(a)
	case u > 1:
		return p.Distance(b)
	}
	return p.Distance(a.Add(ab.Mul(u)))
}

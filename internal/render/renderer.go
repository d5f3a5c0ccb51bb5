// Package render defines the drawing backend contract consumed by shapes and
// the toolbar, plus two backends: a command Recorder for remote hosts and a
// gg-based Raster for local frames and thumbnails.
package render

import "github.com/rysunek/rysunek/internal/geometry"

// Renderer is a scoped transform stack with a handful of primitives.
//
// Push saves the current transform and color; Pop restores both. Every Push
// must be paired with exactly one Pop.
type Renderer interface {
	Push()
	Pop()
	Translate(x, y float64)
	Scale(x, y float64)
	SetColor(c Color)

	// Rect draws the axis-aligned rectangle spanned by (x0, y0) and (x1, y1),
	// filled or as an outline.
	Rect(x0, y0, x1, y1 float64, filled bool)
	// Disk draws a circle of the given radius centered on (x, y).
	Disk(x, y, radius float64, filled bool)
	// LineStrip draws connected segments through pts.
	LineStrip(pts []geometry.Point)
}

// Scoped runs fn between Push and Pop. Pop runs even if fn panics.
func Scoped(r Renderer, fn func()) {
	r.Push()
	defer r.Pop()
	fn()
}

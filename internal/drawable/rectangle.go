package drawable

import (
	"sort"

	"github.com/rysunek/rysunek/internal/geometry"
	"github.com/rysunek/rysunek/internal/render"
)

// Rectangle is an axis-aligned box spanned by two corners. The corners are
// not sorted: the second one is dragged live and may land on either side.
type Rectangle struct {
	Base
	corner1 geometry.Point
	corner2 geometry.Point
}

// NewRectangle starts a rectangle with both corners at p.
func NewRectangle(id string, p geometry.Point, fill, line render.Color) *Rectangle {
	r := &Rectangle{corner1: p, corner2: p}
	r.Base = newBase(id, fill, line, r)
	return r
}

func (r *Rectangle) Kind() Kind { return KindRectangle }

func (r *Rectangle) ContainsPoint(p geometry.Point) bool {
	a, b := r.world(r.corner1), r.world(r.corner2)
	return isMedian(a.X, p.X, b.X) && isMedian(a.Y, p.Y, b.Y)
}

// isMedian reports whether v is the middle value of {a, v, b}.
func isMedian(a, v, b float64) bool {
	triple := []float64{a, v, b}
	sort.Float64s(triple)
	return triple[1] == v
}

func (r *Rectangle) Centroid() geometry.Point {
	return r.corner1.Add(r.corner2).Div(2)
}

func (r *Rectangle) ConstructStep(p geometry.Point) {
	if r.finished {
		return
	}
	r.corner2 = p
}

func (r *Rectangle) ControlPoints() []geometry.Point {
	return []geometry.Point{r.corner1, r.corner2}
}

func (r *Rectangle) guidePoints() []geometry.Point {
	return r.ControlPoints()
}

func (r *Rectangle) shift(d geometry.Point) {
	r.corner1 = r.corner1.Sub(d)
	r.corner2 = r.corner2.Sub(d)
}

// drawOutline paints the whole box; the fill then leaves a band of
// OutlineWidth on every side.
func (r *Rectangle) drawOutline(rr render.Renderer) {
	lo, hi := geometry.Bounds(r.ControlPoints())
	rr.Rect(lo.X, lo.Y, hi.X, hi.Y, true)
}

func (r *Rectangle) drawFill(rr render.Renderer) {
	lo, hi := geometry.Bounds(r.ControlPoints())
	if hi.X-lo.X <= 2*OutlineWidth || hi.Y-lo.Y <= 2*OutlineWidth {
		return
	}
	rr.Rect(lo.X+OutlineWidth, lo.Y+OutlineWidth, hi.X-OutlineWidth, hi.Y-OutlineWidth, true)
}

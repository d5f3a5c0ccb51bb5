package drawable

import (
	"github.com/rysunek/rysunek/internal/geometry"
	"github.com/rysunek/rysunek/internal/render"
)

// FreeForm is a polyline recorded from raw pointer input.
type FreeForm struct {
	Base
	points []geometry.Point
}

// NewFreeForm starts a polyline at p.
func NewFreeForm(id string, p geometry.Point, fill, line render.Color) *FreeForm {
	f := &FreeForm{points: []geometry.Point{p}}
	f.Base = newBase(id, fill, line, f)
	return f
}

func (f *FreeForm) Kind() Kind { return KindFreeForm }

// ContainsPoint hits when p is within HitTolerance of any segment.
func (f *FreeForm) ContainsPoint(p geometry.Point) bool {
	pts := f.worldPoints(f.points)
	if len(pts) == 1 {
		return p.Distance(pts[0]) <= HitTolerance
	}
	for i := 1; i < len(pts); i++ {
		if geometry.SegmentDistance(p, pts[i-1], pts[i]) <= HitTolerance {
			return true
		}
	}
	return false
}

func (f *FreeForm) Centroid() geometry.Point {
	return geometry.Mean(f.points)
}

// ConstructStep appends p as-is, duplicates included.
func (f *FreeForm) ConstructStep(p geometry.Point) {
	if f.finished {
		return
	}
	f.points = append(f.points, p)
}

func (f *FreeForm) ControlPoints() []geometry.Point {
	return append([]geometry.Point(nil), f.points...)
}

func (f *FreeForm) guidePoints() []geometry.Point {
	return []geometry.Point{f.points[0], f.points[len(f.points)-1]}
}

func (f *FreeForm) shift(d geometry.Point) {
	for i := range f.points {
		f.points[i] = f.points[i].Sub(d)
	}
}

func (f *FreeForm) drawOutline(r render.Renderer) {
	r.LineStrip(f.points)
}

func (f *FreeForm) drawFill(render.Renderer) {}

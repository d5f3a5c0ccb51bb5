package drawable

import (
	"math"

	"github.com/rysunek/rysunek/internal/geometry"
	"github.com/rysunek/rysunek/internal/render"
)

// Ellipse is the ellipse inscribed in the box spanned by two corners.
type Ellipse struct {
	Base
	corner1 geometry.Point
	corner2 geometry.Point
}

// NewEllipse starts an ellipse with both corners at p.
func NewEllipse(id string, p geometry.Point, fill, line render.Color) *Ellipse {
	e := &Ellipse{corner1: p, corner2: p}
	e.Base = newBase(id, fill, line, e)
	return e
}

func (e *Ellipse) Kind() Kind { return KindEllipse }

// ContainsPoint evaluates the implicit ellipse equation, rounded to two
// decimals, and accepts values up to 0.01.
func (e *Ellipse) ContainsPoint(p geometry.Point) bool {
	c1, c2 := e.world(e.corner1), e.world(e.corner2)
	a := (c1.X - c2.X) / 2
	b := (c1.Y - c2.Y) / 2
	if a == 0 {
		a = Epsilon
	}
	if b == 0 {
		b = Epsilon
	}
	center := c1.Add(c2).Div(2)

	dx := (p.X - center.X) / a
	dy := (p.Y - center.Y) / b
	v := dx*dx + dy*dy - 1
	return math.Round(v*100)/100 <= 0.01
}

func (e *Ellipse) Centroid() geometry.Point {
	return e.corner1.Add(e.corner2).Div(2)
}

func (e *Ellipse) ConstructStep(p geometry.Point) {
	if e.finished {
		return
	}
	e.corner2 = p
}

func (e *Ellipse) ControlPoints() []geometry.Point {
	return []geometry.Point{e.corner1, e.corner2}
}

func (e *Ellipse) guidePoints() []geometry.Point {
	return e.ControlPoints()
}

func (e *Ellipse) shift(d geometry.Point) {
	e.corner1 = e.corner1.Sub(d)
	e.corner2 = e.corner2.Sub(d)
}

func (e *Ellipse) drawOutline(r render.Renderer) {
	e.drawDisk(r, 0)
}

func (e *Ellipse) drawFill(r render.Renderer) {
	e.drawDisk(r, -OutlineWidth)
}

// drawDisk fills a disk sized by the x extent, grown by offset, and squashes
// it along y into the ellipse.
func (e *Ellipse) drawDisk(r render.Renderer, offset float64) {
	d := e.corner2.Sub(e.corner1)
	ratio := d.Y
	if d.X != 0 {
		ratio = d.Y / d.X
	}
	radius := math.Abs(d.X) / 2
	if radius+offset <= 0 {
		return
	}
	c := e.Centroid()

	r.Push()
	defer r.Pop()
	r.Translate(c.X, c.Y)
	r.Scale(1, ratio)
	r.Disk(0, 0, radius+offset, true)
}

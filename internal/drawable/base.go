package drawable

import (
	"github.com/rysunek/rysunek/internal/geometry"
	"github.com/rysunek/rysunek/internal/render"
)

// variant is what each shape supplies to the shared Base behavior.
type variant interface {
	Kind() Kind
	Centroid() geometry.Point
	ControlPoints() []geometry.Point
	guidePoints() []geometry.Point
	shift(d geometry.Point)
	drawOutline(r render.Renderer)
	drawFill(r render.Renderer)
}

// Base holds the state shared by every shape and implements the behavior
// that does not vary between them.
type Base struct {
	id          string
	FillColor   render.Color
	LineColor   render.Color
	finished    bool
	selected    bool
	translation geometry.Point
	scale       geometry.Point

	self variant
}

func newBase(id string, fill, line render.Color, self variant) Base {
	return Base{
		id:        id,
		FillColor: fill,
		LineColor: line,
		scale:     geometry.Pt(1, 1),
		self:      self,
	}
}

func (b *Base) ID() string { return b.id }

func (b *Base) Finished() bool { return b.finished }

func (b *Base) Selected() bool { return b.selected }

func (b *Base) SetSelected(selected bool) { b.selected = selected }

// Translation is the accumulated move offset.
func (b *Base) Translation() geometry.Point { return b.translation }

// Scale is the accumulated per-axis resize factor. No component is ever 0.
func (b *Base) Scale() geometry.Point { return b.scale }

func (b *Base) Colors() (fill, line render.Color) { return b.FillColor, b.LineColor }

// world maps a local point into the world frame.
func (b *Base) world(p geometry.Point) geometry.Point {
	return b.translation.Add(b.scale.MulXY(p))
}

func (b *Base) worldPoints(pts []geometry.Point) []geometry.Point {
	out := make([]geometry.Point, len(pts))
	for i, p := range pts {
		out[i] = b.world(p)
	}
	return out
}

// Move shifts the shape by to - from.
func (b *Base) Move(from, to geometry.Point) {
	b.translation = b.translation.Add(to.Sub(from))
}

// Resize multiplies Scale by (to - T) / (from - T) per axis.
//
// This is an approximation: any zero component on either side of the
// division is replaced by Epsilon. An axis the pointer did not move along
// therefore keeps a factor of 1, and a drag that lands exactly on the
// shape's center shrinks it to Epsilon instead of collapsing it.
func (b *Base) Resize(from, to geometry.Point) {
	num := nonZero(to.Sub(b.translation))
	den := nonZero(from.Sub(b.translation))
	b.scale = nonZero(b.scale.MulXY(num.DivXY(den)))
}

func nonZero(p geometry.Point) geometry.Point {
	if p.X == 0 {
		p.X = Epsilon
	}
	if p.Y == 0 {
		p.Y = Epsilon
	}
	return p
}

// Finish ends construction. The first call re-centers the control points on
// the centroid; later calls do nothing.
func (b *Base) Finish() {
	if b.finished {
		return
	}
	b.normalize()
	b.finished = true
}

func (b *Base) normalize() {
	c := b.self.Centroid()
	b.self.shift(c)
	b.translation = b.translation.Add(b.scale.MulXY(c))
}

func (b *Base) highlight() render.Color {
	return render.Highlight(b.FillColor, b.LineColor)
}

// Render draws guides, outline, fill and selection overlay inside one
// transform scope.
func (b *Base) Render(r render.Renderer) {
	r.Push()
	defer r.Pop()

	if !b.finished {
		r.SetColor(b.highlight())
		for _, p := range b.worldPoints(b.self.guidePoints()) {
			r.Disk(p.X, p.Y, GuideRadius, true)
		}
	}

	r.Translate(b.translation.X, b.translation.Y)
	r.Scale(b.scale.X, b.scale.Y)

	r.SetColor(b.LineColor)
	b.self.drawOutline(r)
	r.SetColor(b.FillColor)
	b.self.drawFill(r)

	if b.selected {
		lo, hi := geometry.Bounds(b.self.ControlPoints())
		r.SetColor(b.highlight())
		r.Rect(lo.X, lo.Y, hi.X, hi.Y, false)
	}
}

// State snapshots the shape for persistence.
func (b *Base) State() State {
	return State{
		ID:          b.id,
		Kind:        b.self.Kind(),
		Points:      b.self.ControlPoints(),
		Fill:        b.FillColor,
		Line:        b.LineColor,
		Translation: b.translation,
		Scale:       b.scale,
		Finished:    b.finished,
	}
}

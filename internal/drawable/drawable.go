// Package drawable implements the shapes that live on the canvas.
//
// Every shape keeps its control points in a local frame. The world frame is
// obtained as Translation + Scale*local, applied at hit-test and render time.
// When construction finishes the control points are re-centered on the
// centroid and the centroid is folded into Translation, so later resizes scale
// around the visual center.
package drawable

import (
	"errors"

	"github.com/rysunek/rysunek/internal/geometry"
	"github.com/rysunek/rysunek/internal/render"
)

const (
	// Epsilon replaces zero components in resize factors and zero ellipse
	// semi-axes.
	Epsilon = 1e-6

	// HitTolerance is how far, in world units, a point may lie from a
	// free-form segment and still hit it.
	HitTolerance = 3.0

	// GuideRadius is the radius of construction guide markers.
	GuideRadius = 3.0

	// OutlineWidth is the width of the line-color band around filled
	// rectangles and ellipses.
	OutlineWidth = 2.0
)

// Kind names a shape variant. The values are part of the persisted format.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindEllipse   Kind = "ellipse"
	KindFreeForm  Kind = "freeform"
)

var (
	ErrUnknownKind  = errors.New("unknown shape kind")
	ErrInvalidShape = errors.New("invalid shape")
)

// Drawable is one shape on the canvas.
type Drawable interface {
	ID() string
	Kind() Kind

	// ContainsPoint tests p against the shape in the world frame.
	ContainsPoint(p geometry.Point) bool
	// Centroid is the geometric center in the local frame.
	Centroid() geometry.Point
	// ConstructStep updates the shape from a new pointer position. It does
	// nothing once the shape is finished.
	ConstructStep(p geometry.Point)
	// ControlPoints returns a copy of the local control points.
	ControlPoints() []geometry.Point

	Finish()
	Finished() bool
	Selected() bool
	SetSelected(selected bool)

	Move(from, to geometry.Point)
	Resize(from, to geometry.Point)
	Translation() geometry.Point
	Scale() geometry.Point

	Colors() (fill, line render.Color)
	Render(r render.Renderer)
	State() State
}

// State is the persisted form of a drawable.
type State struct {
	ID          string
	Kind        Kind
	Points      []geometry.Point
	Fill        render.Color
	Line        render.Color
	Translation geometry.Point
	Scale       geometry.Point
	Finished    bool
}

// New starts constructing a shape of the given kind at p.
func New(kind Kind, id string, p geometry.Point, fill, line render.Color) (Drawable, error) {
	switch kind {
	case KindRectangle:
		return NewRectangle(id, p, fill, line), nil
	case KindEllipse:
		return NewEllipse(id, p, fill, line), nil
	case KindFreeForm:
		return NewFreeForm(id, p, fill, line), nil
	}
	return nil, ErrUnknownKind
}

// Restore rebuilds a drawable from persisted state. Points are taken as-is;
// a finished shape is not normalized again.
func Restore(s State) (Drawable, error) {
	scale := s.Scale
	if scale.X == 0 || scale.Y == 0 {
		return nil, ErrInvalidShape
	}

	var d Drawable
	switch s.Kind {
	case KindRectangle, KindEllipse:
		if len(s.Points) != 2 {
			return nil, ErrInvalidShape
		}
		if s.Kind == KindRectangle {
			r := NewRectangle(s.ID, s.Points[0], s.Fill, s.Line)
			r.corner2 = s.Points[1]
			d = r
		} else {
			e := NewEllipse(s.ID, s.Points[0], s.Fill, s.Line)
			e.corner2 = s.Points[1]
			d = e
		}
	case KindFreeForm:
		if len(s.Points) == 0 {
			return nil, ErrInvalidShape
		}
		f := NewFreeForm(s.ID, s.Points[0], s.Fill, s.Line)
		f.points = append(f.points[:0], s.Points...)
		d = f
	default:
		return nil, ErrUnknownKind
	}

	b := baseOf(d)
	b.translation = s.Translation
	b.scale = scale
	b.finished = s.Finished
	return d, nil
}

func baseOf(d Drawable) *Base {
	switch v := d.(type) {
	case *Rectangle:
		return &v.Base
	case *Ellipse:
		return &v.Base
	case *FreeForm:
		return &v.Base
	}
	return nil
}

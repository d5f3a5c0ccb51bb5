package document

import (
	"errors"
	"fmt"
	"time"

	"github.com/rysunek/rysunek/internal/drawable"
	"github.com/rysunek/rysunek/internal/geometry"
	"github.com/rysunek/rysunek/internal/render"
	"github.com/rysunek/rysunek/internal/scene"
)

// Version is the document format written by this package.
const Version = 1

var (
	ErrUnknownKind        = drawable.ErrUnknownKind
	ErrInvalidShape       = drawable.ErrInvalidShape
	ErrUnsupportedVersion = errors.New("unsupported document version")
	ErrInvalidColor       = errors.New("invalid color")
)

type Document struct {
	Version    int     `json:"version"`
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Background string  `json:"background"`
	Shapes     []Shape `json:"shapes"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

type Shape struct {
	ID          string           `json:"id"`
	Kind        drawable.Kind    `json:"kind"`
	Points      []geometry.Point `json:"points"`
	Fill        string           `json:"fill"`
	Line        string           `json:"line"`
	Translation geometry.Point   `json:"translation"`
	Scale       geometry.Point   `json:"scale"`
	Finished    bool             `json:"finished"`
}

// New returns an empty document.
func New(id, name string, width, height int, background render.Color) *Document {
	now := time.Now().UTC().Format(time.RFC3339)
	return &Document{
		Version:    Version,
		ID:         id,
		Name:       name,
		Width:      width,
		Height:     height,
		Background: background.Hex(),
		Shapes:     []Shape{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ShapeOf converts a drawable into its persisted form. Finished rectangle and
// ellipse corners are stored lower-norm first; unfinished ones keep the
// dragged corner second.
func ShapeOf(d drawable.Drawable) Shape {
	st := d.State()
	pts := st.Points
	if st.Finished && (st.Kind == drawable.KindRectangle || st.Kind == drawable.KindEllipse) && len(pts) == 2 {
		pts[0], pts[1] = geometry.Ordered(pts[0], pts[1])
	}
	return Shape{
		ID:          st.ID,
		Kind:        st.Kind,
		Points:      pts,
		Fill:        st.Fill.Hex(),
		Line:        st.Line.Hex(),
		Translation: st.Translation,
		Scale:       st.Scale,
		Finished:    st.Finished,
	}
}

// Drawable rebuilds the shape. A missing scale means (1, 1).
func (s Shape) Drawable() (drawable.Drawable, error) {
	fill, err := render.ParseHex(s.Fill)
	if err != nil {
		return nil, fmt.Errorf("shape %s fill: %w", s.ID, ErrInvalidColor)
	}
	line, err := render.ParseHex(s.Line)
	if err != nil {
		return nil, fmt.Errorf("shape %s line: %w", s.ID, ErrInvalidColor)
	}

	scale := s.Scale
	if scale == (geometry.Point{}) {
		scale = geometry.Pt(1, 1)
	}

	d, err := drawable.Restore(drawable.State{
		ID:          s.ID,
		Kind:        s.Kind,
		Points:      s.Points,
		Fill:        fill,
		Line:        line,
		Translation: s.Translation,
		Scale:       scale,
		Finished:    s.Finished,
	})
	if err != nil {
		return nil, fmt.Errorf("restore shape %s: %w", s.ID, err)
	}
	return d, nil
}

// Capture replaces the document's shapes with the content of s.
func (d *Document) Capture(s *scene.Scene) {
	items := s.Items()
	d.Shapes = make([]Shape, 0, len(items))
	for _, item := range items {
		d.Shapes = append(d.Shapes, ShapeOf(item))
	}
	d.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

// Drawables rebuilds every shape in paint order. It fails on the first bad
// shape and returns nothing in that case.
func (d *Document) Drawables() ([]drawable.Drawable, error) {
	out := make([]drawable.Drawable, 0, len(d.Shapes))
	for _, s := range d.Shapes {
		item, err := s.Drawable()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Scene builds a fresh scene from the document.
func (d *Document) Scene() (*scene.Scene, error) {
	items, err := d.Drawables()
	if err != nil {
		return nil, err
	}
	s := scene.New()
	s.Replace(items)
	return s, nil
}

// BackgroundColor parses Background, falling back to white.
func (d *Document) BackgroundColor() render.Color {
	c, err := render.ParseHex(d.Background)
	if err != nil {
		return render.White
	}
	return c
}

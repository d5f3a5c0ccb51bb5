// Package scene holds the ordered list of shapes on the canvas and the
// single current selection.
package scene

import (
	"github.com/rysunek/rysunek/internal/drawable"
	"github.com/rysunek/rysunek/internal/geometry"
	"github.com/rysunek/rysunek/internal/render"
)

// Scene is an ordered collection of drawables. Creation order is paint
// order: later items are drawn on top.
type Scene struct {
	items    []drawable.Drawable
	selected drawable.Drawable
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// Append adds d on top of everything else.
func (s *Scene) Append(d drawable.Drawable) {
	s.items = append(s.items, d)
}

// Last returns the most recently added drawable, or nil.
func (s *Scene) Last() drawable.Drawable {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

func (s *Scene) Len() int {
	return len(s.items)
}

// Items returns the drawables in paint order. The slice is a copy.
func (s *Scene) Items() []drawable.Drawable {
	return append([]drawable.Drawable(nil), s.items...)
}

// Selected returns the selected drawable, or nil.
func (s *Scene) Selected() drawable.Drawable {
	return s.selected
}

// SelectNone clears the selection.
func (s *Scene) SelectNone() {
	for _, d := range s.items {
		d.SetSelected(false)
	}
	s.selected = nil
}

// SelectAt selects the topmost drawable containing p and returns it. When
// nothing is hit the selection ends up empty and SelectAt returns nil.
func (s *Scene) SelectAt(p geometry.Point) drawable.Drawable {
	s.SelectNone()
	d := s.At(p)
	if d != nil {
		d.SetSelected(true)
		s.selected = d
	}
	return d
}

// At returns the topmost drawable containing p without touching the
// selection.
func (s *Scene) At(p geometry.Point) drawable.Drawable {
	for i := len(s.items) - 1; i >= 0; i-- {
		if d := s.items[i]; d.ContainsPoint(p) {
			return d
		}
	}
	return nil
}

// Remove deletes d from the scene. Removing the selected drawable clears the
// selection. It reports whether d was found.
func (s *Scene) Remove(d drawable.Drawable) bool {
	for i, item := range s.items {
		if item != d {
			continue
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		if s.selected == d {
			d.SetSelected(false)
			s.selected = nil
		}
		return true
	}
	return false
}

// Replace swaps the whole content of the scene and clears the selection.
func (s *Scene) Replace(items []drawable.Drawable) {
	s.selected = nil
	s.items = append([]drawable.Drawable(nil), items...)
	for _, d := range s.items {
		if d.Selected() {
			d.SetSelected(false)
		}
	}
}

// Render draws every drawable in paint order.
func (s *Scene) Render(r render.Renderer) {
	for _, d := range s.items {
		d.Render(r)
	}
}

// Package tool implements the pointer-driven tools that create, select, move,
// resize and delete shapes.
//
// Tools are stateless. Everything a gesture needs to remember between events
// lives on the Context the dispatcher passes in.
package tool

import (
	"fmt"
	"strings"

	"github.com/rysunek/rysunek/internal/drawable"
	"github.com/rysunek/rysunek/internal/geometry"
	"github.com/rysunek/rysunek/internal/render"
	"github.com/rysunek/rysunek/internal/scene"
)

// ID identifies a tool.
type ID int

const (
	Selection ID = iota
	Rectangle
	Ellipse
	FreeForm
	Resize
	Move
	Delete
)

// All lists the tools in toolbar order.
var All = []ID{Selection, Rectangle, Ellipse, FreeForm, Resize, Move, Delete}

var names = map[ID]string{
	Selection: "selection",
	Rectangle: "rectangle",
	Ellipse:   "ellipse",
	FreeForm:  "freeform",
	Resize:    "resize",
	Move:      "move",
	Delete:    "delete",
}

var shortcuts = map[rune]ID{
	's': Selection,
	'r': Rectangle,
	'e': Ellipse,
	'f': FreeForm,
	'x': Resize,
	'm': Move,
	'd': Delete,
}

func (id ID) String() string {
	if n, ok := names[id]; ok {
		return n
	}
	return fmt.Sprintf("tool(%d)", int(id))
}

// Shortcut returns the keyboard key bound to id.
func (id ID) Shortcut() rune {
	for k, v := range shortcuts {
		if v == id {
			return k
		}
	}
	return 0
}

// Creates reports whether id is one of the shape creating tools.
func (id ID) Creates() bool {
	return id == Rectangle || id == Ellipse || id == FreeForm
}

// ParseID resolves a tool by name, case-insensitively.
func ParseID(name string) (ID, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for id, n := range names {
		if n == name {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", name)
}

// ForKey maps a keyboard shortcut to a tool.
func ForKey(key rune) (ID, bool) {
	id, ok := shortcuts[key]
	return id, ok
}

// Context is the mutable state shared by the active tool across events.
type Context struct {
	Scene     *scene.Scene
	FillColor render.Color
	LineColor render.Color

	// NewID names newly created shapes.
	NewID func() string

	// Gesture anchors, re-based on every drag step.
	MoveFrom   *geometry.Point
	ResizeFrom *geometry.Point
}

// ResetGesture drops the transient gesture anchors.
func (c *Context) ResetGesture() {
	c.MoveFrom = nil
	c.ResizeFrom = nil
}

func (c *Context) newID() string {
	if c.NewID == nil {
		return ""
	}
	return c.NewID()
}

// Tool handles pointer events for one interaction mode.
type Tool interface {
	OnPress(p geometry.Point, ctx *Context)
	OnDrag(p geometry.Point, ctx *Context)
	OnRelease(p geometry.Point, ctx *Context)
}

// noop supplies do-nothing handlers to embed.
type noop struct{}

func (noop) OnPress(geometry.Point, *Context)   {}
func (noop) OnDrag(geometry.Point, *Context)    {}
func (noop) OnRelease(geometry.Point, *Context) {}

// For returns the tool implementation for id. Unknown ids get the selection
// tool.
func For(id ID) Tool {
	switch id {
	case Rectangle:
		return creator{kind: drawable.KindRectangle}
	case Ellipse:
		return creator{kind: drawable.KindEllipse}
	case FreeForm:
		return creator{kind: drawable.KindFreeForm}
	case Resize:
		return resizer{}
	case Move:
		return mover{}
	case Delete:
		return deleter{}
	}
	return selector{}
}

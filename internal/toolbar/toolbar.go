// Package toolbar lays out the tool buttons and the color picker strip along
// the top edge of the canvas, hit-tests clicks on them and draws them.
package toolbar

import (
	"github.com/rysunek/rysunek/internal/config"
	"github.com/rysunek/rysunek/internal/geometry"
	"github.com/rysunek/rysunek/internal/render"
	"github.com/rysunek/rysunek/internal/tool"
)

// Box is a half-open axis-aligned rectangle: Min is inside, Max is not.
type Box struct {
	Min, Max geometry.Point
}

func box(x, y, size float64) Box {
	return Box{Min: geometry.Pt(x, y), Max: geometry.Pt(x+size, y+size)}
}

func (b Box) Contains(p geometry.Point) bool {
	return b.Min.X <= p.X && p.X < b.Max.X && b.Min.Y <= p.Y && p.Y < b.Max.Y
}

type button struct {
	Box
	tool tool.ID
}

type swatch struct {
	Box
	color render.Color
}

// Target receives what a toolbar click selects. *engine.Engine satisfies it.
type Target interface {
	SetActiveTool(id tool.ID)
	SetFillColor(c render.Color)
	SetLineColor(c render.Color)
}

// Toolbar is the tool strip followed by the color picker.
type Toolbar struct {
	cfg config.Toolbar

	origin  geometry.Point
	buttons []button

	// color picker
	picker   Box
	fillBox  Box
	lineBox  Box
	swatches []swatch
}

// New lays out a toolbar with its top-left corner at origin.
func New(cfg config.Toolbar, origin geometry.Point) *Toolbar {
	t := &Toolbar{cfg: cfg, origin: origin}

	size := float64(cfg.IconSize)
	pad := float64(cfg.Padding)
	for i, id := range tool.All {
		x := origin.X + pad + (size+pad)*float64(i)
		t.buttons = append(t.buttons, button{Box: box(x, origin.Y+pad, size), tool: id})
	}

	// the picker uses half-size swatches, two rows of palette colors
	small := size / 2
	px := origin.X + t.toolsWidth() + 3*pad
	perRow := len(cfg.Palette) / 2
	width := float64(perRow)*(small+pad) + 3*(pad+small)
	t.picker = Box{Min: geometry.Pt(px, origin.Y), Max: geometry.Pt(px+width, origin.Y+t.Height())}
	t.fillBox = box(px+pad, origin.Y+pad, small)
	t.lineBox = box(px+pad+(small+pad), origin.Y+pad+(small+pad/2), small)

	for i, c := range cfg.Palette {
		line, pos := i/perRow, i%perRow
		x := px + 3*pad + 3*small + (small+pad)*float64(pos)
		y := origin.Y + pad + (small+pad/2)*float64(line)
		t.swatches = append(t.swatches, swatch{Box: box(x, y, small), color: c})
	}
	return t
}

func (t *Toolbar) toolsWidth() float64 {
	return float64(len(t.buttons))*float64(t.cfg.IconSize+t.cfg.Padding) + float64(t.cfg.Padding)
}

// Height is the height of the whole strip.
func (t *Toolbar) Height() float64 {
	return float64(t.cfg.IconSize + 2*t.cfg.Padding)
}

// Width spans the tool buttons, the gap and the color picker.
func (t *Toolbar) Width() float64 {
	return t.picker.Max.X - t.origin.X
}

// Contains reports whether p falls on the toolbar, including the picker.
func (t *Toolbar) Contains(p geometry.Point) bool {
	return t.origin.X <= p.X && p.X < t.picker.Max.X &&
		t.origin.Y <= p.Y && p.Y < t.origin.Y+t.Height()
}

// HitKind says what a toolbar click landed on.
type HitKind int

const (
	HitNone HitKind = iota
	HitTool
	HitSwatch
)

type Hit struct {
	Kind  HitKind
	Tool  tool.ID
	Color render.Color
}

// HitTest finds the button or swatch under p.
func (t *Toolbar) HitTest(p geometry.Point) Hit {
	if t.picker.Contains(p) {
		for _, s := range t.swatches {
			if s.Contains(p) {
				return Hit{Kind: HitSwatch, Color: s.color}
			}
		}
		return Hit{}
	}
	for _, b := range t.buttons {
		if b.Contains(p) {
			return Hit{Kind: HitTool, Tool: b.tool}
		}
	}
	return Hit{}
}

// Click applies a click released at p. A swatch sets the fill color on the
// primary button and the line color on the secondary one; a tool button
// activates its tool. It reports whether anything changed.
func (t *Toolbar) Click(p geometry.Point, secondary bool, target Target) bool {
	hit := t.HitTest(p)
	switch hit.Kind {
	case HitSwatch:
		if secondary {
			target.SetLineColor(hit.Color)
		} else {
			target.SetFillColor(hit.Color)
		}
		return true
	case HitTool:
		target.SetActiveTool(hit.Tool)
		return true
	}
	return false
}

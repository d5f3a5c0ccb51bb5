package toolbar

import (
	"github.com/rysunek/rysunek/internal/geometry"
	"github.com/rysunek/rysunek/internal/render"
	"github.com/rysunek/rysunek/internal/tool"
)

var iconColor = render.RGBA(0.2, 0.2, 0.2, 1)

// Draw paints the toolbar with active highlighted and the current colors in
// the picker.
func (t *Toolbar) Draw(r render.Renderer, active tool.ID, fill, line render.Color) {
	r.Push()
	defer r.Pop()

	r.SetColor(t.cfg.Color)
	r.Rect(t.origin.X, t.origin.Y, t.origin.X+t.toolsWidth(), t.origin.Y+t.Height(), true)

	for _, b := range t.buttons {
		if b.tool == active {
			r.SetColor(t.cfg.SelectionColor)
			r.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Max.Y, true)
		}
		r.SetColor(iconColor)
		drawIcon(r, b.tool, b.Box)
	}

	r.SetColor(t.cfg.Color)
	r.Rect(t.picker.Min.X, t.picker.Min.Y, t.picker.Max.X, t.picker.Max.Y, true)

	r.SetColor(fill)
	r.Rect(t.fillBox.Min.X, t.fillBox.Min.Y, t.fillBox.Max.X, t.fillBox.Max.Y, true)
	r.SetColor(line)
	r.Rect(t.lineBox.Min.X, t.lineBox.Min.Y, t.lineBox.Max.X, t.lineBox.Max.Y, true)

	for _, s := range t.swatches {
		r.SetColor(s.color)
		r.Rect(s.Min.X, s.Min.Y, s.Max.X, s.Max.Y, true)
		r.SetColor(iconColor)
		r.Rect(s.Min.X, s.Min.Y, s.Max.X, s.Max.Y, false)
	}
}

// drawIcon draws a small pictogram of id inside b.
func drawIcon(r render.Renderer, id tool.ID, b Box) {
	size := b.Max.X - b.Min.X
	inset := size / 4
	lo := b.Min.Add(geometry.Pt(inset, inset))
	hi := b.Max.Sub(geometry.Pt(inset, inset))
	mid := lo.Add(hi).Div(2)

	switch id {
	case tool.Selection:
		r.Rect(lo.X, lo.Y, hi.X, hi.Y, false)
	case tool.Rectangle:
		r.Rect(lo.X, lo.Y, hi.X, hi.Y, true)
	case tool.Ellipse:
		r.Disk(mid.X, mid.Y, (hi.X-lo.X)/2, true)
	case tool.FreeForm:
		r.LineStrip([]geometry.Point{
			{X: lo.X, Y: hi.Y},
			{X: lo.X + (hi.X-lo.X)/3, Y: lo.Y},
			{X: lo.X + 2*(hi.X-lo.X)/3, Y: hi.Y},
			{X: hi.X, Y: lo.Y},
		})
	case tool.Resize:
		r.Rect(lo.X, lo.Y, mid.X, mid.Y, false)
		r.Rect(lo.X, lo.Y, hi.X, hi.Y, false)
	case tool.Move:
		r.LineStrip([]geometry.Point{{X: mid.X, Y: lo.Y}, {X: mid.X, Y: hi.Y}})
		r.LineStrip([]geometry.Point{{X: lo.X, Y: mid.Y}, {X: hi.X, Y: mid.Y}})
	case tool.Delete:
		r.LineStrip([]geometry.Point{lo, hi})
		r.LineStrip([]geometry.Point{{X: lo.X, Y: hi.Y}, {X: hi.X, Y: lo.Y}})
	}
}

package render

import (
	"fmt"
	"image"
	"image/draw"
	"io"

	"github.com/gogpu/gg"

	"github.com/rysunek/rysunek/internal/geometry"
)

// Raster implements Renderer on top of a gg software context. It is used for
// the desktop window and for PNG thumbnails.
//
// gg's Push/Pop covers the transform only, so Raster keeps its own color
// stack alongside it.
type Raster struct {
	dc     *gg.Context
	color  Color
	colors []Color
	err    error
}

// NewRaster allocates a width x height canvas.
func NewRaster(width, height int) *Raster {
	r := &Raster{dc: gg.NewContext(width, height), color: Black}
	r.dc.SetLineWidth(1)
	return r
}

// Clear fills the whole canvas with c, ignoring the transform.
func (r *Raster) Clear(c Color) {
	r.dc.ClearWithColor(gg.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
}

func (r *Raster) Push() {
	r.dc.Push()
	r.colors = append(r.colors, r.color)
}

func (r *Raster) Pop() {
	if len(r.colors) == 0 {
		return
	}
	r.dc.Pop()
	r.color = r.colors[len(r.colors)-1]
	r.colors = r.colors[:len(r.colors)-1]
	r.applyColor()
}

func (r *Raster) Translate(x, y float64) { r.dc.Translate(x, y) }

func (r *Raster) Scale(x, y float64) { r.dc.Scale(x, y) }

func (r *Raster) SetColor(c Color) {
	r.color = c
	r.applyColor()
}

func (r *Raster) applyColor() {
	r.dc.SetRGBA(r.color.R, r.color.G, r.color.B, r.color.A)
}

func (r *Raster) Rect(x0, y0, x1, y1 float64, filled bool) {
	lo, hi := geometry.Bounds([]geometry.Point{{X: x0, Y: y0}, {X: x1, Y: y1}})
	r.dc.DrawRectangle(lo.X, lo.Y, hi.X-lo.X, hi.Y-lo.Y)
	r.paint(filled, "rect")
}

func (r *Raster) Disk(x, y, radius float64, filled bool) {
	if radius < 0 {
		radius = -radius
	}
	r.dc.DrawCircle(x, y, radius)
	r.paint(filled, "disk")
}

func (r *Raster) LineStrip(pts []geometry.Point) {
	if len(pts) == 0 {
		return
	}
	r.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		r.dc.LineTo(p.X, p.Y)
	}
	r.paint(false, "line strip")
}

func (r *Raster) paint(filled bool, what string) {
	var err error
	if filled {
		err = r.dc.Fill()
	} else {
		err = r.dc.Stroke()
	}
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("paint %s: %w", what, err)
	}
}

// Err returns the first paint error since the raster was created.
func (r *Raster) Err() error {
	return r.err
}

// Width returns the canvas width in pixels.
func (r *Raster) Width() int { return r.dc.Width() }

// Height returns the canvas height in pixels.
func (r *Raster) Height() int { return r.dc.Height() }

// RGBA returns a copy of the canvas as an *image.RGBA.
func (r *Raster) RGBA() *image.RGBA {
	img := r.dc.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}

// EncodePNG writes the canvas as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if err := r.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Close releases the underlying context.
func (r *Raster) Close() error {
	return r.dc.Close()
}

package document

import (
	"github.com/rysunek/rysunek/internal/drawable"
	"github.com/rysunek/rysunek/internal/geometry"
	"github.com/rysunek/rysunek/internal/render"
	"github.com/rysunek/rysunek/internal/typeid"
)

// NewSample returns a small finished drawing with one shape of each kind.
func NewSample(id string) *Document {
	doc := New(id, "Sample", 800, 500, render.White)

	rect := drawable.NewRectangle(typeid.NewShapeID(), geometry.Pt(80, 80), render.MustParseHex("#0000ff"), render.Black)
	rect.ConstructStep(geometry.Pt(280, 200))
	rect.Finish()

	ellipse := drawable.NewEllipse(typeid.NewShapeID(), geometry.Pt(320, 120), render.MustParseHex("#ffff00"), render.Black)
	ellipse.ConstructStep(geometry.Pt(520, 260))
	ellipse.Finish()

	wave := drawable.NewFreeForm(typeid.NewShapeID(), geometry.Pt(100, 360), render.Black, render.MustParseHex("#ff0000"))
	for i, y := range []float64{330, 390, 330, 390, 330, 390} {
		wave.ConstructStep(geometry.Pt(float64(140+40*i), y))
	}
	wave.Finish()

	for _, d := range []drawable.Drawable{rect, ellipse, wave} {
		doc.Shapes = append(doc.Shapes, ShapeOf(d))
	}
	return doc
}

package toolbar

import (
	"testing"

	"github.com/rysunek/rysunek/internal/config"
	"github.com/rysunek/rysunek/internal/geometry"
	"github.com/rysunek/rysunek/internal/render"
	"github.com/rysunek/rysunek/internal/tool"
)

var palette = []render.Color{
	render.MustParseHex("#000000"), render.MustParseHex("#ff0000"),
	render.MustParseHex("#00ff00"), render.MustParseHex("#0000ff"),
	render.MustParseHex("#ffffff"), render.MustParseHex("#ffff00"),
	render.MustParseHex("#00ffff"), render.MustParseHex("#ff00ff"),
}

func testConfig() config.Toolbar {
	return config.Toolbar{
		IconSize:       32,
		Padding:        5,
		Color:          render.MustParseHex("#e8e8e3"),
		SelectionColor: render.MustParseHex("#d1d1f2"),
		Palette:        palette,
	}
}

type fakeTarget struct {
	tool       tool.ID
	fill, line render.Color
	calls      int
}

func (f *fakeTarget) SetActiveTool(id tool.ID)    { f.tool = id; f.calls++ }
func (f *fakeTarget) SetFillColor(c render.Color) { f.fill = c; f.calls++ }
func (f *fakeTarget) SetLineColor(c render.Color) { f.line = c; f.calls++ }

func TestLayout(t *testing.T) {
	tb := New(testConfig(), geometry.Point{})

	if got := tb.Height(); got != 42 {
		t.Errorf("Height() = %v, want 42", got)
	}
	// 7 buttons of 32 + 5 padding, a 15 gap, then 4 swatches per row plus 3 slots
	if got := tb.Width(); got != 426 {
		t.Errorf("Width() = %v, want 426", got)
	}
	if !tb.Contains(geometry.Pt(0, 0)) || !tb.Contains(geometry.Pt(425, 41)) {
		t.Error("corners of the strip should be inside")
	}
	if tb.Contains(geometry.Pt(426, 10)) || tb.Contains(geometry.Pt(10, 42)) {
		t.Error("points past the strip should be outside")
	}
}

func TestHitTestTools(t *testing.T) {
	tb := New(testConfig(), geometry.Point{})

	for i, id := range tool.All {
		center := geometry.Pt(5+37*float64(i)+16, 21)
		hit := tb.HitTest(center)
		if hit.Kind != HitTool || hit.Tool != id {
			t.Errorf("HitTest(%v) = %+v, want tool %v", center, hit, id)
		}
	}

	if hit := tb.HitTest(geometry.Pt(2, 21)); hit.Kind != HitNone {
		t.Errorf("padding hit = %+v, want none", hit)
	}
}

func TestHitTestSwatches(t *testing.T) {
	tb := New(testConfig(), geometry.Point{})

	tests := []struct {
		name string
		p    geometry.Point
		want render.Color
	}{
		{"first row first", geometry.Pt(350, 13), palette[0]},
		{"first row last", geometry.Pt(350+3*21, 13), palette[3]},
		{"second row second", geometry.Pt(371, 31), palette[5]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := tb.HitTest(tt.p)
			if hit.Kind != HitSwatch || hit.Color != tt.want {
				t.Errorf("HitTest(%v) = %+v, want swatch %v", tt.p, hit, tt.want)
			}
		})
	}

	// the current fill swatch is display only
	if hit := tb.HitTest(geometry.Pt(290, 10)); hit.Kind != HitNone {
		t.Errorf("current color swatch hit = %+v, want none", hit)
	}
}

func TestClick(t *testing.T) {
	tb := New(testConfig(), geometry.Point{})
	target := &fakeTarget{}

	if !tb.Click(geometry.Pt(5+37*2+16, 21), false, target) || target.tool != tool.Ellipse {
		t.Errorf("tool click gave tool %v", target.tool)
	}
	if !tb.Click(geometry.Pt(371, 31), false, target) || target.fill != palette[5] {
		t.Errorf("primary swatch click gave fill %v", target.fill)
	}
	if !tb.Click(geometry.Pt(350, 13), true, target) || target.line != palette[0] {
		t.Errorf("secondary swatch click gave line %v", target.line)
	}
	if tb.Click(geometry.Pt(600, 300), false, target) {
		t.Error("click outside reported a change")
	}
	if target.calls != 3 {
		t.Errorf("calls = %d, want 3", target.calls)
	}
}

func TestDraw(t *testing.T) {
	tb := New(testConfig(), geometry.Pt(0, 0))
	rec := render.NewRecorder()
	tb.Draw(rec, tool.Move, render.Black, render.White)

	if rec.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", rec.Depth())
	}
	highlighted := 0
	for _, c := range rec.Commands() {
		if c.Op == "rect" && c.Filled && c.Color == testConfig().SelectionColor.Hex() {
			highlighted++
			if c.Rect[0] != 5+37*5 {
				t.Errorf("highlight at x = %v, want the move button", c.Rect[0])
			}
		}
	}
	if highlighted != 1 {
		t.Errorf("highlighted buttons = %d, want 1", highlighted)
	}
}

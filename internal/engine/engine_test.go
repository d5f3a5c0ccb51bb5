package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/rysunek/rysunek/internal/drawable"
	"github.com/rysunek/rysunek/internal/geometry"
	"github.com/rysunek/rysunek/internal/render"
	"github.com/rysunek/rysunek/internal/tool"
)

func newTestEngine() *Engine {
	n := 0
	opts := DefaultOptions()
	opts.NewID = func() string {
		n++
		return fmt.Sprintf("shp_%d", n)
	}
	return NewEngine(opts)
}

func drag(e *Engine, x0, y0, x1, y1 float64) {
	e.OnPress(x0, y0)
	e.OnDrag(x1, y1)
	e.OnRelease(x1, y1)
}

func TestDefaults(t *testing.T) {
	e := newTestEngine()
	if e.ActiveTool() != tool.Rectangle {
		t.Errorf("ActiveTool() = %v, want rectangle", e.ActiveTool())
	}
	if e.FillColor() != render.Black || e.LineColor() != render.RGBA(1, 1, 0, 1) {
		t.Errorf("colors = %v/%v, want black/yellow", e.FillColor(), e.LineColor())
	}
	if e.Dirty() {
		t.Error("new engine should not be dirty")
	}
}

func TestRectangleZeroDrag(t *testing.T) {
	e := newTestEngine()
	drag(e, 10, 10, 10, 10)

	if e.Scene().Len() != 1 {
		t.Fatalf("Len() = %d, want 1", e.Scene().Len())
	}
	if !e.Scene().Last().Finished() {
		t.Error("shape should be finished after release")
	}
	if !e.Dirty() {
		t.Error("engine should be dirty after drawing")
	}
}

func TestMoveAndResizeScenarios(t *testing.T) {
	e := newTestEngine()
	drag(e, -10, -10, 10, 10)
	rect := e.Scene().Last()

	e.SetActiveTool(tool.Move)
	e.Scene().SelectAt(rect.Translation())
	drag(e, 5, 5, 15, 5)
	if got := rect.Translation(); got.X != 10 || got.Y != 0 {
		t.Errorf("Translation() = %v, want (10, 0)", got)
	}

	e.SetActiveTool(tool.Move)
	drag(e, 10, 0, 0, 0)

	e.SetActiveTool(tool.Resize)
	drag(e, 10, 0, 20, 0)
	s := rect.Scale()
	if math.Abs(s.X-2) > 1e-9 || math.Abs(s.Y-1) > 1e-9 {
		t.Errorf("Scale() = %v, want (2, 1)", s)
	}
}

func TestSwitchingToolsResetsGesture(t *testing.T) {
	e := newTestEngine()
	drag(e, 0, 0, 10, 10)

	e.SetActiveTool(tool.Move)
	e.OnPress(5, 5)
	e.SetActiveTool(tool.Move)
	e.OnDrag(50, 50)

	if got := e.Scene().Last().Translation(); got.X != 5 || got.Y != 5 {
		t.Errorf("drag after tool switch moved the shape to %v", got)
	}
}

func TestToolSwitchFinishesShapeUnderConstruction(t *testing.T) {
	e := newTestEngine()
	e.OnPress(10, 10)
	e.OnDrag(30, 30)
	e.KeyPress('m')
	e.OnRelease(30, 30)

	d := e.Scene().Last()
	if !d.Finished() {
		t.Fatal("shape left unfinished after switching tools mid-gesture")
	}
	if got := d.Translation(); got != geometry.Pt(20, 20) {
		t.Errorf("Translation() = %v, want the centroid (20, 20)", got)
	}

	// switching between non-creating tools leaves loaded shapes alone
	if err := e.LoadDocument(e.Document()); err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}
	e.SetActiveTool(tool.Selection)
	if !e.Scene().Last().Finished() {
		t.Error("finished shape changed state")
	}
}

func TestKeyPress(t *testing.T) {
	e := newTestEngine()
	tests := []struct {
		key  rune
		want tool.ID
		ok   bool
	}{
		{'e', tool.Ellipse, true},
		{'f', tool.FreeForm, true},
		{'d', tool.Delete, true},
		{'z', tool.Delete, false},
		{'s', tool.Selection, true},
	}

	for _, tt := range tests {
		if got := e.KeyPress(tt.key); got != tt.ok {
			t.Errorf("KeyPress(%q) = %v, want %v", tt.key, got, tt.ok)
		}
		if e.ActiveTool() != tt.want {
			t.Errorf("after %q ActiveTool() = %v, want %v", tt.key, e.ActiveTool(), tt.want)
		}
	}
}

func TestSetActiveToolByName(t *testing.T) {
	e := newTestEngine()
	if err := e.SetActiveToolByName("Ellipse"); err != nil {
		t.Fatalf("SetActiveToolByName() error = %v", err)
	}
	if e.ActiveTool() != tool.Ellipse {
		t.Errorf("ActiveTool() = %v, want ellipse", e.ActiveTool())
	}
	if err := e.SetActiveToolByName("spray"); err == nil {
		t.Error("unknown tool name expected error")
	}
}

func TestColorsApplyToNewShapes(t *testing.T) {
	e := newTestEngine()
	red := render.RGBA(1, 0, 0, 1)
	e.SetFillColor(red)
	e.SetLineColor(render.White)
	drag(e, 0, 0, 10, 10)

	fill, line := e.Scene().Last().Colors()
	if fill != red || line != render.White {
		t.Errorf("Colors() = %v/%v, want red/white", fill, line)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	e := newTestEngine()
	drag(e, 0, 0, 40, 20)
	e.KeyPress('f')
	e.OnPress(0, 0)
	e.OnDrag(5, 0)
	e.OnDrag(5, 5)
	e.OnRelease(5, 5)

	data := e.GetDocument()

	other := newTestEngine()
	if err := other.LoadDocumentJSON(data); err != nil {
		t.Fatalf("LoadDocumentJSON() error = %v", err)
	}
	if other.Dirty() {
		t.Error("freshly loaded engine should be clean")
	}
	items := other.Scene().Items()
	if len(items) != 2 || items[0].Kind() != drawable.KindRectangle || items[1].Kind() != drawable.KindFreeForm {
		t.Fatalf("loaded items = %v", items)
	}
	if !items[1].ContainsPoint(geometry.Pt(5, 2)) {
		t.Error("loaded freeform should contain (5, 2)")
	}

	if err := other.LoadDocumentJSON(`{"version":1,"shapes":[{"kind":"star"}]}`); err == nil {
		t.Fatal("loading a bad document expected error")
	}
	if other.Scene().Len() != 2 {
		t.Error("failed load should keep the current scene")
	}
}

func TestLoadSampleDocument(t *testing.T) {
	e := newTestEngine()
	e.LoadSampleDocument("drw_sample")
	if e.Scene().Len() != 3 {
		t.Errorf("Len() = %d, want 3", e.Scene().Len())
	}
	if doc := e.Document(); doc.ID != "drw_sample" || len(doc.Shapes) != 3 {
		t.Errorf("Document() = %s with %d shapes", doc.ID, len(doc.Shapes))
	}
}

func TestRenderCommands(t *testing.T) {
	e := newTestEngine()
	out, err := e.RenderCommands()
	if err != nil || out != "[]" {
		t.Errorf("empty RenderCommands() = %s, %v, want []", out, err)
	}

	drag(e, 0, 0, 10, 10)
	out, err = e.RenderCommands()
	if err != nil {
		t.Fatalf("RenderCommands() error = %v", err)
	}
	var cmds []render.DrawCommand
	if err := json.Unmarshal([]byte(out), &cmds); err != nil {
		t.Fatalf("RenderCommands() is not JSON: %v", err)
	}
	if len(cmds) == 0 || cmds[0].Op != "save" || cmds[len(cmds)-1].Op != "restore" {
		t.Errorf("commands = %v, want a balanced scope", cmds)
	}
}

func TestGetState(t *testing.T) {
	e := newTestEngine()
	var state map[string]any
	if err := json.Unmarshal([]byte(e.GetState()), &state); err != nil {
		t.Fatal(err)
	}
	if state["tool"] != "rectangle" || state["fillColor"] != "#000000ff" {
		t.Errorf("GetState() = %v", state)
	}
}

func TestHitTestAndSelection(t *testing.T) {
	e := newTestEngine()
	drag(e, 10, 10, 40, 40)

	if got := e.HitTest(20, 20); got != "shp_1" {
		t.Errorf("HitTest(inside) = %q, want shp_1", got)
	}
	if got := e.HitTest(200, 200); got != "" {
		t.Errorf("HitTest(outside) = %q, want empty", got)
	}
	if got := e.Selection(); got != "" {
		t.Errorf("Selection() = %q before selecting, want empty", got)
	}

	e.SetActiveTool(tool.Selection)
	e.OnPress(20, 20)
	if got := e.Selection(); got != "shp_1" {
		t.Errorf("Selection() = %q, want shp_1", got)
	}
}

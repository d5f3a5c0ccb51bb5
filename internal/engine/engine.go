package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rysunek/rysunek/internal/document"
	"github.com/rysunek/rysunek/internal/geometry"
	"github.com/rysunek/rysunek/internal/render"
	"github.com/rysunek/rysunek/internal/scene"
	"github.com/rysunek/rysunek/internal/tool"
	"github.com/rysunek/rysunek/internal/typeid"
)

// Engine is the drawing surface a host drives. It owns the scene, the active
// tool and the tool context, and turns pointer events into scene changes.
//
// Engine is not safe for concurrent use; the host serializes events and
// render calls.
type Engine struct {
	// Document metadata; shapes are captured from the scene on demand
	doc *document.Document

	ctx    tool.Context
	active tool.ID
	tool   tool.Tool

	// Scene may have changed since the last MarkClean
	dirty bool
}

// Options configures a new Engine.
type Options struct {
	FillColor render.Color
	LineColor render.Color
	// NewID names new shapes. Defaults to shape typeids.
	NewID func() string
}

// DefaultOptions paints black shapes with a yellow outline.
func DefaultOptions() Options {
	return Options{
		FillColor: render.Black,
		LineColor: render.RGBA(1, 1, 0, 1),
		NewID:     typeid.NewShapeID,
	}
}

// NewEngine creates an engine with an empty untitled document and the
// rectangle tool active.
func NewEngine(opts Options) *Engine {
	if opts.NewID == nil {
		opts.NewID = typeid.NewShapeID
	}
	e := &Engine{
		doc: document.New("", "Untitled", 800, 500, render.White),
		ctx: tool.Context{
			Scene:     scene.New(),
			FillColor: opts.FillColor,
			LineColor: opts.LineColor,
			NewID:     opts.NewID,
		},
	}
	e.SetActiveTool(tool.Rectangle)
	return e
}

// --- Commands (host → engine) ---

func (e *Engine) OnPress(x, y float64) {
	e.tool.OnPress(geometry.Pt(x, y), &e.ctx)
	e.dirty = true
}

func (e *Engine) OnDrag(x, y float64) {
	e.tool.OnDrag(geometry.Pt(x, y), &e.ctx)
	e.dirty = true
}

func (e *Engine) OnRelease(x, y float64) {
	e.tool.OnRelease(geometry.Pt(x, y), &e.ctx)
	e.dirty = true
}

// SetActiveTool switches tools and drops any half-done move or resize
// gesture. A shape still under construction is finished first.
func (e *Engine) SetActiveTool(id tool.ID) {
	if e.tool != nil && e.active.Creates() {
		tool.FinishPending(&e.ctx)
	}
	e.active = id
	e.tool = tool.For(id)
	e.ctx.ResetGesture()
	slog.Debug("tool selected", "tool", id)
}

// SetActiveToolByName is SetActiveTool for hosts that speak tool names.
func (e *Engine) SetActiveToolByName(name string) error {
	id, err := tool.ParseID(name)
	if err != nil {
		return err
	}
	e.SetActiveTool(id)
	return nil
}

// KeyPress applies a keyboard shortcut. It reports whether the key was
// bound to a tool.
func (e *Engine) KeyPress(key rune) bool {
	id, ok := tool.ForKey(key)
	if !ok {
		return false
	}
	e.SetActiveTool(id)
	return true
}

func (e *Engine) SetFillColor(c render.Color) { e.ctx.FillColor = c }

func (e *Engine) SetLineColor(c render.Color) { e.ctx.LineColor = c }

// LoadDocument replaces the scene with the shapes of doc. On error the
// current scene is kept.
func (e *Engine) LoadDocument(doc *document.Document) error {
	items, err := doc.Drawables()
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	e.ctx.Scene.Replace(items)
	e.ctx.ResetGesture()

	meta := *doc
	meta.Shapes = nil
	e.doc = &meta
	e.dirty = false
	return nil
}

// LoadDocumentJSON decodes and loads a document.
func (e *Engine) LoadDocumentJSON(jsonData string) error {
	doc, err := document.Parse([]byte(jsonData))
	if err != nil {
		return err
	}
	return e.LoadDocument(doc)
}

// LoadSampleDocument loads the built-in sample drawing.
func (e *Engine) LoadSampleDocument(drawingID string) {
	if err := e.LoadDocument(document.NewSample(drawingID)); err != nil {
		// the sample is built from valid shapes
		panic(err)
	}
}

// MarkClean records that the current scene has been persisted.
func (e *Engine) MarkClean() { e.dirty = false }

// --- Queries (host ← engine) ---

func (e *Engine) ActiveTool() tool.ID { return e.active }

func (e *Engine) FillColor() render.Color { return e.ctx.FillColor }

func (e *Engine) LineColor() render.Color { return e.ctx.LineColor }

func (e *Engine) Scene() *scene.Scene { return e.ctx.Scene }

// Dirty reports whether the scene may have changed since it was loaded or
// last marked clean.
func (e *Engine) Dirty() bool { return e.dirty }

// HitTest returns the ID of the topmost shape at (x, y), or "" when there is
// none. The selection is left alone.
func (e *Engine) HitTest(x, y float64) string {
	if d := e.ctx.Scene.At(geometry.Pt(x, y)); d != nil {
		return d.ID()
	}
	return ""
}

// Selection returns the ID of the selected shape, or "".
func (e *Engine) Selection() string {
	if d := e.ctx.Scene.Selected(); d != nil {
		return d.ID()
	}
	return ""
}

// Render draws the scene in paint order.
func (e *Engine) Render(r render.Renderer) {
	e.ctx.Scene.Render(r)
}

// RenderCommands renders the scene into a draw command buffer and returns
// it as JSON.
func (e *Engine) RenderCommands() (string, error) {
	rec := render.NewRecorder()
	e.Render(rec)
	return render.DrawCommandsToJSON(rec.Commands())
}

// Document returns a snapshot of the document with the current shapes.
func (e *Engine) Document() *document.Document {
	doc := *e.doc
	doc.Capture(e.ctx.Scene)
	return &doc
}

// GetDocument returns the document snapshot as JSON.
func (e *Engine) GetDocument() string {
	data, err := json.Marshal(e.Document())
	if err != nil {
		return "{}"
	}
	return string(data)
}

// GetState returns the active tool and colors as JSON.
func (e *Engine) GetState() string {
	data, err := json.Marshal(map[string]interface{}{
		"tool":      e.active.String(),
		"fillColor": e.ctx.FillColor.Hex(),
		"lineColor": e.ctx.LineColor.Hex(),
		"shapes":    e.ctx.Scene.Len(),
		"dirty":     e.dirty,
	})
	if err != nil {
		return "{}"
	}
	return string(data)
}

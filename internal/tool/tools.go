package tool

import (
	"log/slog"

	"github.com/rysunek/rysunek/internal/drawable"
	"github.com/rysunek/rysunek/internal/geometry"
)

type selector struct{ noop }

func (selector) OnRelease(p geometry.Point, ctx *Context) {
	ctx.Scene.SelectAt(p)
}

// creator builds a new shape of one kind: press starts it, drag reshapes
// the newest shape, release finishes it wherever the pointer is.
type creator struct {
	noop
	kind drawable.Kind
}

func (c creator) OnPress(p geometry.Point, ctx *Context) {
	d, err := drawable.New(c.kind, ctx.newID(), p, ctx.FillColor, ctx.LineColor)
	if err != nil {
		slog.Warn("create shape", "kind", c.kind, "error", err)
		return
	}
	ctx.Scene.Append(d)
	slog.Debug("shape started", "kind", c.kind, "id", d.ID(), "x", p.X, "y", p.Y)
}

func (creator) OnDrag(p geometry.Point, ctx *Context) {
	if last := ctx.Scene.Last(); last != nil {
		last.ConstructStep(p)
	}
}

func (creator) OnRelease(_ geometry.Point, ctx *Context) {
	FinishPending(ctx)
}

// FinishPending finishes the newest shape if it is still under
// construction.
func FinishPending(ctx *Context) {
	last := ctx.Scene.Last()
	if last == nil || last.Finished() {
		return
	}
	last.Finish()
	slog.Debug("shape finished", "kind", last.Kind(), "id", last.ID())
}

type resizer struct{ noop }

func (resizer) OnPress(p geometry.Point, ctx *Context) {
	if ctx.Scene.Selected() == nil {
		ctx.Scene.SelectAt(p)
	}
	ctx.ResizeFrom = &p
}

func (resizer) OnDrag(p geometry.Point, ctx *Context) {
	sel := ctx.Scene.Selected()
	if sel == nil || ctx.ResizeFrom == nil {
		return
	}
	sel.Resize(*ctx.ResizeFrom, p)
	ctx.ResizeFrom = &p
}

func (resizer) OnRelease(_ geometry.Point, ctx *Context) {
	ctx.ResizeFrom = nil
}

type mover struct{ noop }

func (mover) OnPress(p geometry.Point, ctx *Context) {
	if ctx.Scene.Selected() == nil {
		ctx.Scene.SelectAt(p)
	}
	ctx.MoveFrom = &p
}

func (mover) OnDrag(p geometry.Point, ctx *Context) {
	sel := ctx.Scene.Selected()
	if sel == nil || ctx.MoveFrom == nil {
		return
	}
	sel.Move(*ctx.MoveFrom, p)
	ctx.MoveFrom = &p
}

func (mover) OnRelease(_ geometry.Point, ctx *Context) {
	ctx.MoveFrom = nil
}

type deleter struct{ noop }

func (deleter) OnRelease(p geometry.Point, ctx *Context) {
	if sel := ctx.Scene.SelectAt(p); sel != nil {
		ctx.Scene.Remove(sel)
		slog.Debug("shape removed", "kind", sel.Kind(), "id", sel.ID())
	}
	ctx.Scene.SelectNone()
}

// Package desktop is the window-independent part of the desktop editor: it
// routes pointer and key input between the toolbar and the engine, renders
// frames into a raster and keeps the scratch file in sync.
package desktop

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"

	"github.com/rysunek/rysunek/internal/config"
	"github.com/rysunek/rysunek/internal/document"
	"github.com/rysunek/rysunek/internal/engine"
	"github.com/rysunek/rysunek/internal/geometry"
	"github.com/rysunek/rysunek/internal/render"
	"github.com/rysunek/rysunek/internal/toolbar"
)

type App struct {
	cfg     *config.Config
	engine  *engine.Engine
	toolbar *toolbar.Toolbar
	raster  *render.Raster

	// A canvas gesture is in progress; drags and the release go to the engine
	drawing bool
	last    geometry.Point
}

// Pointer is the mouse state sampled once per window tick.
type Pointer struct {
	Pos geometry.Point

	// Edges seen since the previous tick
	PrimaryPressed   bool
	SecondaryPressed bool
	PrimaryReleased  bool

	PrimaryHeld bool
}

func New(cfg *config.Config, e *engine.Engine) *App {
	return &App{
		cfg:     cfg,
		engine:  e,
		toolbar: toolbar.New(cfg.Toolbar, geometry.Point{}),
		raster:  render.NewRaster(cfg.WindowWidth, cfg.WindowHeight),
	}
}

// Engine returns the engine the app drives.
func (a *App) Engine() *engine.Engine { return a.engine }

// Press handles a button press. Presses on the toolbar pick tools and
// colors; secondary presses on a swatch set the line color.
func (a *App) Press(p geometry.Point, secondary bool) {
	if a.toolbar.Contains(p) {
		a.toolbar.Click(p, secondary, a.engine)
		return
	}
	if secondary {
		return
	}
	a.drawing = true
	a.engine.OnPress(p.X, p.Y)
}

func (a *App) Drag(p geometry.Point) {
	if !a.drawing {
		return
	}
	a.engine.OnDrag(p.X, p.Y)
}

func (a *App) Release(p geometry.Point) {
	if !a.drawing {
		return
	}
	a.drawing = false
	a.engine.OnRelease(p.X, p.Y)
}

// HandlePointer feeds one tick of mouse state. A press and a release that
// land in the same tick are both delivered, press first.
func (a *App) HandlePointer(in Pointer) {
	switch {
	case in.PrimaryPressed:
		a.Press(in.Pos, false)
	case in.SecondaryPressed:
		a.Press(in.Pos, true)
	case in.PrimaryHeld && in.Pos != a.last:
		a.Drag(in.Pos)
	}
	if in.PrimaryReleased {
		a.Release(in.Pos)
	}
	a.last = in.Pos
}

// Key applies a tool shortcut.
func (a *App) Key(r rune) {
	a.engine.KeyPress(r)
}

// Frame renders the scene with the toolbar on top.
func (a *App) Frame() (*image.RGBA, error) {
	a.raster.Clear(a.cfg.Background)
	a.engine.Render(a.raster)
	a.toolbar.Draw(a.raster, a.engine.ActiveTool(), a.engine.FillColor(), a.engine.LineColor())
	if err := a.raster.Err(); err != nil {
		return nil, err
	}
	return a.raster.RGBA(), nil
}

// Load restores the scratch file when auto-loading is on. A missing file is
// not an error.
func (a *App) Load() error {
	if !a.cfg.AutoLoad {
		return nil
	}
	doc, err := document.LoadFile(a.cfg.TempFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := a.engine.LoadDocument(doc); err != nil {
		return fmt.Errorf("load %s: %w", a.cfg.TempFile, err)
	}
	slog.Info("drawing loaded", "file", a.cfg.TempFile, "shapes", a.engine.Scene().Len())
	return nil
}

// Save writes the scratch file if the drawing changed.
func (a *App) Save() error {
	if !a.engine.Dirty() {
		return nil
	}
	if err := document.SaveFile(a.cfg.TempFile, a.engine.Document()); err != nil {
		return err
	}
	a.engine.MarkClean()
	slog.Info("drawing saved", "file", a.cfg.TempFile, "shapes", a.engine.Scene().Len())
	return nil
}

func (a *App) Close() error {
	return a.raster.Close()
}

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/rysunek/rysunek/internal/config"
	"github.com/rysunek/rysunek/internal/desktop"
	"github.com/rysunek/rysunek/internal/discovery"
	"github.com/rysunek/rysunek/internal/engine"
	"github.com/rysunek/rysunek/internal/geometry"
	"github.com/rysunek/rysunek/internal/typeid"
)

func main() {
	discover := flag.Bool("discover", false, "list drawing servers on the local network and exit")
	debug := flag.Bool("debug", false, "log every tool event")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if *discover {
		servers, err := discovery.Browse(2 * time.Second)
		if err != nil {
			slog.Error("browse", "error", err)
			os.Exit(1)
		}
		for _, s := range servers {
			fmt.Printf("%s\t%s\n", s.Addr, s.Instance)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	e := engine.NewEngine(engine.Options{
		FillColor: cfg.Toolbar.DefaultFillColor,
		LineColor: cfg.Toolbar.DefaultLineColor,
		NewID:     typeid.NewShapeID,
	})
	app := desktop.New(cfg, e)
	defer app.Close()

	if err := app.Load(); err != nil {
		slog.Warn("could not restore drawing", "error", err, "file", cfg.TempFile)
	}

	ebiten.SetWindowTitle(cfg.WindowTitle)
	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(60)

	g := &game{app: app, width: cfg.WindowWidth, height: cfg.WindowHeight}
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		slog.Error("run window", "error", err)
		os.Exit(1)
	}
}

type game struct {
	app           *desktop.App
	width, height int
	canvas        *ebiten.Image
}

func (g *game) Update() error {
	if ebiten.IsWindowBeingClosed() {
		if err := g.app.Save(); err != nil {
			slog.Error("save drawing", "error", err)
		}
		return ebiten.Termination
	}

	x, y := ebiten.CursorPosition()
	g.app.HandlePointer(desktop.Pointer{
		Pos:              geometry.Pt(float64(x), float64(y)),
		PrimaryPressed:   inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		SecondaryPressed: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight),
		PrimaryReleased:  inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		PrimaryHeld:      ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
	})

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := g.app.Save(); err != nil {
			slog.Error("save drawing", "error", err)
		}
		return nil
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		g.app.Key(r)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	frame, err := g.app.Frame()
	if err != nil {
		slog.Error("render frame", "error", err)
		return
	}
	if g.canvas == nil {
		g.canvas = ebiten.NewImage(g.width, g.height)
	}
	g.canvas.WritePixels(frame.Pix)
	screen.DrawImage(g.canvas, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

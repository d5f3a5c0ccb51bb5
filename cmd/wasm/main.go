//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/rysunek/rysunek/internal/engine"
	"github.com/rysunek/rysunek/internal/render"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(engine.DefaultOptions())

	// Create the engine API object
	rysunekEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	rysunekEngine.Set("onPress", js.FuncOf(pointer(eng.OnPress)))
	rysunekEngine.Set("onDrag", js.FuncOf(pointer(eng.OnDrag)))
	rysunekEngine.Set("onRelease", js.FuncOf(pointer(eng.OnRelease)))
	rysunekEngine.Set("setActiveTool", js.FuncOf(setActiveTool))
	rysunekEngine.Set("keyPress", js.FuncOf(keyPress))
	rysunekEngine.Set("setFillColor", js.FuncOf(color(eng.SetFillColor)))
	rysunekEngine.Set("setLineColor", js.FuncOf(color(eng.SetLineColor)))
	rysunekEngine.Set("loadDocument", js.FuncOf(loadDocument))
	rysunekEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	rysunekEngine.Set("markClean", js.FuncOf(markClean))

	// --- Queries (frontend ← engine) ---
	rysunekEngine.Set("render", js.FuncOf(renderCommands))
	rysunekEngine.Set("hitTest", js.FuncOf(hitTest))
	rysunekEngine.Set("getSelection", js.FuncOf(getSelection))
	rysunekEngine.Set("getDocument", js.FuncOf(getDocument))
	rysunekEngine.Set("getState", js.FuncOf(getState))

	// Register on global scope
	js.Global().Set("rysunekEngine", rysunekEngine)

	// Signal that WASM is ready
	js.Global().Set("rysunekWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Command Handlers ---

func pointer(fn func(x, y float64)) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) < 2 {
			return nil
		}
		fn(args[0].Float(), args[1].Float())
		return nil
	}
}

func color(fn func(render.Color)) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return errorResult("missing color")
		}
		c, err := render.ParseHex(args[0].String())
		if err != nil {
			return errorResult(err.Error())
		}
		fn(c)
		return okResult()
	}
}

func setActiveTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing tool name")
	}
	if err := eng.SetActiveToolByName(args[0].String()); err != nil {
		return errorResult(err.Error())
	}
	return okResult()
}

func keyPress(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	key := []rune(args[0].String())
	if len(key) != 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.KeyPress(key[0]))
}

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing document JSON")
	}

	if err := eng.LoadDocumentJSON(args[0].String()); err != nil {
		return errorResult(err.Error())
	}

	return okResult()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	drawingID := "drw_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		drawingID = args[0].String()
	}

	eng.LoadSampleDocument(drawingID)
	return okResult()
}

func markClean(this js.Value, args []js.Value) interface{} {
	eng.MarkClean()
	return nil
}

// --- Query Handlers ---

func renderCommands(this js.Value, args []js.Value) interface{} {
	commands, err := eng.RenderCommands()
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(commands)
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float()))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Selection())
}

func getDocument(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetDocument())
}

func getState(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetState())
}

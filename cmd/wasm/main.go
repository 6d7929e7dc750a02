//go:build js && wasm

// In-browser build of the editing engine. The frontend owns the render
// loop and input capture; everything pointer-related is forwarded here
// and the committed document flows back through callbacks.
package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/MADrickx/Layma/internal/document"
	"github.com/MADrickx/Layma/internal/editor"
	"github.com/MADrickx/Layma/internal/geometry"
)

var ed *editor.Editor

func main() {
	ed = editor.New(document.NewStore(document.NewSampleDocument()), 5, true)

	api := js.Global().Get("Object").New()

	// --- Commands (frontend -> engine) ---
	api.Set("loadDocument", js.FuncOf(loadDocument))
	api.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	api.Set("pointerDown", js.FuncOf(pointerDown))
	api.Set("pointerMove", js.FuncOf(pointerMove))
	api.Set("pointerUp", js.FuncOf(pointerUp))
	api.Set("pointerCancel", js.FuncOf(pointerCancel))
	api.Set("tick", js.FuncOf(tick))
	api.Set("setTool", js.FuncOf(setTool))
	api.Set("setActiveSection", js.FuncOf(setActiveSection))
	api.Set("setSurface", js.FuncOf(setSurface))
	api.Set("setZoom", js.FuncOf(setZoom))
	api.Set("setGridSize", js.FuncOf(setGridSize))
	api.Set("setSnapEnabled", js.FuncOf(setSnapEnabled))
	api.Set("nudge", js.FuncOf(nudge))
	api.Set("selectElement", js.FuncOf(selectElement))
	api.Set("clearSelection", js.FuncOf(clearSelection))
	api.Set("deleteSelection", js.FuncOf(deleteSelection))
	api.Set("setProperty", js.FuncOf(setProperty))
	api.Set("bringForward", js.FuncOf(zorderOp(ed.BringForward)))
	api.Set("sendBackward", js.FuncOf(zorderOp(ed.SendBackward)))
	api.Set("bringToFront", js.FuncOf(zorderOp(ed.BringToFront)))
	api.Set("sendToBack", js.FuncOf(zorderOp(ed.SendToBack)))
	api.Set("setPendingImage", js.FuncOf(setPendingImage))
	api.Set("setImageSource", js.FuncOf(setImageSource))

	// --- Queries (frontend <- engine) ---
	api.Set("getDocument", js.FuncOf(getDocument))
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	api.Set("hitTest", js.FuncOf(hitTest))

	// --- Callbacks ---
	api.Set("onDocumentChanged", js.FuncOf(onDocumentChanged))
	api.Set("onSelectionChanged", js.FuncOf(onSelectionChanged))
	api.Set("onImageRequest", js.FuncOf(onImageRequest))

	js.Global().Set("laymaEditor", api)
	js.Global().Set("laymaWasmReady", js.ValueOf(true))

	// Keep the Go runtime alive.
	select {}
}

// --- Command handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}
	var doc document.Document
	if err := json.Unmarshal([]byte(args[0].String()), &doc); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	ed.LoadDocument(doc)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	ed.LoadDocument(document.NewSampleDocument())
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	var target editor.PointerTarget
	if len(args) > 2 && args[2].Type() == js.TypeString {
		json.Unmarshal([]byte(args[2].String()), &target)
	}
	var mods editor.Modifiers
	if len(args) > 3 {
		mods.Shift = args[3].Truthy()
	}
	ed.PointerDown(args[0].Float(), args[1].Float(), target, mods)
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.PointerMove(args[0].Float(), args[1].Float())
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.PointerUp(args[0].Float(), args[1].Float())
	return nil
}

func pointerCancel(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.PointerCancel(args[0].Float(), args[1].Float())
	return nil
}

// tick applies the latest coalesced pointer move. Call it from
// requestAnimationFrame.
func tick(this js.Value, args []js.Value) interface{} {
	ed.Tick()
	return nil
}

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ed.SetTool(editor.Tool(args[0].String()))
	return nil
}

func setActiveSection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ed.SetActiveSection(geometry.Section(args[0].String()))
	return nil
}

func setSurface(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return nil
	}
	ed.SetSurface(geometry.SurfaceRect{
		Left:   args[0].Float(),
		Top:    args[1].Float(),
		Width:  args[2].Float(),
		Height: args[3].Float(),
	})
	return nil
}

func setZoom(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ed.SetZoom(args[0].Float())
	return nil
}

func setGridSize(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ed.SetGridSize(args[0].Float())
	return nil
}

func setSnapEnabled(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ed.SetSnapEnabled(args[0].Truthy())
	return nil
}

func nudge(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	shift := len(args) > 2 && args[2].Truthy()
	ed.Nudge(args[0].Int(), args[1].Int(), shift)
	return nil
}

func selectElement(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	additive := len(args) > 1 && args[1].Truthy()
	ed.SelectElement(args[0].String(), additive)
	return nil
}

func clearSelection(this js.Value, args []js.Value) interface{} {
	ed.ClearSelection()
	return nil
}

func deleteSelection(this js.Value, args []js.Value) interface{} {
	ed.DeleteSelection()
	return nil
}

func setProperty(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.SetProperty(args[0].String(), json.RawMessage(args[1].String()))
	return nil
}

func zorderOp(op func() bool) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		return js.ValueOf(op())
	}
}

func setPendingImage(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return nil
	}
	ed.SetPendingImage(args[0].String(), args[1].Int(), args[2].Int())
	return nil
}

func setImageSource(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return nil
	}
	ed.SetImageSource(args[0].String(), args[1].String(), args[2].Int(), args[3].Int())
	return nil
}

// --- Query handlers ---

func getDocument(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(ed.Document())
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(ed.SelectionIDs())
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(string(data))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(ed.SelectionBounds())
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(ed.HitTest(args[0].Float(), args[1].Float()))
}

// --- Callback registration ---

func onDocumentChanged(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return nil
	}
	fn := args[0]
	ed.Store().Subscribe(func(doc document.Document) {
		data, err := json.Marshal(doc)
		if err != nil {
			return
		}
		fn.Invoke(string(data))
	})
	return nil
}

func onSelectionChanged(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return nil
	}
	fn := args[0]
	ed.OnSelectionChanged(func(ids []string) {
		data, err := json.Marshal(ids)
		if err != nil {
			return
		}
		fn.Invoke(string(data))
	})
	return nil
}

func onImageRequest(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return nil
	}
	fn := args[0]
	ed.OnImageRequest(func(elementID string) {
		fn.Invoke(elementID)
	})
	return nil
}

package editor

import (
	"sync"

	"github.com/MADrickx/Layma/internal/document"
	"github.com/MADrickx/Layma/internal/geometry"
	"github.com/MADrickx/Layma/internal/typeid"
)

// Tool is the active creation tool. ToolSelect is the idle default;
// every other tool creates an element of the matching type on
// pointer-down.
type Tool string

const (
	ToolSelect Tool = "select"
	ToolText   Tool = "text"
	ToolRect   Tool = "rect"
	ToolLine   Tool = "line"
	ToolImage  Tool = "image"
	ToolTable  Tool = "table"
)

// Valid reports whether t is a member of the closed tool enum.
func (t Tool) Valid() bool {
	switch t {
	case ToolSelect, ToolText, ToolRect, ToolLine, ToolImage, ToolTable:
		return true
	}
	return false
}

// Modifiers carries keyboard modifier state alongside a pointer event.
// Shift makes element clicks additive and multiplies nudge distance.
type Modifiers struct {
	Shift bool `json:"shift,omitempty"`
}

// PointerTarget describes what the frontend hit-tested under a
// pointer-down: an element, one of the single selection's resize
// handles, or the page background when both fields are empty.
type PointerTarget struct {
	ElementID string `json:"elementId,omitempty"`
	Handle    Handle `json:"handle,omitempty"`
}

// Editor is the interactive manipulation engine for one editing
// session. It owns the document store, the selection, and the single
// in-progress drag, and turns pointer/keyboard input into committed
// document mutations.
//
// All methods are safe for concurrent use. Registered callbacks run
// synchronously and must not call back into the editor.
type Editor struct {
	mu    sync.Mutex
	store *document.Store

	selection     Selection
	surface       geometry.SurfaceRect
	tool          Tool
	activeSection geometry.Section

	grid float64
	snap bool
	zoom float64

	// Exactly one drag is active at a time. Its start fields are
	// immutable for its whole lifetime; every per-move update works from
	// that snapshot plus the current pointer, never accumulated deltas.
	drag        dragState
	marqueeEnd  geometry.Point
	lastPointer geometry.Point

	// Latest unconsumed pointer-move, consumed once per frame tick.
	pending   *geometry.Point
	frameStop chan struct{}

	pendingImage *document.ImageProps

	onSelection    func(ids []string)
	onImageRequest func(elementID string)
}

// New creates an editor over the given store with the configured grid.
func New(store *document.Store, gridSizeMm float64, snapToGrid bool) *Editor {
	return &Editor{
		store:         store,
		tool:          ToolSelect,
		activeSection: geometry.SectionBody,
		grid:          gridSizeMm,
		snap:          snapToGrid,
		zoom:          1,
	}
}

// Store returns the editor's document store.
func (e *Editor) Store() *document.Store { return e.store }

// Document returns the current committed document.
func (e *Editor) Document() document.Document { return e.store.Document() }

// LoadDocument replaces the document (e.g. freshly imported) and prunes
// the selection to ids that still exist. An in-progress drag keeps its
// captured start snapshot and is unaffected.
func (e *Editor) LoadDocument(doc document.Document) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Apply(doc)
	e.selection.Prune(e.store.Document())
	e.notifySelection()
}

// OnSelectionChanged registers a callback fired after every selection
// change with the new id set.
func (e *Editor) OnSelectionChanged(fn func(ids []string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onSelection = fn
}

// OnImageRequest registers a callback fired when an image-tool create
// drag finishes over a placeholder, asking the caller to supply the
// real image source.
func (e *Editor) OnImageRequest(fn func(elementID string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onImageRequest = fn
}

// SetSurface updates the measured on-screen page rect used for
// device-to-page mapping.
func (e *Editor) SetSurface(rect geometry.SurfaceRect) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.surface = rect
}

// SetTool selects the active tool. Unknown tools are ignored.
func (e *Editor) SetTool(t Tool) {
	if !t.Valid() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tool = t
}

// SetActiveSection sets the section new elements are created in and
// marquee selection is restricted to.
func (e *Editor) SetActiveSection(s geometry.Section) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.activeSection = s
}

// SetGridSize sets the snap grid in millimetres.
func (e *Editor) SetGridSize(mm float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.grid = mm
}

// SetSnapEnabled toggles grid snapping.
func (e *Editor) SetSnapEnabled(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snap = on
}

// SetZoom records the display scale factor. Zoom only affects the
// measured surface rect, never stored physical units.
func (e *Editor) SetZoom(z float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if z > 0 {
		e.zoom = z
	}
}

// SetPendingImage stages image props (typically from an asset upload)
// to be used by the next image-tool creation instead of a transparent
// placeholder.
func (e *Editor) SetPendingImage(source string, naturalW, naturalH int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingImage = &document.ImageProps{
		Source:            source,
		Fit:               "contain",
		Opacity:           1,
		AspectRatioLocked: true,
		NaturalWidth:      naturalW,
		NaturalHeight:     naturalH,
	}
}

// SelectionIDs returns the selected element ids in selection order.
func (e *Editor) SelectionIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.IDs()
}

// SelectElement updates the selection as an element click would,
// without starting a drag. Used by list-style frontends.
func (e *Editor) SelectElement(id string, additive bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store.Document().IndexOf(id) < 0 {
		return
	}
	e.selection.Select(id, additive)
	e.notifySelection()
}

// ClearSelection empties the selection.
func (e *Editor) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.Clear()
	e.notifySelection()
}

// SelectionBounds returns the bounding box of the current selection.
func (e *Editor) SelectionBounds() geometry.Box {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.BoundingBox(e.store.Document())
}

// HitTest maps a device coordinate to the page and returns the topmost
// element id under it, or "".
func (e *Editor) HitTest(deviceX, deviceY float64) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.mapper().ToPage(deviceX, deviceY)
	if !ok {
		return ""
	}
	return HitTest(e.store.Document(), p.X, p.Y)
}

// --- Pointer state machine ---

// PointerDown enters a drag state depending on the active tool and the
// hit target. A pointer-down while a drag is already active is ignored
// until release.
func (e *Editor) PointerDown(deviceX, deviceY float64, target PointerTarget, mods Modifiers) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.drag != nil {
		return
	}
	p, ok := e.mapper().ToPage(deviceX, deviceY)
	if !ok {
		return
	}
	e.lastPointer = p
	doc := e.store.Document()

	if e.tool != ToolSelect {
		e.beginCreate(p, doc)
		return
	}

	if target.Handle != "" {
		e.beginResize(p, doc, target)
		return
	}

	if target.ElementID != "" {
		e.beginMove(p, doc, target.ElementID, mods.Shift)
		return
	}

	// Background with the select tool: clear and start a marquee.
	e.selection.Clear()
	e.notifySelection()
	e.drag = marqueeDrag{startPointer: p}
	e.marqueeEnd = p
	e.startFrameLoop()
}

// PointerMove records the latest pointer position. Moves are coalesced:
// only the most recent unconsumed one is applied, once per frame tick.
func (e *Editor) PointerMove(deviceX, deviceY float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.drag == nil {
		return
	}
	p, ok := e.mapper().ToPage(deviceX, deviceY)
	if !ok {
		return
	}
	e.lastPointer = p
	e.pending = &p
}

// Tick consumes the pending coalesced move, if any. Called by the
// per-drag frame loop; exported so frontends driving their own frame
// clock can call it directly.
func (e *Editor) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.drag == nil || e.pending == nil {
		return
	}
	p := *e.pending
	e.pending = nil
	e.applyDragUpdate(p)
}

// PointerUp finalizes the drag at the release position. The release is
// applied synchronously and unconditionally, bypassing the frame
// limiter, so the committed geometry always matches the release point.
func (e *Editor) PointerUp(deviceX, deviceY float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pointerUp(deviceX, deviceY)
}

// PointerCancel is handled identically to PointerUp: the in-progress
// change is finalized, never silently discarded.
func (e *Editor) PointerCancel(deviceX, deviceY float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pointerUp(deviceX, deviceY)
}

func (e *Editor) pointerUp(deviceX, deviceY float64) {
	if e.drag == nil {
		return
	}
	p, ok := e.mapper().ToPage(deviceX, deviceY)
	if !ok {
		p = e.lastPointer
	}
	e.pending = nil
	e.applyDragUpdate(p)
	e.finishDrag(p)
}

// Close tears the editor down, finalizing any in-flight drag at its
// last known position and stopping the frame loop.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.drag != nil {
		e.applyDragUpdate(e.lastPointer)
		e.finishDrag(e.lastPointer)
	}
	e.stopFrameLoop()
}

// --- Entry transitions ---

func (e *Editor) beginResize(p geometry.Point, doc document.Document, target PointerTarget) {
	// Resize handles only exist for a single selection.
	id, ok := e.selection.Single()
	if !ok {
		return
	}
	if target.ElementID != "" && target.ElementID != id {
		return
	}
	el, found := doc.ElementByID(id)
	if !found {
		return
	}
	e.drag = resizeDrag{
		elementID:    id,
		handle:       target.Handle,
		startPointer: p,
		startBox:     el.Box(),
	}
	e.startFrameLoop()
}

func (e *Editor) beginMove(p geometry.Point, doc document.Document, id string, additive bool) {
	if _, found := doc.ElementByID(id); !found {
		return
	}

	// Clicking a member of an existing multi-selection drags the whole
	// group without disturbing the selection.
	if !additive && e.selection.Contains(id) && e.selection.Len() >= 2 {
		e.drag = e.newMultiMove(p, doc)
		e.startFrameLoop()
		return
	}

	// An additive click on a selected member toggles it off; the
	// release of that click must not drag what remains selected.
	toggledOff := additive && e.selection.Contains(id)

	e.selection.Select(id, additive)
	e.notifySelection()
	if toggledOff {
		return
	}

	switch {
	case e.selection.Len() >= 2:
		e.drag = e.newMultiMove(p, doc)
	case e.selection.Len() == 1:
		selID := e.selection.PrimaryID()
		el, found := doc.ElementByID(selID)
		if !found {
			return
		}
		e.drag = moveDrag{elementID: selID, startPointer: p, startBox: el.Box()}
	default:
		// Additive click toggled the last element off; nothing to drag.
		return
	}
	e.startFrameLoop()
}

// newMultiMove snapshots every selected element's current position.
func (e *Editor) newMultiMove(p geometry.Point, doc document.Document) multiMoveDrag {
	ids := e.selection.IDs()
	boxes := make(map[string]geometry.Box, len(ids))
	for _, id := range ids {
		if el, found := doc.ElementByID(id); found {
			boxes[id] = el.Box()
		}
	}
	return multiMoveDrag{elementIDs: ids, startPointer: p, startBoxes: boxes}
}

func (e *Editor) beginCreate(p geometry.Point, doc document.Document) {
	el := e.newElementForTool(e.tool, p, doc)
	next := doc.Clone()
	next.Elements = append(next.Elements, el)
	e.store.Apply(next)

	e.selection.Select(el.ID, false)
	e.notifySelection()
	e.drag = createDrag{tool: e.tool, elementID: el.ID, startPointer: p}
	e.startFrameLoop()
}

// newElementForTool synthesizes the minimal 1mm x 1mm element the
// create drag will size. Image creations consume the staged pending
// image when one exists, else start as a transparent placeholder.
func (e *Editor) newElementForTool(tool Tool, p geometry.Point, doc document.Document) document.Element {
	el := document.Element{
		ID:      typeid.NewElementID(),
		Section: e.activeSection,
		XMm:     p.X,
		YMm:     p.Y,
		WidthMm: 1, HeightMm: 1,
	}

	switch tool {
	case ToolText:
		el.Type = document.ElementText
		el.Text = &document.TextProps{FontFamily: "Helvetica", FontSizePt: 10, Color: "#000000", Align: "left"}
	case ToolRect:
		el.Type = document.ElementRect
		el.Rect = &document.RectProps{Fill: "#ffffff", BorderColor: "#000000", BorderWidthMm: 0.3}
	case ToolLine:
		el.Type = document.ElementLine
		el.Line = &document.LineProps{Color: "#000000"}
	case ToolImage:
		el.Type = document.ElementImage
		if e.pendingImage != nil {
			img := *e.pendingImage
			el.Image = &img
			e.pendingImage = nil
		} else {
			el.Image = &document.ImageProps{Fit: "contain", Opacity: 1}
		}
	case ToolTable:
		el.Type = document.ElementTable
		el.Table = &document.TableProps{
			Columns:       []document.TableColumn{{}, {}, {}},
			HeaderCells:   []string{"", "", ""},
			BodyCells:     []string{"", "", ""},
			BorderColor:   "#000000",
			BorderWidthMm: 0.3,
		}
	}

	b := clampToPage(el.Box(), doc.Page)
	b = clampToSection(b, e.sectionBounds(el.Section, doc), false)
	el.SetBox(b)
	return el
}

// --- Per-move updates ---

// applyDragUpdate recomputes the affected geometry from the drag's
// start snapshot plus the pointer delta and commits the result. Marquee
// drags only track their live end-point.
func (e *Editor) applyDragUpdate(p geometry.Point) {
	doc := e.store.Document()

	switch d := e.drag.(type) {
	case moveDrag:
		el, found := doc.ElementByID(d.elementID)
		if !found {
			return
		}
		b := d.startBox
		b.X += p.X - d.startPointer.X
		b.Y += p.Y - d.startPointer.Y
		b = resolveBox(b, boxConstraints{
			page:    doc.Page,
			section: e.sectionBounds(el.Section, doc),
			grid:    e.grid,
			snap:    e.snap,
		})
		e.commitBox(doc, d.elementID, b)

	case multiMoveDrag:
		// The same delta applies to every member's own start position;
		// each member is clamped to the page and to its own section
		// independently.
		dx := p.X - d.startPointer.X
		dy := p.Y - d.startPointer.Y
		next := doc.Clone()
		changed := false
		for _, id := range d.elementIDs {
			i := next.IndexOf(id)
			if i < 0 {
				continue
			}
			start, ok := d.startBoxes[id]
			if !ok {
				continue
			}
			b := start
			b.X += dx
			b.Y += dy
			b = resolveBox(b, boxConstraints{
				page:    next.Page,
				section: e.sectionBounds(next.Elements[i].Section, next),
				grid:    e.grid,
				snap:    e.snap,
			})
			next.Elements[i].SetBox(b)
			changed = true
		}
		if changed {
			e.store.Apply(next)
		}

	case resizeDrag:
		el, found := doc.ElementByID(d.elementID)
		if !found {
			return
		}
		b := boxFromHandle(d.startBox, d.handle, p.X-d.startPointer.X, p.Y-d.startPointer.Y)
		locked := el.Type == document.ElementImage && el.Image != nil && el.Image.AspectRatioLocked
		aspect := 0.0
		if d.startBox.H > 0 {
			aspect = d.startBox.W / d.startBox.H
		}
		b = resolveBox(b, boxConstraints{
			page:        doc.Page,
			section:     e.sectionBounds(el.Section, doc),
			grid:        e.grid,
			snap:        e.snap,
			resized:     true,
			lockAspect:  locked,
			startAspect: aspect,
			handle:      d.handle,
		})
		e.commitBox(doc, d.elementID, b)

	case createDrag:
		el, found := doc.ElementByID(d.elementID)
		if !found {
			return
		}
		b := geometry.Box{
			X: d.startPointer.X,
			Y: d.startPointer.Y,
			W: p.X - d.startPointer.X,
			H: p.Y - d.startPointer.Y,
		}
		locked := el.Type == document.ElementImage && el.Image != nil && el.Image.AspectRatioLocked
		aspect := 0.0
		if locked && el.Image.NaturalHeight > 0 {
			aspect = float64(el.Image.NaturalWidth) / float64(el.Image.NaturalHeight)
		}
		b = resolveBox(b, boxConstraints{
			page:        doc.Page,
			section:     e.sectionBounds(el.Section, doc),
			grid:        e.grid,
			snap:        e.snap,
			resized:     true,
			lockAspect:  locked,
			startAspect: aspect,
			handle:      HandleSE,
		})
		e.commitBox(doc, d.elementID, b)

	case marqueeDrag:
		e.marqueeEnd = p
	}
}

// finishDrag runs the exit transition and is the single path out of any
// drag state: normal release, cancellation, and teardown all end here.
func (e *Editor) finishDrag(p geometry.Point) {
	switch d := e.drag.(type) {
	case marqueeDrag:
		rect := geometry.Box{
			X: d.startPointer.X,
			Y: d.startPointer.Y,
			W: p.X - d.startPointer.X,
			H: p.Y - d.startPointer.Y,
		}.Normalize()
		doc := e.store.Document()
		var ids []string
		for _, el := range doc.Elements {
			if el.Section != e.activeSection {
				continue
			}
			if el.Box().Overlaps(rect) {
				ids = append(ids, el.ID)
			}
		}
		e.selection.SetAll(ids)
		e.notifySelection()

	case createDrag:
		if d.tool == ToolImage {
			el, found := e.store.Document().ElementByID(d.elementID)
			if found && el.Image != nil && el.Image.Source == "" && e.onImageRequest != nil {
				e.onImageRequest(d.elementID)
			}
		}
	}

	e.drag = nil
	e.pending = nil
	e.stopFrameLoop()
}

// --- Non-drag mutations ---

// Nudge moves every selected element by one grid step (1mm when snap is
// off) per axis unit; shift multiplies the distance by five. Results
// are snapped and clamped like any drag outcome.
func (e *Editor) Nudge(dx, dy int, shift bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selection.Len() == 0 || (dx == 0 && dy == 0) {
		return
	}

	step := 1.0
	if e.snap && e.grid > 0 {
		step = e.grid
	}
	if shift {
		step *= 5
	}

	doc := e.store.Document()
	next := doc.Clone()
	changed := false
	for i := range next.Elements {
		el := &next.Elements[i]
		if !e.selection.Contains(el.ID) {
			continue
		}
		b := el.Box()
		b.X += float64(dx) * step
		b.Y += float64(dy) * step
		if e.snap && e.grid > 0 {
			b.X = geometry.Snap(b.X, e.grid)
			b.Y = geometry.Snap(b.Y, e.grid)
		}
		b = clampToPage(b, next.Page)
		b = clampToSection(b, e.sectionBounds(el.Section, next), false)
		el.SetBox(b)
		changed = true
	}
	if changed {
		e.store.Apply(next)
	}
}

// DeleteSelection removes every selected element from the document.
func (e *Editor) DeleteSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selection.Len() == 0 {
		return
	}
	doc := e.store.Document()
	next := doc.Clone()
	kept := next.Elements[:0]
	for _, el := range next.Elements {
		if !e.selection.Contains(el.ID) {
			kept = append(kept, el)
		}
	}
	next.Elements = kept
	e.selection.Clear()
	e.notifySelection()
	e.store.Apply(next)
}

// SetImageSource fills in an image element's source and natural
// dimensions, typically answering an image request after an upload.
func (e *Editor) SetImageSource(elementID, source string, naturalW, naturalH int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc := e.store.Document()
	i := doc.IndexOf(elementID)
	if i < 0 {
		return
	}
	next := doc.Clone()
	el := &next.Elements[i]
	if el.Image == nil {
		return
	}
	el.Image.Source = source
	el.Image.NaturalWidth = naturalW
	el.Image.NaturalHeight = naturalH
	e.store.Apply(next)
}

// BringForward raises the primary selected element one step.
func (e *Editor) BringForward() bool { return e.reorder(BringForward) }

// SendBackward lowers the primary selected element one step.
func (e *Editor) SendBackward() bool { return e.reorder(SendBackward) }

// BringToFront raises the primary selected element to the top.
func (e *Editor) BringToFront() bool { return e.reorder(BringToFront) }

// SendToBack lowers the primary selected element to the bottom.
func (e *Editor) SendToBack() bool { return e.reorder(SendToBack) }

func (e *Editor) reorder(op func([]document.Element, string) ([]document.Element, bool)) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc := e.store.Document()
	out, changed := op(doc.Elements, e.selection.PrimaryID())
	if !changed {
		return false
	}
	next := doc
	next.Elements = out
	e.store.Apply(next)
	return true
}

// --- Helpers ---

func (e *Editor) mapper() geometry.Mapper {
	doc := e.store.Document()
	return geometry.Mapper{
		Surface:    e.surface,
		PageWidth:  doc.Page.WidthMm,
		PageHeight: doc.Page.HeightMm,
	}
}

func (e *Editor) sectionBounds(s geometry.Section, doc document.Document) geometry.SectionBounds {
	return geometry.BoundsFor(s, doc.HeaderHeightMm, doc.FooterHeightMm, doc.Page.HeightMm)
}

func (e *Editor) commitBox(doc document.Document, id string, b geometry.Box) {
	i := doc.IndexOf(id)
	if i < 0 {
		return
	}
	next := doc.Clone()
	next.Elements[i].SetBox(b)
	e.store.Apply(next)
}

func (e *Editor) notifySelection() {
	if e.onSelection != nil {
		e.onSelection(e.selection.IDs())
	}
}

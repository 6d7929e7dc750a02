package editor

import (
	"github.com/MADrickx/Layma/internal/document"
	"github.com/MADrickx/Layma/internal/geometry"
)

// Handle names a resize grip on the single selected element.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// touchesVerticalEdgeOnly reports whether the handle adjusts only the
// top or bottom edge. Aspect-locked resizes derive width from height
// for these handles, and height from width for all others.
func (h Handle) touchesVerticalEdgeOnly() bool {
	return h == HandleN || h == HandleS
}

// dragState is the tagged union of in-progress interactive operations.
// Exactly one instance exists at a time; its start fields are captured
// on pointer-down and never mutated afterwards, so per-move updates are
// always computed from the original snapshot plus the current pointer
// position, never from accumulated deltas.
type dragState interface {
	drag()
}

type moveDrag struct {
	elementID    string
	startPointer geometry.Point
	startBox     geometry.Box
}

type multiMoveDrag struct {
	elementIDs   []string
	startPointer geometry.Point
	startBoxes   map[string]geometry.Box
}

type resizeDrag struct {
	elementID    string
	handle       Handle
	startPointer geometry.Point
	startBox     geometry.Box
}

type createDrag struct {
	tool         Tool
	elementID    string
	startPointer geometry.Point
}

type marqueeDrag struct {
	startPointer geometry.Point
}

func (moveDrag) drag()      {}
func (multiMoveDrag) drag() {}
func (resizeDrag) drag()    {}
func (createDrag) drag()    {}
func (marqueeDrag) drag()   {}

// boxFromHandle reinterprets a pointer delta against the edges touched
// by the handle. North/south adjust y/height, east/west adjust x/width,
// corners combine both. The result may have negative extent; the caller
// normalizes it.
func boxFromHandle(start geometry.Box, handle Handle, dx, dy float64) geometry.Box {
	b := start
	switch handle {
	case HandleN:
		b.Y += dy
		b.H -= dy
	case HandleS:
		b.H += dy
	case HandleE:
		b.W += dx
	case HandleW:
		b.X += dx
		b.W -= dx
	case HandleNE:
		b.Y += dy
		b.H -= dy
		b.W += dx
	case HandleNW:
		b.X += dx
		b.W -= dx
		b.Y += dy
		b.H -= dy
	case HandleSE:
		b.W += dx
		b.H += dy
	case HandleSW:
		b.X += dx
		b.W -= dx
		b.H += dy
	}
	return b
}

// boxConstraints bundles everything the geometry pipeline needs beyond
// the proposed box itself.
type boxConstraints struct {
	page        document.PageSize
	section     geometry.SectionBounds
	grid        float64
	snap        bool
	resized     bool // snapping covers extent only when the drag changes size
	lockAspect  bool
	startAspect float64 // width/height captured at drag start
	handle      Handle
}

// resolveBox runs the per-move geometry pipeline: normalize, lock
// aspect from the start ratio, clamp to the page, snap and re-clamp,
// then clamp to the section band, shrinking height rather than crossing
// into a neighbouring section.
func resolveBox(b geometry.Box, c boxConstraints) geometry.Box {
	b = b.Normalize()

	if c.lockAspect && c.startAspect > 0 {
		if c.handle.touchesVerticalEdgeOnly() {
			b.W = b.H * c.startAspect
		} else {
			b.H = b.W / c.startAspect
		}
	}

	b = clampToPage(b, c.page)

	if c.snap && c.grid > 0 {
		if c.resized {
			b = b.Snap(c.grid)
		} else {
			b.X = geometry.Snap(b.X, c.grid)
			b.Y = geometry.Snap(b.Y, c.grid)
		}
		// Snapping may have pushed the box over an edge or under the
		// minimum size; re-clamp at minimum-size granularity.
		b = clampToPage(b, c.page)
	}

	return clampToSection(b, c.section, c.resized)
}

func clampToPage(b geometry.Box, page document.PageSize) geometry.Box {
	b.W = geometry.Clamp(b.W, document.MinElementSizeMm, page.WidthMm)
	b.H = geometry.Clamp(b.H, document.MinElementSizeMm, page.HeightMm)
	b.X = geometry.Clamp(b.X, 0, page.WidthMm-b.W)
	b.Y = geometry.Clamp(b.Y, 0, page.HeightMm-b.H)
	return b
}

// clampToSection keeps the box inside its section band. A resize clamps
// the dragged edge in place, shrinking height rather than letting the
// element cross into a neighbouring section; a move preserves the
// element's size and stops at the boundary.
func clampToSection(b geometry.Box, bounds geometry.SectionBounds, resized bool) geometry.Box {
	if resized {
		top := geometry.Clamp(b.Y, bounds.Top, bounds.Bottom)
		bottom := geometry.Clamp(b.Bottom(), bounds.Top, bounds.Bottom)
		b.Y = top
		b.H = bottom - top
		if b.H < document.MinElementSizeMm {
			b.H = document.MinElementSizeMm
		}
		b.Y = geometry.Clamp(b.Y, bounds.Top, max(bounds.Top, bounds.Bottom-b.H))
		return b
	}

	band := bounds.Height()
	if band >= document.MinElementSizeMm && b.H > band {
		b.H = band
	}
	b.Y = geometry.Clamp(b.Y, bounds.Top, max(bounds.Top, bounds.Bottom-b.H))
	return b
}

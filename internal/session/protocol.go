package session

import (
	"encoding/json"

	"github.com/MADrickx/Layma/internal/document"
	"github.com/MADrickx/Layma/internal/editor"
	"github.com/MADrickx/Layma/internal/geometry"
)

// Message is the envelope for everything on the session socket.
type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Server -> client state pushes.
	TypeDocSync        = "doc.sync"
	TypeSelectionState = "selection.state"
	TypeImageRequest   = "image.request"

	// Client -> server input.
	TypeDocLoad       = "doc.load"
	TypePointerDown   = "pointer.down"
	TypePointerMove   = "pointer.move"
	TypePointerUp     = "pointer.up"
	TypePointerCancel = "pointer.cancel"
	TypeToolSelect    = "tool.select"
	TypeSectionSelect = "section.select"
	TypeSurfaceUpdate = "surface.update"
	TypeConfigUpdate  = "config.update"
	TypeKeyNudge      = "key.nudge"
	TypeSelect        = "selection.set"
	TypePropertySet   = "property.set"
	TypeZOrder        = "zorder.op"
	TypeElementDelete = "element.delete"
	TypeImageSet      = "image.set"
)

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	ClientID  string `json:"clientId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type DocPayload struct {
	Document document.Document `json:"document"`
}

type SelectionPayload struct {
	IDs []string `json:"ids"`
}

// PointerPayload carries one pointer event in device pixels, with the
// frontend's hit-test result attached to downs.
type PointerPayload struct {
	X         float64              `json:"x"`
	Y         float64              `json:"y"`
	Target    editor.PointerTarget `json:"target"`
	Modifiers editor.Modifiers     `json:"modifiers"`
}

type ToolPayload struct {
	Tool editor.Tool `json:"tool"`
}

type SectionPayload struct {
	Section geometry.Section `json:"section"`
}

// SurfacePayload reports the measured on-screen page rect after layout
// or zoom changes.
type SurfacePayload struct {
	Surface geometry.SurfaceRect `json:"surface"`
	Zoom    float64              `json:"zoom,omitempty"`
}

// ConfigPayload updates grid settings; nil fields are left unchanged.
type ConfigPayload struct {
	GridSizeMm *float64 `json:"gridSizeMm,omitempty"`
	SnapToGrid *bool    `json:"snapToGrid,omitempty"`
}

type NudgePayload struct {
	DX    int  `json:"dx"`
	DY    int  `json:"dy"`
	Shift bool `json:"shift,omitempty"`
}

type SelectPayload struct {
	ElementID string `json:"elementId"`
	Additive  bool   `json:"additive,omitempty"`
}

type PropertyPayload struct {
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

// ZOrderPayload names one reorder op: forward, backward, front, back.
type ZOrderPayload struct {
	Op string `json:"op"`
}

type ImageSetPayload struct {
	ElementID     string `json:"elementId"`
	Source        string `json:"source"`
	NaturalWidth  int    `json:"naturalWidth"`
	NaturalHeight int    `json:"naturalHeight"`
}

type ImageRequestPayload struct {
	ElementID string `json:"elementId"`
}

package session

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/MADrickx/Layma/internal/document"
	"github.com/MADrickx/Layma/internal/editor"
)

// messageSender is the outbound half of a connected client.
type messageSender interface {
	Send(msg *Message)
}

// Session is one editing room: a document store, the editor driving
// it, and the clients watching. Every store commit and selection
// change is pushed to all clients, so late joiners and concurrent
// viewers converge on the same state.
type Session struct {
	ID string

	mu      sync.RWMutex
	editor  *editor.Editor
	clients map[string]messageSender

	unsubscribe func()
}

// NewSession creates a session around doc with the given grid config.
func NewSession(id string, doc document.Document, gridSizeMm float64, snapToGrid bool) *Session {
	store := document.NewStore(doc)
	s := &Session{
		ID:      id,
		editor:  editor.New(store, gridSizeMm, snapToGrid),
		clients: make(map[string]messageSender),
	}

	s.unsubscribe = store.Subscribe(func(d document.Document) {
		s.broadcastPayload(TypeDocSync, DocPayload{Document: d}, "")
	})
	s.editor.OnSelectionChanged(func(ids []string) {
		s.broadcastPayload(TypeSelectionState, SelectionPayload{IDs: ids}, "")
	})
	s.editor.OnImageRequest(func(elementID string) {
		s.broadcastPayload(TypeImageRequest, ImageRequestPayload{ElementID: elementID}, "")
	})
	return s
}

// Editor exposes the session's editor, mainly for HTTP-side hooks like
// asset uploads staging a pending image.
func (s *Session) Editor() *editor.Editor { return s.editor }

// Close finalizes any in-flight drag and detaches from the store.
func (s *Session) Close() {
	s.unsubscribe()
	s.editor.Close()
}

func (s *Session) attach(clientID string, c messageSender) {
	s.mu.Lock()
	s.clients[clientID] = c
	s.mu.Unlock()

	// Bring the new client up to date immediately.
	c.Send(s.payloadMessage(TypeDocSync, DocPayload{Document: s.editor.Document()}))
	c.Send(s.payloadMessage(TypeSelectionState, SelectionPayload{IDs: s.editor.SelectionIDs()}))
}

func (s *Session) detach(clientID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, clientID)
	return len(s.clients)
}

// Dispatch routes one inbound message to the editor. Unknown types and
// malformed payloads are logged and dropped; the session state is never
// left half-applied.
func (s *Session) Dispatch(msg *Message) {
	switch msg.Type {
	case TypePointerDown:
		var p PointerPayload
		if !decode(msg, &p) {
			return
		}
		s.editor.PointerDown(p.X, p.Y, p.Target, p.Modifiers)
	case TypePointerMove:
		var p PointerPayload
		if !decode(msg, &p) {
			return
		}
		s.editor.PointerMove(p.X, p.Y)
	case TypePointerUp:
		var p PointerPayload
		if !decode(msg, &p) {
			return
		}
		s.editor.PointerUp(p.X, p.Y)
	case TypePointerCancel:
		var p PointerPayload
		if !decode(msg, &p) {
			return
		}
		s.editor.PointerCancel(p.X, p.Y)

	case TypeToolSelect:
		var p ToolPayload
		if !decode(msg, &p) {
			return
		}
		s.editor.SetTool(p.Tool)
	case TypeSectionSelect:
		var p SectionPayload
		if !decode(msg, &p) {
			return
		}
		s.editor.SetActiveSection(p.Section)
	case TypeSurfaceUpdate:
		var p SurfacePayload
		if !decode(msg, &p) {
			return
		}
		s.editor.SetSurface(p.Surface)
		if p.Zoom > 0 {
			s.editor.SetZoom(p.Zoom)
		}
	case TypeConfigUpdate:
		var p ConfigPayload
		if !decode(msg, &p) {
			return
		}
		if p.GridSizeMm != nil {
			s.editor.SetGridSize(*p.GridSizeMm)
		}
		if p.SnapToGrid != nil {
			s.editor.SetSnapEnabled(*p.SnapToGrid)
		}

	case TypeKeyNudge:
		var p NudgePayload
		if !decode(msg, &p) {
			return
		}
		s.editor.Nudge(p.DX, p.DY, p.Shift)
	case TypeSelect:
		var p SelectPayload
		if !decode(msg, &p) {
			return
		}
		if p.ElementID == "" {
			s.editor.ClearSelection()
		} else {
			s.editor.SelectElement(p.ElementID, p.Additive)
		}
	case TypePropertySet:
		var p PropertyPayload
		if !decode(msg, &p) {
			return
		}
		s.editor.SetProperty(p.Path, p.Value)
	case TypeZOrder:
		var p ZOrderPayload
		if !decode(msg, &p) {
			return
		}
		s.applyZOrder(p.Op)
	case TypeElementDelete:
		s.editor.DeleteSelection()
	case TypeImageSet:
		var p ImageSetPayload
		if !decode(msg, &p) {
			return
		}
		s.editor.SetImageSource(p.ElementID, p.Source, p.NaturalWidth, p.NaturalHeight)

	case TypeDocLoad:
		var p DocPayload
		if !decode(msg, &p) {
			return
		}
		s.editor.LoadDocument(p.Document)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "session", s.ID)
	}
}

func (s *Session) applyZOrder(op string) {
	switch op {
	case "forward":
		s.editor.BringForward()
	case "backward":
		s.editor.SendBackward()
	case "front":
		s.editor.BringToFront()
	case "back":
		s.editor.SendToBack()
	default:
		slog.Warn("unknown zorder op", "op", op, "session", s.ID)
	}
}

func (s *Session) payloadMessage(msgType string, payload any) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal payload", "type", msgType, "error", err)
		return &Message{Type: msgType, SessionID: s.ID}
	}
	return &Message{Type: msgType, SessionID: s.ID, Payload: data}
}

func (s *Session) broadcastPayload(msgType string, payload any, excludeClientID string) {
	msg := s.payloadMessage(msgType, payload)

	s.mu.RLock()
	targets := make([]messageSender, 0, len(s.clients))
	for id, c := range s.clients {
		if id != excludeClientID {
			targets = append(targets, c)
		}
	}
	s.mu.RUnlock()

	for _, c := range targets {
		c.Send(msg)
	}
}

func decode(msg *Message, out any) bool {
	if err := json.Unmarshal(msg.Payload, out); err != nil {
		slog.Warn("invalid payload", "type", msg.Type, "error", err)
		return false
	}
	return true
}

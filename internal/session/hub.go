package session

import (
	"log/slog"
	"sync"

	"github.com/MADrickx/Layma/internal/document"
)

// Hub owns the live sessions and moves clients in and out of them. A
// session is created on the first client and torn down when the last
// one leaves.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	register   chan *Client
	unregister chan *Client

	// newDocument seeds a session that has no document yet.
	newDocument func() document.Document
	gridSizeMm  float64
	snapToGrid  bool
}

// NewHub creates a hub whose fresh sessions start from newDocument
// with the given grid defaults.
func NewHub(newDocument func() document.Document, gridSizeMm float64, snapToGrid bool) *Hub {
	return &Hub{
		sessions:    make(map[string]*Session),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		newDocument: newDocument,
		gridSizeMm:  gridSizeMm,
		snapToGrid:  snapToGrid,
	}
}

// Run processes client arrivals and departures until the process
// exits. Run it once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// Register hands a connected client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Session returns the live session with the given id, if any.
func (h *Hub) Session(id string) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	s, ok := h.sessions[client.SessionID]
	if !ok {
		s = NewSession(client.SessionID, h.newDocument(), h.gridSizeMm, h.snapToGrid)
		h.sessions[client.SessionID] = s
	}
	h.mu.Unlock()

	client.session = s
	client.Send(s.payloadMessage(TypeWelcome, WelcomePayload{
		SessionID: s.ID,
		ClientID:  client.ClientID,
	}))
	s.attach(client.ClientID, client)

	slog.Info("client joined", "user", client.UserID, "session", s.ID)
}

func (h *Hub) removeClient(client *Client) {
	s := client.session
	if s == nil {
		return
	}

	// Leave the session before shutting the client down so broadcasts
	// never target a closed client.
	remaining := s.detach(client.ClientID)
	client.close()

	if remaining == 0 {
		h.mu.Lock()
		if h.sessions[s.ID] == s {
			delete(h.sessions, s.ID)
		}
		h.mu.Unlock()
		s.Close()
		slog.Info("session closed", "session", s.ID)
	}

	slog.Info("client left", "user", client.UserID, "session", s.ID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	s := sender.session
	if s == nil {
		return
	}
	msg.SessionID = s.ID
	msg.ClientID = sender.ClientID
	msg.UserID = sender.UserID
	s.Dispatch(msg)
}

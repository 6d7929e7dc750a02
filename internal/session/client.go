package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 256 * 1024
)

// Client is one websocket connection bound to a session.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	session *Session

	// closed signals shutdown. The send channel itself is never
	// closed: a broadcast that snapshotted this client before it left
	// the session may still call Send, and sending on a closed
	// channel would panic the whole process.
	closeOnce sync.Once
	closed    chan struct{}

	UserID      string
	DisplayName string
	SessionID   string
	ClientID    string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, displayName, sessionID, clientID string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, 256),
		closed:      make(chan struct{}),
		UserID:      userID,
		DisplayName: displayName,
		SessionID:   sessionID,
		ClientID:    clientID,
	}
}

// close marks the client as gone. Safe to call more than once.
func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.closed) })
}

// ReadPump decodes inbound messages and hands them to the hub until
// the connection drops.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "user", c.UserID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "user", c.UserID)
			continue
		}

		c.hub.handleMessage(c, &msg)
	}
}

// WritePump drains the send buffer to the socket and keeps the
// connection alive with pings.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-c.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "user", c.UserID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-c.closed:
			return

		case <-ctx.Done():
			return
		}
	}
}

// Send queues a message for delivery. Messages to a closed client are
// dropped, and a slow client that has filled its buffer loses the
// message rather than stalling the session.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case <-c.closed:
		return
	default:
	}

	select {
	case c.send <- data:
	case <-c.closed:
	default:
		slog.Warn("client send buffer full, dropping message", "user", c.UserID)
	}
}

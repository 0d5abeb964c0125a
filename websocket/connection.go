// Package websocket provides the live-update hub for event pages:
// per-second checkout countdown ticks and attendance stat refreshes.
// file: websocket/connection.go
package websocket

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go-checkin-gateway/logger"
)

// WSConn is an interface for the WebSocket connection.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
}

// Connection represents a single WebSocket connection for one watcher.
type Connection struct {
	conn    WSConn
	send    chan []byte
	eventID string
	userID  int
}

// connections tracks all active watchers. connMutex guards the map and
// the userID field of every registered connection: handler goroutines
// register, readPumps write userID on watch messages, and the fan-out
// loop iterates, all concurrently.
var (
	connMutex   sync.RWMutex
	connections = make(map[*Connection]bool)
)

// Configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 2048
)

// Upgrader upgrades HTTP requests to WebSocket connections.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Cross-origin policy for the SPA is enforced by the CORS layer;
		// the upgrade itself accepts any origin.
		return true
	},
}

// ServeWs upgrades the HTTP request and starts the read and write pumps.
// The event id must come in the query string; the user id arrives later
// in a "watch" message and scopes countdown ticks to this watcher.
func ServeWs(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("eventId")
	if eventID == "" {
		logger.Error.Println("[ServeWs] No event id supplied; rejecting WebSocket connection")
		http.Error(w, "No event selected", http.StatusBadRequest)
		return
	}

	logger.Info.Printf("[ServeWs] Upgrading to WS: remoteAddr=%v, eventId=%q", r.RemoteAddr, eventID)
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error.Printf("[ServeWs] WebSocket upgrade error: %v", err)
		http.Error(w, "Failed to upgrade WebSocket", http.StatusBadRequest)
		return
	}

	c := &Connection{
		conn:    wsConn,
		send:    make(chan []byte, 256),
		eventID: eventID,
	}

	registerConnection(c)

	go c.readPump()
	go c.writePump()
}

// readPump handles inbound messages from the client.
func (c *Connection) readPump() {
	defer func() {
		unregisterConnection(c)
		if err := c.conn.Close(); err != nil {
			return
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logger.Warn.Printf("[readPump] Read error from %v: %v", c.conn.RemoteAddr(), err)
			break
		}
		if messageType != websocket.TextMessage {
			logger.Debug.Printf("[readPump] Ignoring non-text messageType=%d", messageType)
			continue
		}

		var wm WatchMessage
		if err := json.Unmarshal(message, &wm); err != nil {
			logger.Warn.Printf("[readPump] Invalid JSON from %v: %v", c.conn.RemoteAddr(), err)
			continue
		}
		handleIncoming(c, wm)
	}
}

// writePump handles outbound messages to the client, including periodic pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			return
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// The channel was closed.
				logger.Debug.Printf("[writePump] Send channel closed for %v", c.conn.RemoteAddr())
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn.Printf("[writePump] Error writing to %v: %v", c.conn.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn.Printf("[writePump] Ping error for %v: %v", c.conn.RemoteAddr(), err)
				return
			}
		}
	}
}

// registerConnection adds the given connection to the global connections map.
func registerConnection(c *Connection) {
	connMutex.Lock()
	connections[c] = true
	count := len(connections)
	connMutex.Unlock()

	PublishWatcherConnections(count, c.eventID)
}

// unregisterConnection removes the given connection from the global
// connections map and stops any countdown addressed to it.
func unregisterConnection(c *Connection) {
	connMutex.Lock()
	if _, ok := connections[c]; !ok {
		connMutex.Unlock()
		return
	}
	delete(connections, c)
	count := len(connections)
	userID := c.userID
	connMutex.Unlock()

	PublishWatcherConnections(count, c.eventID)
	if userID != 0 {
		CancelCheckoutCountdown(c.eventID, userID)
	}
}

// WatchMessage represents the JSON structure of messages from clients.
type WatchMessage struct {
	Action  string `json:"action"`
	EventID string `json:"eventId"`
	UserID  int    `json:"userId"`
}

// handleIncoming processes an inbound JSON message.
func handleIncoming(c *Connection, wm WatchMessage) {
	logger.Debug.Printf("[handleIncoming] Action=%s, EventID=%s, UserID=%d", wm.Action, wm.EventID, wm.UserID)
	switch wm.Action {
	case "watch":
		// countdown ticks are addressed per attendee; the fan-out loop
		// reads userID, so the write goes under the same lock
		connMutex.Lock()
		c.userID = wm.UserID
		connMutex.Unlock()
		logger.Info.Printf("Watcher user=%d registered on event %s (conn=%v)", wm.UserID, c.eventID, c.conn.RemoteAddr())
	default:
		logger.Debug.Printf("[handleIncoming] Ignoring unknown action %q", wm.Action)
	}
}

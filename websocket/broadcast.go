// Package websocket handles real-time push from the gateway to open
// event pages.
// file: websocket/broadcast.go
package websocket

import (
	"encoding/json"

	"go-checkin-gateway/logger"
	"go-checkin-gateway/models"
)

// broadcast is the channel all outbound messages funnel through.
var broadcast = make(chan []byte, 64)

// HandleMessages listens on the broadcast channel and distributes each
// message to the connections watching the right event.
func HandleMessages() {
	for {
		dispatch(<-broadcast)
	}
}

// dispatch fans one message out to the matching connections. Messages
// carry an eventId field for filtering; a userId field additionally
// narrows delivery to a single attendee's connections.
func dispatch(msg []byte) {
	var msgMap map[string]interface{}
	var eventFilter string
	var userFilter int

	if err := json.Unmarshal(msg, &msgMap); err == nil {
		if e, ok := msgMap["eventId"].(string); ok {
			eventFilter = e
		}
		if u, ok := msgMap["userId"].(float64); ok {
			userFilter = int(u)
		}
	}

	connMutex.RLock()
	defer connMutex.RUnlock()
	for c := range connections {
		if eventFilter != "" && c.eventID != eventFilter {
			continue
		}
		if userFilter != 0 && c.userID != userFilter {
			continue
		}
		select {
		case c.send <- msg:
		default:
			logger.Warn.Printf("Dropping broadcast message for connection %v", c.conn.RemoteAddr())
		}
	}
}

// BroadcastMessage sends a message to all watchers of the given event.
func BroadcastMessage(eventID string, message map[string]interface{}) {
	message["eventId"] = eventID

	msg, err := json.Marshal(message)
	if err != nil {
		logger.Error.Printf("Error marshalling message: %v", err)
		return
	}

	broadcast <- msg
}

// BroadcastStats pushes refreshed attendance counters to every open
// page of the event. Fired after each successful submission.
func BroadcastStats(eventID string, stats *models.EventStats) {
	if stats == nil {
		return
	}
	logger.Debug.Printf("Broadcasting stats update for event %s: total=%d", eventID, stats.Total)
	BroadcastMessage(eventID, map[string]interface{}{
		"action": "statsUpdate",
		"stats":  stats,
	})
}

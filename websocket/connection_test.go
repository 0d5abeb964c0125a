// file: websocket/connection_test.go

//go:build unit
// +build unit

// Unit tests for connection.go. These use a fakeConn implementing WSConn
// so the registration and inbound-message logic can be exercised without
// network I/O.

package websocket

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

// fakeConn implements the WSConn interface with no-ops, recording when a
// ping frame is written.
type fakeConn struct {
	pingCaptured bool
}

func (fc *fakeConn) WriteMessage(messageType int, data []byte) error {
	if messageType == websocket.PingMessage {
		fc.pingCaptured = true
	}
	return nil
}

func (fc *fakeConn) SetWriteDeadline(t time.Time) error { return nil }

func (fc *fakeConn) ReadMessage() (int, []byte, error) {
	return websocket.TextMessage, []byte(`{"action": "dummy"}`), nil
}

func (fc *fakeConn) Close() error { return nil }

func (fc *fakeConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 12345}
}

func (fc *fakeConn) SetReadLimit(limit int64) {}

func (fc *fakeConn) SetReadDeadline(t time.Time) error { return nil }

func (fc *fakeConn) SetPongHandler(h func(string) error) {}

// TestRegisterAndUnregisterConnection verifies the connections map
// bookkeeping around a watcher's lifetime.
func TestRegisterAndUnregisterConnection(t *testing.T) {
	InitTest()

	c := &Connection{
		conn:    &fakeConn{},
		send:    make(chan []byte, 1),
		eventID: "evt-1",
	}

	registerConnection(c)
	assert.True(t, connections[c])
	assert.Len(t, connections, 1)

	unregisterConnection(c)
	assert.NotContains(t, connections, c)

	// unregistering twice is harmless
	unregisterConnection(c)
	assert.Empty(t, connections)
}

// TestUnregisterConnection_StopsCountdown verifies a departing watcher
// takes its countdown with it.
func TestUnregisterConnection_StopsCountdown(t *testing.T) {
	InitTest()
	defer InitTest()

	c := &Connection{
		conn:    &fakeConn{},
		send:    make(chan []byte, 1),
		eventID: "evt-1",
		userID:  7,
	}
	registerConnection(c)
	StartCheckoutCountdown("evt-1", 7, time.Now().Add(time.Hour))

	unregisterConnection(c)

	countdownMutex.Lock()
	_, running := activeCountdowns[countdownKey{eventID: "evt-1", userID: 7}]
	countdownMutex.Unlock()
	assert.False(t, running)
}

// TestHandleIncoming_Watch verifies the watch action binds the user id
// used to address countdown ticks.
func TestHandleIncoming_Watch(t *testing.T) {
	InitTest()

	c := &Connection{conn: &fakeConn{}, send: make(chan []byte, 1), eventID: "evt-1"}

	handleIncoming(c, WatchMessage{Action: "watch", EventID: "evt-1", UserID: 7})
	assert.Equal(t, 7, c.userID)

	// unknown actions leave the connection untouched
	handleIncoming(c, WatchMessage{Action: "somethingElse", UserID: 99})
	assert.Equal(t, 7, c.userID)
}

// TestConcurrentWatcherChurn verifies watchers can register, announce
// themselves and unregister while the fan-out delivers messages. Run
// with -race: the connections map and userID writes must stay guarded.
func TestConcurrentWatcherChurn(t *testing.T) {
	InitTest()
	defer InitTest()

	msg, err := json.Marshal(map[string]interface{}{
		"action":  "statsUpdate",
		"eventId": "evt-1",
	})
	assert.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			c := &Connection{
				conn:    &fakeConn{},
				send:    make(chan []byte, 4),
				eventID: "evt-1",
			}
			registerConnection(c)
			handleIncoming(c, WatchMessage{Action: "watch", EventID: "evt-1", UserID: userID})
			unregisterConnection(c)
		}(i + 1)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			dispatch(msg)
		}
	}()

	wg.Wait()

	connMutex.RLock()
	defer connMutex.RUnlock()
	assert.Empty(t, connections)
}

// TestServeWs_RequiresEventID verifies the upgrade is rejected without
// an event id in the query string.
func TestServeWs_RequiresEventID(t *testing.T) {
	InitTest()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/updates", nil)
	ServeWs(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, connections)
}

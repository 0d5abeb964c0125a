// Package websocket test_helpers.go
package websocket

import "time"

// InitTest resets the hub's shared state between tests.
func InitTest() {
	// Flush the broadcast channel if necessary.
	for len(broadcast) > 0 {
		<-broadcast
	}
	nowFunc = time.Now
	metricsEnabled = false

	countdownMutex.Lock()
	for key, stop := range activeCountdowns {
		close(stop)
		delete(activeCountdowns, key)
	}
	countdownMutex.Unlock()

	connMutex.Lock()
	for c := range connections {
		delete(connections, c)
	}
	connMutex.Unlock()
}

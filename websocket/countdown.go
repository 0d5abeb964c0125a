// Package websocket websocket/countdown.go
package websocket

import (
	"sync"
	"time"

	"go-checkin-gateway/logger"
)

// countdownKey addresses one attendee's checkout wait on one event.
type countdownKey struct {
	eventID string
	userID  int
}

var (
	countdownMutex   sync.Mutex
	activeCountdowns = make(map[countdownKey]chan struct{})
)

// nowFunc allows tests to control the clock.
var nowFunc = time.Now

// StartCheckoutCountdown begins a once-per-second countdown towards the
// attendee's checkout window, pushed to that attendee's connections.
// Starting an already-running countdown is a no-op. The countdown stops
// on its own when the window opens (broadcasting a final checkoutReady)
// or when CancelCheckoutCountdown is called.
func StartCheckoutCountdown(eventID string, userID int, opensAt time.Time) {
	countdownMutex.Lock()
	defer countdownMutex.Unlock()

	key := countdownKey{eventID: eventID, userID: userID}
	if _, running := activeCountdowns[key]; running {
		logger.Debug.Printf("Checkout countdown already running for event=%s user=%d", eventID, userID)
		return
	}

	stop := make(chan struct{})
	activeCountdowns[key] = stop
	logger.Info.Printf("Starting checkout countdown for event=%s user=%d, opens at %v", eventID, userID, opensAt)

	ticker := time.NewTicker(time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				remaining := int(opensAt.Sub(nowFunc()).Seconds())
				if remaining <= 0 {
					BroadcastMessage(eventID, map[string]interface{}{
						"action": "checkoutReady",
						"userId": userID,
					})
					removeCountdown(key)
					logger.Info.Printf("Checkout window opened for event=%s user=%d", eventID, userID)
					return
				}
				BroadcastMessage(eventID, map[string]interface{}{
					"action":      "checkoutCountdown",
					"userId":      userID,
					"secondsLeft": remaining,
				})
			}
		}
	}()
}

// CancelCheckoutCountdown stops the countdown for the given attendee,
// typically because checkout_time got set or the watcher went away.
func CancelCheckoutCountdown(eventID string, userID int) {
	countdownMutex.Lock()
	defer countdownMutex.Unlock()

	key := countdownKey{eventID: eventID, userID: userID}
	if stop, running := activeCountdowns[key]; running {
		close(stop)
		delete(activeCountdowns, key)
		logger.Info.Printf("Cancelled checkout countdown for event=%s user=%d", eventID, userID)
	}
}

// removeCountdown drops the bookkeeping entry after a natural expiry.
func removeCountdown(key countdownKey) {
	countdownMutex.Lock()
	defer countdownMutex.Unlock()
	delete(activeCountdowns, key)
}

// file: websocket/countdown_test.go

//go:build unit
// +build unit

package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// waitForBroadcast blocks until a message arrives or the timeout hits.
func waitForBroadcast(t *testing.T, timeout time.Duration) map[string]interface{} {
	t.Helper()
	select {
	case msg := <-broadcast:
		var decoded map[string]interface{}
		assert.NoError(t, json.Unmarshal(msg, &decoded))
		return decoded
	case <-time.After(timeout):
		t.Fatal("Timed out waiting for a broadcast message")
		return nil
	}
}

// TestStartCheckoutCountdown_Ticks verifies the per-second tick payload
// while the window is still closed.
func TestStartCheckoutCountdown_Ticks(t *testing.T) {
	InitTest()
	defer InitTest()

	StartCheckoutCountdown("evt-1", 7, time.Now().Add(90*time.Second))

	decoded := waitForBroadcast(t, 2*time.Second)
	assert.Equal(t, "checkoutCountdown", decoded["action"])
	assert.Equal(t, "evt-1", decoded["eventId"])
	assert.Equal(t, float64(7), decoded["userId"])

	secondsLeft, ok := decoded["secondsLeft"].(float64)
	assert.True(t, ok)
	assert.Greater(t, secondsLeft, float64(0))
	assert.LessOrEqual(t, secondsLeft, float64(90))
}

// TestStartCheckoutCountdown_Ready verifies the final checkoutReady
// message once the window opens, and that the countdown unregisters.
func TestStartCheckoutCountdown_Ready(t *testing.T) {
	InitTest()
	defer InitTest()

	// window already open: the first tick announces readiness
	StartCheckoutCountdown("evt-1", 7, time.Now())

	decoded := waitForBroadcast(t, 2*time.Second)
	assert.Equal(t, "checkoutReady", decoded["action"])
	assert.Equal(t, float64(7), decoded["userId"])

	// the bookkeeping entry is gone, so a restart is possible
	countdownMutex.Lock()
	_, running := activeCountdowns[countdownKey{eventID: "evt-1", userID: 7}]
	countdownMutex.Unlock()
	assert.False(t, running)
}

// TestStartCheckoutCountdown_Idempotent verifies that starting twice
// keeps a single countdown.
func TestStartCheckoutCountdown_Idempotent(t *testing.T) {
	InitTest()
	defer InitTest()

	opensAt := time.Now().Add(time.Hour)
	StartCheckoutCountdown("evt-1", 7, opensAt)
	StartCheckoutCountdown("evt-1", 7, opensAt)

	countdownMutex.Lock()
	count := len(activeCountdowns)
	countdownMutex.Unlock()
	assert.Equal(t, 1, count)
}

// TestCancelCheckoutCountdown verifies cancellation stops the ticks.
func TestCancelCheckoutCountdown(t *testing.T) {
	InitTest()
	defer InitTest()

	StartCheckoutCountdown("evt-1", 7, time.Now().Add(time.Hour))
	CancelCheckoutCountdown("evt-1", 7)

	countdownMutex.Lock()
	_, running := activeCountdowns[countdownKey{eventID: "evt-1", userID: 7}]
	countdownMutex.Unlock()
	assert.False(t, running)

	// cancelling an unknown countdown is a no-op
	CancelCheckoutCountdown("evt-other", 99)
}

// TestCountdownsAreIndependent verifies two attendees on the same event
// tick separately.
func TestCountdownsAreIndependent(t *testing.T) {
	InitTest()
	defer InitTest()

	opensAt := time.Now().Add(time.Hour)
	StartCheckoutCountdown("evt-1", 7, opensAt)
	StartCheckoutCountdown("evt-1", 8, opensAt)

	countdownMutex.Lock()
	count := len(activeCountdowns)
	countdownMutex.Unlock()
	assert.Equal(t, 2, count)

	CancelCheckoutCountdown("evt-1", 7)

	countdownMutex.Lock()
	_, otherStillRunning := activeCountdowns[countdownKey{eventID: "evt-1", userID: 8}]
	countdownMutex.Unlock()
	assert.True(t, otherStillRunning)
}

// Package controllers controllers/page_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go-checkin-gateway/logger"
	"go-checkin-gateway/websocket"
)

var applicationURL string

// SetConfig stores the gateway's public base URL, used to build the
// absolute links handed to the SPA.
func SetConfig(appURL string) {
	applicationURL = appURL
	logger.Info.Printf("SetConfig: applicationURL=%s", appURL)
}

// UpdatesURL is the live-update endpoint for one event page. The SPA
// opens this as a WebSocket (ws:// or wss:// per the page's scheme).
func UpdatesURL(eventID string) string {
	return applicationURL + "/api/event/" + eventID + "/updates"
}

// Health is the load balancer health check.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// EventUpdates upgrades the request to a WebSocket for live countdown
// ticks and stats refreshes on one event page.
func EventUpdates(c *gin.Context) {
	// ServeWs expects the event id in the query string
	q := c.Request.URL.Query()
	q.Set("eventId", c.Param("id"))
	c.Request.URL.RawQuery = q.Encode()

	websocket.ServeWs(c.Writer, c.Request)
}

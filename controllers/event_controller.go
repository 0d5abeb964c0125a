// Package controllers controllers/event_controller.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go-checkin-gateway/backend"
	"go-checkin-gateway/logger"
	"go-checkin-gateway/models"
	"go-checkin-gateway/services"
	"go-checkin-gateway/websocket"
)

// EventController assembles the public event page state.
type EventController struct {
	Backend backend.Service
}

// NewEventController creates an instance of EventController.
func NewEventController(svc backend.Service) *EventController {
	return &EventController{Backend: svc}
}

// GetEventPage returns everything the event page needs in one shot:
// the event, best-effort stats, the session user if any, the resolved
// eligibility, and the composed form for the next action.
//
// The event and its stats are fetched concurrently; a stats failure is
// non-fatal and simply yields no stats block.
func (ec *EventController) GetEventPage(c *gin.Context) {
	eventID := c.Param("id")
	ctx := c.Request.Context()

	statsCh := make(chan *models.EventStats, 1)
	go func() {
		stats, err := ec.Backend.GetEventStats(ctx, eventID)
		if err != nil {
			logger.Warn.Printf("GetEventPage: stats fetch failed for event %s: %v", eventID, err)
			statsCh <- nil
			return
		}
		statsCh <- stats
	}()

	event, err := ec.Backend.GetEvent(ctx, eventID)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "活動不存在"})
			return
		}
		logger.Error.Printf("GetEventPage: event fetch failed for %s: %v", eventID, err)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "無法加載活動詳情"})
		return
	}

	stats := <-statsCh

	user, identity, authOK := currentUser(c, ec.Backend)
	pos := sessionPosition(c)

	var eligibility services.Eligibility
	switch {
	case !authOK:
		// stale token upstream: show the page logged out
		eligibility = services.Unauthenticated()
		eligibility.Advisory = "用戶身份驗證失敗，請重新登入"
	case user == nil:
		eligibility = services.Unauthenticated()
	default:
		validation, verr := ec.Backend.ValidateCheckin(ctx, identity.Token, models.ValidateRequest{
			UserID:  identity.UserID,
			EventID: eventID,
		})
		if verr != nil {
			logger.Warn.Printf("GetEventPage: validate failed for user %d on event %s: %v", identity.UserID, eventID, verr)
			validation = nil
		}
		eligibility = services.Resolve(event, validation, pos, time.Now())
	}

	response := gin.H{
		"success":     true,
		"event":       event,
		"eligibility": eligibility,
		"updates_url": UpdatesURL(eventID),
	}
	if stats != nil {
		response["stats"] = stats
	}
	if user != nil {
		response["user"] = user
		action := services.ActionFor(eligibility.Phase)
		response["form_action"] = action
		if eligibility.Phase != services.PhaseFullyCheckedOut {
			if fields := services.ComposeFields(event, user, action); fields != nil {
				response["fields"] = fields
			}
		}
	}

	if eligibility.Phase == services.PhaseAwaitingCheckoutWindow && eligibility.Checkin != nil && user != nil {
		if opensAt, ok := services.CheckoutOpensAt(event, eligibility.Checkin); ok {
			response["checkout_opens_at"] = opensAt
			websocket.StartCheckoutCountdown(eventID, user.ID, opensAt)
		}
	}

	c.JSON(http.StatusOK, response)
}

// reportPositionRequest carries the browser's coordinates in the
// backend wire format, "<lat>,<lon>".
type reportPositionRequest struct {
	Geolocation string `json:"geolocation" binding:"required"`
}

// ReportPosition stores the attendee's reported position for this
// session and returns the re-resolved eligibility. The browser acquires
// the position one-shot (10 s timeout, no retry); when acquisition
// fails it simply never calls this, and geofenced events stay blocked.
func (ec *EventController) ReportPosition(c *gin.Context) {
	eventID := c.Param("id")

	var req reportPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "無效的定位資料"})
		return
	}

	pos, err := services.ParsePosition(req.Geolocation)
	if err != nil {
		logger.Warn.Printf("ReportPosition: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "無效的定位資料"})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionKeyPosition, pos.String())
	if err := session.Save(); err != nil {
		logger.Error.Println("ReportPosition: failed to save session:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "無法儲存定位資料"})
		return
	}

	event, err := ec.Backend.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "無法加載活動詳情"})
		return
	}

	user, identity, authOK := currentUser(c, ec.Backend)
	if !authOK || user == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "eligibility": services.Unauthenticated()})
		return
	}

	validation, verr := ec.Backend.ValidateCheckin(c.Request.Context(), identity.Token, models.ValidateRequest{
		UserID:  identity.UserID,
		EventID: eventID,
	})
	if verr != nil {
		validation = nil
	}
	eligibility := services.Resolve(event, validation, &pos, time.Now())

	c.JSON(http.StatusOK, gin.H{"success": true, "eligibility": eligibility})
}

// sessionPosition reads the stored attendee position, if any.
func sessionPosition(c *gin.Context) *services.Position {
	session := sessions.Default(c)
	raw, _ := session.Get(sessionKeyPosition).(string)
	if raw == "" {
		return nil
	}
	pos, err := services.ParsePosition(raw)
	if err != nil {
		logger.Warn.Printf("sessionPosition: dropping malformed stored position %q", raw)
		return nil
	}
	return &pos
}

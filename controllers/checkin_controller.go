// Package controllers controllers/checkin_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go-checkin-gateway/backend"
	"go-checkin-gateway/logger"
	"go-checkin-gateway/models"
	"go-checkin-gateway/services"
	"go-checkin-gateway/websocket"
)

// CheckinController handles check-in/check-out submissions.
type CheckinController struct {
	Backend backend.Service
}

// NewCheckinController creates an instance of CheckinController.
func NewCheckinController(svc backend.Service) *CheckinController {
	return &CheckinController{Backend: svc}
}

// submitRequest is the attendee's answer bag, keyed by field name.
type submitRequest struct {
	Answers map[string]any `json:"answers"`
}

// Submit performs a check-in or, when an open record exists, a
// check-out. The backend stays authoritative over which one happens and
// over checkout timing; the gateway re-derives only the pre-checkin
// rules (time window and geofence), validates the composed form and
// splits the answers into dynamic data and profile data.
func (cc *CheckinController) Submit(c *gin.Context) {
	eventID := c.Param("id")
	ctx := c.Request.Context()

	user, identity, authOK := currentUser(c, cc.Backend)
	if !authOK || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "請先登入 LINE 帳號以進行簽到"})
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "無效的表單資料"})
		return
	}

	event, err := cc.Backend.GetEvent(ctx, eventID)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "活動不存在"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "無法加載活動詳情"})
		return
	}

	pos := sessionPosition(c)

	// the current phase decides whether this submission is a check-in
	// or a check-out, and therefore which form applies
	validation, verr := cc.Backend.ValidateCheckin(ctx, identity.Token, models.ValidateRequest{
		UserID:  identity.UserID,
		EventID: eventID,
	})
	if verr != nil {
		logger.Warn.Printf("Submit: validate failed for user %d on event %s: %v", identity.UserID, eventID, verr)
		validation = nil
	}
	eligibility := services.Resolve(event, validation, pos, time.Now())

	switch eligibility.Phase {
	case services.PhaseFullyCheckedOut:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "您已經完成簽到和簽退", "eligibility": eligibility})
		return
	case services.PhaseCheckInBlocked:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": eligibility.Advisory, "eligibility": eligibility})
		return
	}

	action := services.ActionFor(eligibility.Phase)
	fields := services.ComposeFields(event, user, action)
	if _, err := services.ValidateAnswers(fields, req.Answers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	dynamicData, profileData := services.SplitAnswers(event, req.Answers)

	payload := models.CheckinCreate{
		UserID:      identity.UserID,
		EventID:     eventID,
		DynamicData: dynamicData,
		ProfileData: profileData,
	}
	if pos != nil {
		payload.Geolocation = pos.String()
	}

	started := time.Now()
	checkin, err := cc.Backend.CreateCheckin(ctx, identity.Token, payload)
	websocket.PublishSubmitLatency(float64(time.Since(started).Milliseconds()), eventID)

	if err != nil {
		cc.submitFailed(c, event, user, err)
		return
	}

	next := services.Reclassify(event, checkin, time.Now())

	isCheckout := checkin.CheckedOut()
	message := "簽到成功！"
	if isCheckout {
		message = "簽退成功！"
		websocket.CancelCheckoutCountdown(eventID, user.ID)
	} else if next.Phase == services.PhaseAwaitingCheckoutWindow {
		if opensAt, ok := services.CheckoutOpensAt(event, checkin); ok {
			websocket.StartCheckoutCountdown(eventID, user.ID, opensAt)
		}
	}

	// refresh watchers' counters; best effort, detached from the
	// request context so the response never waits on it
	go func() {
		stats, serr := cc.Backend.GetEventStats(context.Background(), eventID)
		if serr != nil {
			logger.Debug.Printf("Submit: stats refresh failed for event %s: %v", eventID, serr)
			return
		}
		websocket.BroadcastStats(eventID, stats)
	}()

	actionWord := "checked in to"
	if isCheckout {
		actionWord = "checked out of"
	}
	logger.Info.Printf("Submit: user %d %s event %s", user.ID, actionWord, eventID)

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     message,
		"checkin":     checkin,
		"eligibility": next,
	})
}

// submitFailed maps a backend rejection onto the response. The backend's
// detail text is surfaced as-is; a checkout-waiting rejection comes back
// with an AWAITING_CHECKOUT_WINDOW eligibility so the page disables the
// button instead of showing a dead error.
func (cc *CheckinController) submitFailed(c *gin.Context, event *models.Event, user *models.User, err error) {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		logger.Error.Printf("submitFailed: transport error for user %d on event %s: %v", user.ID, event.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "操作失敗，請重試"})
		return
	}

	if strings.Contains(apiErr.Detail, "還需等待") {
		validation := &models.ValidateResponse{Valid: false, Message: apiErr.Detail}
		eligibility := services.Resolve(event, validation, nil, time.Now())
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": apiErr.Detail, "eligibility": eligibility})
		return
	}

	status := http.StatusBadRequest
	if apiErr.StatusCode >= http.StatusInternalServerError {
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"success": false, "message": apiErr.Detail})
}

// Package controllers controllers/session_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go-checkin-gateway/backend"
	"go-checkin-gateway/logger"
	"go-checkin-gateway/models"
)

// session keys
const (
	sessionKeyToken    = "token"
	sessionKeyUserID   = "userID"
	sessionKeyPosition = "position"
)

// Identity is the attendee's session context: the bearer token issued
// by the backend's LINE callback plus the resolved user id. It is
// threaded explicitly through the resolver and composer calls rather
// than living in any package-level state.
type Identity struct {
	Token  string
	UserID int
}

// CurrentIdentity extracts the attendee identity from the session.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	session := sessions.Default(c)
	token, _ := session.Get(sessionKeyToken).(string)
	userID, _ := session.Get(sessionKeyUserID).(int)
	if token == "" || userID == 0 {
		return Identity{}, false
	}
	return Identity{Token: token, UserID: userID}, true
}

// SessionController manages the attendee's login session.
type SessionController struct {
	Backend backend.Service
}

// NewSessionController creates an instance of SessionController.
func NewSessionController(svc backend.Service) *SessionController {
	return &SessionController{Backend: svc}
}

// createSessionRequest carries the token and subject the LINE callback
// appended to the event page URL (?token=…&sub=…).
type createSessionRequest struct {
	Token  string `json:"token" binding:"required"`
	UserID int    `json:"sub" binding:"required"`
}

// CreateSession stores the LINE-issued credentials in the session after
// confirming them against the backend. A token the backend rejects is
// discarded, mirroring a failed login.
func (sc *SessionController) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "缺少登入資訊"})
		return
	}

	user, err := sc.Backend.GetUser(c.Request.Context(), req.Token, req.UserID)
	if err != nil {
		logger.Warn.Printf("CreateSession: token rejected for user %d: %v", req.UserID, err)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "用戶身份驗證失敗，請重新登入"})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionKeyToken, req.Token)
	session.Set(sessionKeyUserID, req.UserID)
	if err := session.Save(); err != nil {
		logger.Error.Println("CreateSession: failed to save session:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "無法建立登入狀態"})
		return
	}

	logger.Info.Printf("CreateSession: user %d (%s) logged in", user.ID, user.Name)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// GetSession returns the logged-in attendee, or 401 when there is none.
func (sc *SessionController) GetSession(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "尚未登入"})
		return
	}

	user, err := sc.Backend.GetUser(c.Request.Context(), identity.Token, identity.UserID)
	if err != nil {
		// token expired or revoked upstream: drop the stale session
		sc.clearSession(c)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "用戶身份驗證失敗，請重新登入"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// DeleteSession logs the attendee out ("switch account").
func (sc *SessionController) DeleteSession(c *gin.Context) {
	sc.clearSession(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (sc *SessionController) clearSession(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		logger.Warn.Println("clearSession: failed to save cleared session:", err)
	}
}

// currentUser loads the session attendee from the backend; a nil user
// with ok=true means no one is logged in (a valid state for the public
// event page).
func currentUser(c *gin.Context, svc backend.Service) (*models.User, Identity, bool) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return nil, Identity{}, true
	}
	user, err := svc.GetUser(c.Request.Context(), identity.Token, identity.UserID)
	if err != nil {
		logger.Warn.Printf("currentUser: failed to fetch user %d: %v", identity.UserID, err)
		return nil, Identity{}, false
	}
	return user, identity, true
}

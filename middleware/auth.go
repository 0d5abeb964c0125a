// Package middleware provides request filters and security checks for the application.
// File: middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go-checkin-gateway/logger"
)

// -------------- authentication middleware --------------

// UserRequired ensures an attendee session exists before the request
// proceeds. The session is created by POST /api/session after the LINE
// redirect; without one the API answers 401 and the page shows the
// login prompt.
func UserRequired(c *gin.Context) {
	session := sessions.Default(c)
	token, _ := session.Get("token").(string)
	userID, _ := session.Get("userID").(int)

	if token == "" || userID == 0 {
		logger.Warn.Printf("UserRequired: no attendee session for %s %s", c.Request.Method, c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "請先登入 LINE 帳號以進行簽到",
		})
		return
	}

	logger.Debug.Println("[UserRequired] Attendee session present - proceeding with request")
	c.Next()
}

// Package middleware provides request filters and security checks for the application.
// File: middleware/request_id.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go-checkin-gateway/logger"
)

// RequestIDHeader is the response header carrying the correlation id.
const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with a correlation id, echoes it in the
// response and logs the request outcome. An incoming id is reused so
// the SPA's retries correlate across hops.
func RequestID(c *gin.Context) {
	id := c.GetHeader(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("requestID", id)
	c.Writer.Header().Set(RequestIDHeader, id)

	start := time.Now()
	c.Next()

	logger.Info.Printf("[%s] %s %s -> %d (%v)",
		id, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
}

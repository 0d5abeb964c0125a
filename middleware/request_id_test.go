// file: middleware/request_id_test.go
package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go-checkin-gateway/middleware"
)

func requestIDRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID)
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("requestID"))
	})
	return router
}

func TestRequestID_Generated(t *testing.T) {
	router := requestIDRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	id := w.Header().Get(middleware.RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String(), "the handler must see the same id the response carries")
}

func TestRequestID_IncomingReused(t *testing.T) {
	router := requestIDRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.RequestIDHeader, "spa-retry-42")
	router.ServeHTTP(w, req)

	assert.Equal(t, "spa-retry-42", w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "spa-retry-42", w.Body.String())
}

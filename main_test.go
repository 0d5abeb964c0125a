// main_test.go
package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go-checkin-gateway/controllers"
)

// TestHealthEndpoint verifies the load balancer health check.
func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", controllers.Health)

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "OK", resp.Body.String())
}

// TestAllowedOrigins verifies the CORS allow list parsing.
func TestAllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "")
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, allowedOrigins())

	t.Setenv("ALLOWED_ORIGINS", "https://checkin.example.com, https://admin.example.com")
	assert.Equal(t, []string{"https://checkin.example.com", "https://admin.example.com"}, allowedOrigins())
}

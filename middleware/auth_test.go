// file: middleware/auth_test.go
package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go-checkin-gateway/middleware"
)

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("checkin_session", cookie.NewStore([]byte("test-secret"))))

	// test login endpoint that populates the session
	router.POST("/login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set("token", "tok-123")
		session.Set("userID", 7)
		_ = session.Save()
		c.String(http.StatusOK, "ok")
	})

	protected := router.Group("/", middleware.UserRequired)
	protected.GET("/protected", func(c *gin.Context) {
		c.String(http.StatusOK, "through")
	})
	return router
}

func TestUserRequired_NoSession(t *testing.T) {
	router := authTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "請先登入 LINE 帳號以進行簽到")
}

func TestUserRequired_WithSession(t *testing.T) {
	router := authTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/login", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	for _, c := range w.Result().Cookies() {
		req2.AddCookie(c)
	}
	router.ServeHTTP(w2, req2)

	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "through", w2.Body.String())
}

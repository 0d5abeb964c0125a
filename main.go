// main.go
package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go-checkin-gateway/backend"
	"go-checkin-gateway/controllers"
	"go-checkin-gateway/logger"
	"go-checkin-gateway/middleware"
	"go-checkin-gateway/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using default environment variables")
	}

	env := os.Getenv("APP_ENV")
	logger.SetLogLevel(env)
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
		websocket.EnableMetrics()
	}

	// Read configuration from environment variables
	applicationURL := os.Getenv("APPLICATION_URL")
	if applicationURL == "" {
		applicationURL = "http://localhost:8080" // Default to localhost for local testing
	}

	backendURL := os.Getenv("BACKEND_URL")
	if backendURL == "" {
		backendURL = "http://localhost:8000/api" // Default to the local management backend
	}

	controllers.SetConfig(applicationURL)

	backendClient := backend.NewClient(backendURL, 15*time.Second)
	sessionController := controllers.NewSessionController(backendClient)
	eventController := controllers.NewEventController(backendClient)
	checkinController := controllers.NewCheckinController(backendClient)

	// Initialize the router
	router := gin.Default()
	router.Use(middleware.RequestID)

	// CORS for the attendee SPA origin(s)
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins()
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Initialize session store
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		sessionSecret = "dev-secret"
	}
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("checkin_session", store))

	// Health check for the load balancer
	router.GET("/health", controllers.Health)

	api := router.Group("/api")
	{
		// session lifecycle (token+sub arrive from the LINE redirect)
		api.POST("/session", sessionController.CreateSession)
		api.GET("/session", sessionController.GetSession)
		api.DELETE("/session", sessionController.DeleteSession)

		// public event page: works logged-out, shows the login prompt
		api.GET("/event/:id/page", eventController.GetEventPage)
		api.GET("/event/:id/updates", controllers.EventUpdates)

		// attendee actions
		protected := api.Group("/", middleware.UserRequired)
		{
			protected.POST("/event/:id/position", eventController.ReportPosition)
			protected.POST("/event/:id/submit", checkinController.Submit)
		}
	}

	// Start the WebSocket fan-out
	go websocket.HandleMessages()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info.Printf("Check-in gateway starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

// allowedOrigins reads the comma-separated CORS allow list, defaulting
// to the usual local SPA dev servers.
func allowedOrigins() []string {
	raw := os.Getenv("ALLOWED_ORIGINS")
	if raw == "" {
		return []string{"http://localhost:3000", "http://localhost:5173"}
	}
	origins := strings.Split(raw, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}

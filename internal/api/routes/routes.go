// Package routes defines the HTTP routes of the price chat service.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/unifiedui/price-chat/internal/api/handlers"
	"github.com/unifiedui/price-chat/internal/api/middleware"
)

// BasePath is the prefix of every route.
const BasePath = "/api/v1/price-chat"

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler        *handlers.HealthHandler
	ConversationsHandler *handlers.ConversationsHandler
	AuthMiddleware       *middleware.AuthMiddleware
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	v1 := r.Group(BasePath)
	{
		// Health check routes (no auth required)
		v1.GET("/health", cfg.HealthHandler.Health)
		v1.GET("/ready", cfg.HealthHandler.Ready)
		v1.GET("/live", cfg.HealthHandler.Live)

		protected := v1.Group("")
		protected.Use(cfg.AuthMiddleware.Authenticate())

		protected.POST("/conversations", cfg.ConversationsHandler.CreateConversation)

		conversation := protected.Group("/conversations/:conversationId")
		{
			conversation.GET("/messages", cfg.ConversationsHandler.GetMessages)
			conversation.POST("/messages", cfg.ConversationsHandler.SendMessage)
			conversation.DELETE("", cfg.ConversationsHandler.DeleteConversation)
			conversation.GET("/archive", cfg.ConversationsHandler.GetArchive)
		}
	}

	r.NoRoute(middleware.NotFound())
	r.NoMethod(middleware.MethodNotAllowed())
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware, cors middleware.CORSConfig) {
	r.HandleMethodNotAllowed = true
	r.Use(middleware.NewCORSMiddleware(cors))
	r.Use(loggingMw.Logger())
	r.Use(errorMw.Recovery())

	Setup(r, cfg)
}

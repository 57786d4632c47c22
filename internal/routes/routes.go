package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"allsers_backend/internal/handlers"
)

// RegisterRoutes registers all HTTP routes.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
		appHandlers.EngagementHandler.RegisterRoutes(api)
		appHandlers.ChallengeHandler.RegisterRoutes(api)
		appHandlers.SocialHandler.RegisterRoutes(api)
		appHandlers.ChatHandler.RegisterRoutes(api)
	}
}

package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"adoption-chat-server/internal/config"
	"adoption-chat-server/internal/handlers"
	"adoption-chat-server/internal/middleware"
	"adoption-chat-server/internal/services"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, svc *services.Services, cfg *config.Config, logger *slog.Logger) {
	conversationHandler := handlers.NewConversationHandler(svc, logger)
	messageHandler := handlers.NewMessageHandler(svc, logger)

	// Every chat route acts on behalf of the user named in the path
	users := router.Group("/api/v1/users/:userId")
	users.Use(middleware.AuthMiddleware(cfg), middleware.RequireSelf("userId"))
	{
		users.GET("/unread-count", messageHandler.GetUnreadCount)

		conversations := users.Group("/conversations")
		{
			conversations.POST("", conversationHandler.CreateConversation)
			conversations.GET("", conversationHandler.GetConversations)
			conversations.DELETE("", conversationHandler.DeleteAllConversations)
			conversations.DELETE("/:conversationId", conversationHandler.DeleteConversation)

			conversations.GET("/:conversationId/messages", messageHandler.GetMessages)
			conversations.POST("/:conversationId/messages", messageHandler.SendMessage)
			conversations.PATCH("/:conversationId/read", messageHandler.MarkAsRead)
			conversations.PUT("/:conversationId/typing",
				middleware.RateLimitPerUser(uint(cfg.RateLimit.TypingPerSecond)),
				messageHandler.SetTyping)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
}

package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"adoption-chat-server/internal/middleware"
	"adoption-chat-server/internal/services"
	"adoption-chat-server/internal/utils"
)

// respondError writes the envelope matching the kind of a service error.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	msg := services.Message(err)
	switch services.KindOf(err) {
	case services.KindNotFound:
		utils.NotFound(c, msg)
	case services.KindForbidden:
		utils.Forbidden(c, msg)
	case services.KindConflict:
		utils.Conflict(c, msg)
	default:
		logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
		utils.InternalServerError(c, msg)
	}
}

// callerID returns the authenticated user id, writing a 401 when it is missing.
func callerID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
	}
	return userID, ok
}

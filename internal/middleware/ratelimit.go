package middleware

import (
	"fmt"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"

	"adoption-chat-server/internal/utils"
)

// RateLimitPerUser allows each authenticated user limit requests per second
// across every route it guards. It must run after AuthMiddleware.
func RateLimitPerUser(limit uint) gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: limit,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: rateLimitExceeded,
		KeyFunc:      userKey,
	})
}

func userKey(c *gin.Context) string {
	if userID, ok := GetUserIDFromContext(c); ok {
		return userID
	}
	return c.ClientIP()
}

func rateLimitExceeded(c *gin.Context, info ratelimit.Info) {
	utils.TooManyRequests(c, fmt.Sprintf("Too many requests. Try again in %s",
		time.Until(info.ResetTime).Round(time.Millisecond)))
	c.Abort()
}

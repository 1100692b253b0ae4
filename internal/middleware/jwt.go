package middleware

import (
	"errors"                  // Error inspection
	"ledgerly/internal/utils" // JWT and session utilities
	"net/http"                // HTTP status codes
	"strings"                 // String manipulation

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Context keys set by JWTAuthMiddleware
const (
	ContextUserID    = "userID"
	ContextSessionID = "sessionID"
)

// JWTAuthMiddleware validates the bearer token and the session it names
func JWTAuthMiddleware(secret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string and parse it
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// A signed token is only good while its session is live
		userID, err := utils.SessionUserID(c.Request.Context(), rdb, claims.SessionID())
		if errors.Is(err, utils.ErrSessionNotFound) || (err == nil && userID != claims.UserID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired or revoked"})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": claims.UserID,
				"error":   err.Error(),
			}).Error("Session lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Set(ContextUserID, claims.UserID)         // Store userID in context
		c.Set(ContextSessionID, claims.SessionID()) // Store sessionID for logout
		c.Next()                                    // Proceed to the next handler
	}
}

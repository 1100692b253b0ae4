package api

import (
	"errors"                       // Error inspection
	"ledgerly/internal/db"         // Account persistence
	"ledgerly/internal/domain"     // Importing domain models
	"ledgerly/internal/middleware" // Context keys
	"ledgerly/internal/utils"      // Session and cache helpers
	"net/http"                     // HTTP status codes
	"strings"                      // String manipulation

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"golang.org/x/crypto/bcrypt"   // Password hashing
	"gorm.io/gorm"                 // GORM ORM library
)

// ProfileRequest is the body of PUT /user/profile
type ProfileRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// PasswordRequest is the body of PUT /user/password
type PasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=72"`
}

// sessionUser returns the user loaded by ActiveUserMiddleware
func sessionUser(c *gin.Context) *domain.User {
	return c.MustGet(middleware.ContextUser).(*domain.User)
}

// GetProfileHandler returns the caller's profile
func GetProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, sessionUser(c))
	}
}

// UpdateProfileHandler changes the caller's display name
func UpdateProfileHandler(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProfileRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, bindingMessage(err))
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			badRequest(c, "name is required")
			return
		}
		user := sessionUser(c)
		if err := gdb.WithContext(c.Request.Context()).Model(user).Update("name", name).Error; err != nil {
			internalError(c, "Failed to update profile", err, nil)
			return
		}
		user.Name = name
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
	}
}

// ChangePasswordHandler replaces the password and revokes every other session
func ChangePasswordHandler(gdb *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PasswordRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, bindingMessage(err))
			return
		}
		if len(req.NewPassword) > maxPasswordBytes {
			badRequest(c, "newPassword is too long")
			return
		}
		user := sessionUser(c)
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			badRequest(c, "Current password is incorrect")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			internalError(c, "Failed to hash password", err, nil)
			return
		}
		ctx := c.Request.Context()
		if err := gdb.WithContext(ctx).Model(user).Update("password", string(hash)).Error; err != nil {
			internalError(c, "Failed to update password", err, nil)
			return
		}
		if err := utils.DeleteUserSessions(ctx, rdb, user.ID, c.GetString(middleware.ContextSessionID)); err != nil {
			internalError(c, "Failed to revoke other sessions", err, nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
	}
}

// DeleteAccountHandler removes the caller and everything they own, then
// revokes all of their sessions.
func DeleteAccountHandler(gdb *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)
		ctx := c.Request.Context()
		err := db.DeleteAccount(ctx, gdb, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			internalError(c, "Failed to delete account", err, nil)
			return
		}

		// Session cleanup failures are only logged
		if err := utils.DeleteUserSessions(ctx, rdb, userID); err != nil {
			logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Failed to revoke sessions of deleted account")
		}
		invalidateCategories(ctx, rdb, userID)
		logrus.WithFields(logrus.Fields{"user_id": userID}).Info("Account deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
	}
}

package api

import (
	"errors"                       // Error inspection
	"ledgerly/internal/db"         // Account persistence
	"ledgerly/internal/domain"     // Importing domain models
	"ledgerly/internal/middleware" // Context keys
	"ledgerly/internal/utils"      // JWT and session utilities
	"net/http"                     // HTTP status codes
	"strings"                      // String manipulation
	"time"                         // Session lifetime

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"golang.org/x/crypto/bcrypt"   // Password hashing
	"gorm.io/gorm"                 // GORM ORM library
)

// maxPasswordBytes is the longest input bcrypt accepts
const maxPasswordBytes = 72

// RegisterRequest is the body of POST /register
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by a successful login
type AuthResponse struct {
	Token     string       `json:"token"`      // JWT token
	ExpiresAt time.Time    `json:"expires_at"` // Session expiry
	User      *domain.User `json:"user"`       // Logged in user
}

// normalizeEmail lower-cases and trims so lookups are case-insensitive
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterHandler creates a user together with its default categories
func RegisterHandler(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, bindingMessage(err))
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			badRequest(c, "name is required")
			return
		}
		if len(req.Password) > maxPasswordBytes {
			badRequest(c, "password is too long")
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			internalError(c, "Failed to hash password", err, nil)
			return
		}
		user := domain.User{Name: name, Email: normalizeEmail(req.Email), Password: string(hash)}
		if err := db.CreateAccount(c.Request.Context(), gdb, &user); err != nil {
			if db.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
				return
			}
			internalError(c, "Failed to register user", err, logrus.Fields{"email": user.Email})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID, // New user
		}).Info("User registered")
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "userId": user.ID})
	}
}

// LoginHandler verifies credentials, opens a session and returns its token
func LoginHandler(gdb *gorm.DB, rdb *redis.Client, jwtSecret string, sessionTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, bindingMessage(err))
			return
		}
		ctx := c.Request.Context()
		var user domain.User // Fetch user from database
		err := gdb.WithContext(ctx).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if err != nil {
			internalError(c, "Failed to log in", err, nil)
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		sessionID, err := utils.CreateSession(ctx, rdb, user.ID, sessionTTL)
		if err != nil {
			internalError(c, "Failed to create session", err, logrus.Fields{"login_user_id": user.ID})
			return
		}
		token, expiresAt, err := utils.GenerateJWT(user.ID, sessionID, jwtSecret, sessionTTL)
		if err != nil {
			_ = utils.DeleteSession(ctx, rdb, user.ID, sessionID)
			internalError(c, "Failed to generate token", err, logrus.Fields{"login_user_id": user.ID})
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token, ExpiresAt: expiresAt, User: &user})
	}
}

// LogoutHandler revokes the session the request was made with
func LogoutHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString(middleware.ContextSessionID)
		if err := utils.DeleteSession(c.Request.Context(), rdb, currentUserID(c), sessionID); err != nil {
			internalError(c, "Failed to log out", err, nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

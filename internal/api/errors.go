package api

import (
	"errors"                       // Error inspection
	"ledgerly/internal/middleware" // Context keys
	"net/http"                     // HTTP status codes
	"strings"                      // String manipulation

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/go-playground/validator/v10" // Binding validation errors
	"github.com/sirupsen/logrus"             // Logrus for structured logging
)

// currentUserID returns the acting user set by the auth middleware
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}

// badRequest answers 400 with a human readable message
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// internalError logs err with its context and answers 500 without detail
func internalError(c *gin.Context, msg string, err error, fields logrus.Fields) {
	entry := logrus.WithFields(fields).WithFields(logrus.Fields{
		"user_id": currentUserID(c),
		"path":    c.FullPath(),
		"error":   err.Error(),
	})
	entry.Error(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// bindingMessage turns a ShouldBindJSON error into a client facing message
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	field := fe.Field()
	if field != "" {
		field = strings.ToLower(field[:1]) + field[1:] // Matches the camelCase JSON names
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	case "hexcolor":
		return field + " must be a hex color such as #FF5733"
	default:
		return field + " is invalid"
	}
}

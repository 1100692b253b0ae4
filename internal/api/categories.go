package api

import (
	"context"                  // Context for Redis operations
	"errors"                   // Error inspection
	"ledgerly/internal/db"     // Duplicate key detection
	"ledgerly/internal/domain" // Importing domain models
	"ledgerly/internal/utils"  // Cache helpers
	"net/http"                 // HTTP status codes
	"strings"                  // String manipulation
	"time"                     // Cache TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/gorm"                 // GORM ORM library
)

// CategoryRequest is the body of POST and PUT /categories
type CategoryRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Type  string `json:"type" binding:"required"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

// validate normalises the request into a category for the given owner
func (r CategoryRequest) validate() (domain.Category, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return domain.Category{}, errors.New("name is required")
	}
	ct, err := domain.ParseCategoryType(r.Type)
	if err != nil {
		return domain.Category{}, err
	}
	color := r.Color
	if color == "" {
		color = domain.DefaultCategoryColor
	}
	return domain.Category{Name: name, Type: ct, Color: color}, nil
}

// loadCategories returns the user's categories, served from Redis when cached
func loadCategories(ctx context.Context, gdb *gorm.DB, rdb *redis.Client, ttl time.Duration, userID string) ([]domain.Category, error) {
	key := utils.CategoriesCacheKey(userID)
	categories := []domain.Category{}
	found, err := utils.GetCache(ctx, rdb, key, &categories)
	if err == nil && found {
		return categories, nil
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Category cache read failed")
		categories = []domain.Category{}
	}
	if err := gdb.WithContext(ctx).Where("user_id = ?", userID).Order("type, name").Find(&categories).Error; err != nil {
		return nil, err
	}
	if err := utils.SetCache(ctx, rdb, key, categories, ttl); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Category cache write failed")
	}
	return categories, nil
}

// invalidateCategories drops the cached category list after a mutation
func invalidateCategories(ctx context.Context, rdb *redis.Client, userID string) {
	if err := utils.DeleteCache(ctx, rdb, utils.CategoriesCacheKey(userID)); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Category cache invalidation failed")
	}
}

// ListCategoriesHandler returns the caller's categories, optionally filtered by ?type=
func ListCategoriesHandler(gdb *gorm.DB, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter domain.CategoryType
		if raw, ok := c.GetQuery("type"); ok {
			ct, err := domain.ParseCategoryType(raw)
			if err != nil {
				badRequest(c, err.Error())
				return
			}
			filter = ct
		}
		categories, err := loadCategories(c.Request.Context(), gdb, rdb, ttl, currentUserID(c))
		if err != nil {
			internalError(c, "Failed to fetch categories", err, nil)
			return
		}
		if filter != "" {
			filtered := make([]domain.Category, 0, len(categories))
			for _, cat := range categories {
				if cat.Type == filter {
					filtered = append(filtered, cat)
				}
			}
			categories = filtered
		}
		c.JSON(http.StatusOK, categories)
	}
}

// CreateCategoryHandler adds a category; (name, type) is unique per user
func CreateCategoryHandler(gdb *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, bindingMessage(err))
			return
		}
		category, err := req.validate()
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		userID := currentUserID(c)
		category.UserID = userID
		ctx := c.Request.Context()
		if err := gdb.WithContext(ctx).Create(&category).Error; err != nil {
			if db.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "Category with this name and type already exists"})
				return
			}
			internalError(c, "Failed to create category", err, nil)
			return
		}
		invalidateCategories(ctx, rdb, userID)
		c.JSON(http.StatusCreated, category)
	}
}

// UpdateCategoryHandler replaces name, type and color of an owned category
func UpdateCategoryHandler(gdb *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, bindingMessage(err))
			return
		}
		update, err := req.validate()
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		userID := currentUserID(c)
		ctx := c.Request.Context()

		var category domain.Category
		err = gdb.WithContext(ctx).Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&category).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		if err != nil {
			internalError(c, "Failed to update category", err, logrus.Fields{"category_id": c.Param("id")})
			return
		}

		if update.Type != category.Type {
			kind := domain.KindOf(category.Type)
			var inUse int64
			err := gdb.WithContext(ctx).Table(kind.Table).
				Where("user_id = ? AND category_id = ?", userID, category.ID).
				Limit(1).Count(&inUse).Error
			if err != nil {
				internalError(c, "Failed to update category", err, logrus.Fields{"category_id": category.ID})
				return
			}
			if inUse > 0 {
				c.JSON(http.StatusConflict, gin.H{"error": "Category type cannot change while " + kind.Singular + " entries use it"})
				return
			}
		}

		category.Name, category.Type, category.Color = update.Name, update.Type, update.Color
		if err := gdb.WithContext(ctx).Save(&category).Error; err != nil {
			if db.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "Category with this name and type already exists"})
				return
			}
			internalError(c, "Failed to update category", err, logrus.Fields{"category_id": category.ID})
			return
		}
		invalidateCategories(ctx, rdb, userID)
		c.JSON(http.StatusOK, gin.H{"message": "Category updated successfully", "category": category})
	}
}

// DeleteCategoryHandler removes an owned category. Entries keep their dangling reference.
func DeleteCategoryHandler(gdb *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)
		ctx := c.Request.Context()
		res := gdb.WithContext(ctx).Where("id = ? AND user_id = ?", c.Param("id"), userID).Delete(&domain.Category{})
		if res.Error != nil {
			internalError(c, "Failed to delete category", res.Error, logrus.Fields{"category_id": c.Param("id")})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		invalidateCategories(ctx, rdb, userID)
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}

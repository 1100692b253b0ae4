package api

import (
	"context"                  // Request scoped queries
	"encoding/json"            // Raw amount decoding
	"errors"                   // Error inspection
	"ledgerly/internal/domain" // Importing domain models
	"net/http"                 // HTTP status codes
	"strings"                  // String manipulation
	"time"                     // Timestamps and cache TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/gorm"                 // GORM ORM library
)

// EntryRequest is the body of POST and PUT on /expenses and /income.
// Amount may be a JSON number or a numeric string.
type EntryRequest struct {
	Name        *string         `json:"name"`
	Amount      json.RawMessage `json:"amount"`
	Category    *string         `json:"category"` // Category id, or name of an owned category
	Date        string          `json:"date"`
	Description *string         `json:"description"`
}

// amount decodes and validates the raw amount
func (r EntryRequest) amount() (float64, error) {
	raw := strings.TrimSpace(string(r.Amount))
	if raw == "" || raw == "null" {
		return 0, domain.ErrAmountRequired
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(r.Amount, &s); err != nil {
			return 0, domain.ErrInvalidAmount
		}
		return domain.ParseAmount(s)
	}
	return domain.ParseAmount(raw)
}

func (r EntryRequest) category() string {
	if r.Category == nil {
		return ""
	}
	return strings.TrimSpace(*r.Category)
}

func (r EntryRequest) description() string {
	if r.Description == nil {
		return ""
	}
	return strings.TrimSpace(*r.Description)
}

// resolveCategoryID checks that ref names an owned category of the kind's type
func resolveCategoryID(ctx context.Context, gdb *gorm.DB, kind domain.Kind, userID, ref string) (*string, error) {
	var category domain.Category
	err := gdb.WithContext(ctx).
		Where("user_id = ? AND type = ? AND (id = ? OR name = ?)", userID, kind.CategoryType, ref, ref).
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvalidCategory
	}
	if err != nil {
		return nil, err
	}
	return &category.ID, nil
}

// categoryNames maps the user's category ids to names
func categoryNames(categories []domain.Category) map[string]string {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}

// resolveEntries fills the display category of every entry
func resolveEntries(ctx context.Context, gdb *gorm.DB, rdb *redis.Client, ttl time.Duration, userID string, entries ...*domain.Entry) error {
	categories, err := loadCategories(ctx, gdb, rdb, ttl, userID)
	if err != nil {
		return err
	}
	names := categoryNames(categories)
	for _, e := range entries {
		e.ResolveCategory(names)
	}
	return nil
}

// findOwnedEntry loads one entry of kind owned by the user
func findOwnedEntry(ctx context.Context, gdb *gorm.DB, kind domain.Kind, userID, id string) (domain.Entry, error) {
	var entry domain.Entry
	err := gdb.WithContext(ctx).Table(kind.Table).Where("id = ? AND user_id = ?", id, userID).First(&entry).Error
	return entry, err
}

// ListEntriesHandler returns the caller's entries of kind, newest first
func ListEntriesHandler(gdb *gorm.DB, rdb *redis.Client, ttl time.Duration, kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)
		ctx := c.Request.Context()
		entries := []domain.Entry{}
		err := gdb.WithContext(ctx).Table(kind.Table).
			Where("user_id = ?", userID).
			Order("date desc, created_at desc").
			Find(&entries).Error
		if err != nil {
			internalError(c, "Failed to fetch "+kind.Table, err, nil)
			return
		}
		ptrs := make([]*domain.Entry, len(entries))
		for i := range entries {
			ptrs[i] = &entries[i]
		}
		if err := resolveEntries(ctx, gdb, rdb, ttl, userID, ptrs...); err != nil {
			internalError(c, "Failed to fetch "+kind.Table, err, nil)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// GetEntryHandler returns one owned entry
func GetEntryHandler(gdb *gorm.DB, rdb *redis.Client, ttl time.Duration, kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)
		ctx := c.Request.Context()
		entry, err := findOwnedEntry(ctx, gdb, kind, userID, c.Param("id"))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": kind.Title + " not found"})
			return
		}
		if err == nil {
			err = resolveEntries(ctx, gdb, rdb, ttl, userID, &entry)
		}
		if err != nil {
			internalError(c, "Failed to fetch "+kind.Singular, err, logrus.Fields{"entry_id": c.Param("id")})
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

// CreateEntryHandler records a new entry of kind
func CreateEntryHandler(gdb *gorm.DB, rdb *redis.Client, ttl time.Duration, kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req EntryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, bindingMessage(err))
			return
		}
		name := ""
		if req.Name != nil {
			name = strings.TrimSpace(*req.Name)
		}
		if name == "" {
			badRequest(c, "name is required")
			return
		}
		amount, err := req.amount()
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		date, err := domain.ParseDate(req.Date)
		if err != nil {
			badRequest(c, err.Error())
			return
		}

		userID := currentUserID(c)
		ctx := c.Request.Context()
		entry := domain.Entry{
			UserID:      userID,
			Name:        name,
			Amount:      amount,
			Description: req.description(),
			Date:        date,
		}
		if ref := req.category(); ref != "" {
			id, err := resolveCategoryID(ctx, gdb, kind, userID, ref)
			if errors.Is(err, domain.ErrInvalidCategory) {
				badRequest(c, "category must be one of your "+string(kind.CategoryType)+" categories")
				return
			}
			if err != nil {
				internalError(c, "Failed to create "+kind.Singular, err, nil)
				return
			}
			entry.CategoryID = id
		}

		if err := gdb.WithContext(ctx).Table(kind.Table).Create(&entry).Error; err != nil {
			internalError(c, "Failed to create "+kind.Singular, err, nil)
			return
		}
		if err := resolveEntries(ctx, gdb, rdb, ttl, userID, &entry); err != nil {
			internalError(c, "Failed to create "+kind.Singular, err, logrus.Fields{"entry_id": entry.ID})
			return
		}
		c.JSON(http.StatusCreated, entry)
	}
}

// UpdateEntryHandler replaces amount, category, date and description of an
// owned entry. The name is only replaced when supplied.
func UpdateEntryHandler(gdb *gorm.DB, rdb *redis.Client, ttl time.Duration, kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req EntryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, bindingMessage(err))
			return
		}
		amount, err := req.amount()
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		ref := req.category()
		if ref == "" {
			badRequest(c, "category is required")
			return
		}
		date, err := domain.ParseDate(req.Date)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
			badRequest(c, "name cannot be empty")
			return
		}

		userID := currentUserID(c)
		ctx := c.Request.Context()
		entry, err := findOwnedEntry(ctx, gdb, kind, userID, c.Param("id"))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": kind.Title + " not found"})
			return
		}
		if err != nil {
			internalError(c, "Failed to update "+kind.Singular, err, logrus.Fields{"entry_id": c.Param("id")})
			return
		}
		categoryID, err := resolveCategoryID(ctx, gdb, kind, userID, ref)
		if errors.Is(err, domain.ErrInvalidCategory) {
			badRequest(c, "category must be one of your "+string(kind.CategoryType)+" categories")
			return
		}
		if err != nil {
			internalError(c, "Failed to update "+kind.Singular, err, logrus.Fields{"entry_id": entry.ID})
			return
		}

		if req.Name != nil {
			entry.Name = strings.TrimSpace(*req.Name)
		}
		entry.Amount = amount
		entry.CategoryID = categoryID
		entry.Date = date
		entry.Description = req.description()
		entry.UpdatedAt = time.Now()

		err = gdb.WithContext(ctx).Table(kind.Table).
			Where("id = ? AND user_id = ?", entry.ID, userID).
			Updates(map[string]any{
				"name":        entry.Name,
				"amount":      entry.Amount,
				"category_id": entry.CategoryID,
				"date":        entry.Date,
				"description": entry.Description,
				"updated_at":  entry.UpdatedAt,
			}).Error
		if err == nil {
			err = resolveEntries(ctx, gdb, rdb, ttl, userID, &entry)
		}
		if err != nil {
			internalError(c, "Failed to update "+kind.Singular, err, logrus.Fields{"entry_id": entry.ID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": kind.Title + " updated successfully", kind.Singular: entry})
	}
}

// DeleteEntryHandler removes one owned entry
func DeleteEntryHandler(gdb *gorm.DB, kind domain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := gdb.WithContext(c.Request.Context()).Table(kind.Table).
			Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).
			Delete(&domain.Entry{})
		if res.Error != nil {
			internalError(c, "Failed to delete "+kind.Singular, res.Error, logrus.Fields{"entry_id": c.Param("id")})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": kind.Title + " not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": kind.Title + " deleted successfully"})
	}
}

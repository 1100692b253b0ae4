package api

import (
	"bytes"                    // Export buffering
	"context"                  // Request scoped queries
	"ledgerly/internal/domain" // Importing domain models
	"ledgerly/internal/report" // Aggregation and export
	"net/http"                 // HTTP status codes
	"strings"                  // String manipulation
	"time"                     // Report clock and cache TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"golang.org/x/sync/errgroup"   // Concurrent loads
	"gorm.io/gorm"                 // GORM ORM library
)

// dataset is everything a report is computed from
type dataset struct {
	expenses   []report.Item
	incomes    []report.Item
	categories []domain.Category
}

// loadDataset fetches expenses, income and categories concurrently. Any
// failure fails the whole load.
func loadDataset(ctx context.Context, gdb *gorm.DB, rdb *redis.Client, ttl time.Duration, userID string) (*dataset, error) {
	var expenses, incomes []domain.Entry
	var categories []domain.Category

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return gdb.WithContext(gctx).Table(domain.ExpenseKind.Table).
			Where("user_id = ?", userID).Order("date desc").Find(&expenses).Error
	})
	g.Go(func() error {
		return gdb.WithContext(gctx).Table(domain.IncomeKind.Table).
			Where("user_id = ?", userID).Order("date desc").Find(&incomes).Error
	})
	g.Go(func() error {
		var err error
		categories, err = loadCategories(gctx, gdb, rdb, ttl, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := categoryNames(categories)
	return &dataset{
		expenses:   toItems(expenses, report.TypeExpense, names),
		incomes:    toItems(incomes, report.TypeIncome, names),
		categories: categories,
	}, nil
}

func toItems(entries []domain.Entry, typ string, names map[string]string) []report.Item {
	items := make([]report.Item, 0, len(entries))
	for _, e := range entries {
		e.ResolveCategory(names)
		item := report.Item{
			ID:          e.ID,
			Type:        typ,
			Name:        e.Name,
			Category:    e.Category,
			Description: e.Description,
			Amount:      e.Amount,
			Date:        e.Date.UTC(),
		}
		if e.CategoryID != nil {
			item.CategoryID = *e.CategoryID
		}
		items = append(items, item)
	}
	return items
}

// windowFromQuery reads range, from, to and category
func windowFromQuery(c *gin.Context, now time.Time) (report.Window, error) {
	return report.ParseWindow(
		c.DefaultQuery("range", report.DefaultRange),
		c.Query("from"),
		c.Query("to"),
		c.DefaultQuery("category", report.CategoryAll),
		now,
	)
}

// DashboardHandler returns totals, the latest entries and the trailing monthly series
func DashboardHandler(gdb *gorm.DB, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := loadDataset(c.Request.Context(), gdb, rdb, ttl, currentUserID(c))
		if err != nil {
			internalError(c, "Failed to load dashboard", err, nil)
			return
		}
		c.JSON(http.StatusOK, report.BuildDashboard(data.expenses, data.incomes, time.Now()))
	}
}

// ReportHandler aggregates the caller's entries over the requested window
func ReportHandler(gdb *gorm.DB, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		window, err := windowFromQuery(c, time.Now())
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		data, err := loadDataset(c.Request.Context(), gdb, rdb, ttl, currentUserID(c))
		if err != nil {
			internalError(c, "Failed to load report", err, nil)
			return
		}
		c.JSON(http.StatusOK, report.Build(data.expenses, data.incomes, window))
	}
}

// ExportHandler serves the report window as a CSV or PDF attachment
func ExportHandler(gdb *gorm.DB, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		format := strings.ToLower(c.DefaultQuery("format", report.FormatCSV))
		if format != report.FormatCSV && format != report.FormatPDF {
			badRequest(c, "format must be csv or pdf")
			return
		}
		now := time.Now()
		window, err := windowFromQuery(c, now)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		data, err := loadDataset(c.Request.Context(), gdb, rdb, ttl, currentUserID(c))
		if err != nil {
			internalError(c, "Failed to load report", err, nil)
			return
		}
		r := report.Build(data.expenses, data.incomes, window)

		var buf bytes.Buffer
		contentType := "text/csv; charset=utf-8"
		if format == report.FormatPDF {
			if r.Empty() {
				c.JSON(http.StatusNotFound, gin.H{"error": "No transactions found for the selected filters"})
				return
			}
			contentType = "application/pdf"
			err = report.WritePDF(&buf, r, categoryLabel(window, data.categories), now)
		} else {
			err = report.WriteCSV(&buf, r)
		}
		if err != nil {
			internalError(c, "Failed to export report", err, nil)
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+report.Filename(format, now))
		c.Data(http.StatusOK, contentType, buf.Bytes())
	}
}

// categoryLabel names the expense filter of the window
func categoryLabel(w report.Window, categories []domain.Category) string {
	if w.CategoryID == "" {
		return "All Categories"
	}
	for _, cat := range categories {
		if cat.ID == w.CategoryID {
			return cat.Name
		}
	}
	return domain.CategoryLabelDeleted
}

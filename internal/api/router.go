package api

import (
	"ledgerly/internal/config"     // Custom package for configuration
	"ledgerly/internal/domain"     // Entry kinds
	"ledgerly/internal/middleware" // Custom package for middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// SetupRouter wires every route onto a new gin engine
func SetupRouter(gdb *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.GET("/healthz", HealthHandler(gdb, rdb)) // Liveness and dependency check

	// Auth routes
	r.POST("/register", RegisterHandler(gdb))                               // Registration endpoint
	r.POST("/login", LoginHandler(gdb, rdb, cfg.JWTSecret, cfg.SessionTTL)) // Login endpoint

	// Everything below requires a live session of an existing user
	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret, rdb), middleware.ActiveUserMiddleware(gdb))
	auth.POST("/logout", LogoutHandler(rdb))

	categories := auth.Group("/categories")
	categories.GET("", ListCategoriesHandler(gdb, rdb, cfg.CacheTTL))
	categories.POST("", CreateCategoryHandler(gdb, rdb))
	categories.PUT("/:id", UpdateCategoryHandler(gdb, rdb))
	categories.DELETE("/:id", DeleteCategoryHandler(gdb, rdb))

	for _, kind := range []domain.Kind{domain.ExpenseKind, domain.IncomeKind} {
		g := auth.Group("/" + kind.Table)
		g.GET("", ListEntriesHandler(gdb, rdb, cfg.CacheTTL, kind))
		g.POST("", CreateEntryHandler(gdb, rdb, cfg.CacheTTL, kind))
		g.GET("/:id", GetEntryHandler(gdb, rdb, cfg.CacheTTL, kind))
		g.PUT("/:id", UpdateEntryHandler(gdb, rdb, cfg.CacheTTL, kind))
		g.DELETE("/:id", DeleteEntryHandler(gdb, kind))
	}

	user := auth.Group("/user")
	user.GET("/profile", GetProfileHandler())
	user.PUT("/profile", UpdateProfileHandler(gdb))
	user.PUT("/password", ChangePasswordHandler(gdb, rdb))
	user.DELETE("/delete", DeleteAccountHandler(gdb, rdb))

	auth.GET("/dashboard", DashboardHandler(gdb, rdb, cfg.CacheTTL))
	auth.GET("/reports", ReportHandler(gdb, rdb, cfg.CacheTTL))
	auth.GET("/reports/export", ExportHandler(gdb, rdb, cfg.CacheTTL))

	return r
}

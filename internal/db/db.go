package db

import (
	"errors"                   // Error inspection
	"ledgerly/internal/config" // Custom import path (Config)
	"strings"                  // Driver message matching
	"time"                     // Slow query threshold

	"github.com/glebarez/sqlite" // Pure Go SQLite driver for GORM
	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/driver/postgres"    // PostgreSQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger interface
)

// Open connects to the configured database and bounds its connection pool
func Open(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.DSN()

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		dialector = mysql.Open(dsn)
	}

	gormLogger := logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond, // Warn on slow queries
		LogLevel:                  logger.Warn,            // Only warnings and errors
		IgnoreRecordNotFoundError: true,                   // Not-found is a normal outcome
	})

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	maxOpen, maxIdle := cfg.DBMaxOpenConns, min(cfg.DBMaxIdleConns, cfg.DBMaxOpenConns)
	lifetime := cfg.DBConnMaxLifetime
	if cfg.DBDriver == config.DriverSQLite && strings.Contains(dsn, ":memory:") {
		// Every connection to :memory: is a separate database, so keep exactly one forever
		maxOpen, maxIdle, lifetime = 1, 1, 0
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(lifetime)
	return db, nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsDuplicateKey reports whether err is a unique constraint violation on any supported driver
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "Duplicate entry") || // MySQL
		strings.Contains(msg, "duplicate key value") || // PostgreSQL
		strings.Contains(msg, "SQLSTATE 23505")
}

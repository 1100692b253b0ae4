package main

import (
	"fmt"                      // Error wrapping
	"ledgerly/internal/config" // Custom import path (Config)
	"ledgerly/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	cfg.ConfigureLogger()

	if err := run(cfg); err != nil {
		logrus.Fatal(err)
	}
	logrus.Info("Migration completed")
}

// run migrates the configured database and closes the pool before returning
func run(cfg *config.Config) (err error) {
	gdb, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to DB: %w", err)
	}
	defer func() {
		if cerr := db.Close(gdb); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close DB: %w", cerr)
		}
	}()

	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

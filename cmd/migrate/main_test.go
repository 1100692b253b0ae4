package main

import (
	"ledgerly/internal/config"
	"ledgerly/internal/db"
	"ledgerly/internal/domain"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(path string) *config.Config {
	return &config.Config{
		DBDriver:       config.DriverSQLite,
		DBName:         path,
		DBMaxOpenConns: 1,
		DBMaxIdleConns: 1,
	}
}

func TestRun_CreatesTables(t *testing.T) {
	cfg := sqliteConfig(filepath.Join(t.TempDir(), "ledgerly.db"))
	require.NoError(t, run(cfg))
	require.NoError(t, run(cfg), "migrating twice is a no-op")

	gdb, err := db.Open(cfg)
	require.NoError(t, err)
	defer db.Close(gdb)
	for _, model := range []any{&domain.User{}, &domain.Category{}, &domain.Expense{}, &domain.Income{}} {
		assert.True(t, gdb.Migrator().HasTable(model))
	}
}

func TestRun_OpenFailure(t *testing.T) {
	cfg := sqliteConfig(filepath.Join(t.TempDir(), "missing", "ledgerly.db"))
	err := run(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to DB")
}

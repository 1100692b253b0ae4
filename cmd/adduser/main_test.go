package main

import (
	"bytes"
	"ledgerly/internal/config"
	"ledgerly/internal/db"
	"ledgerly/internal/domain"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteArgs(t *testing.T, extra ...string) []string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "ledgerly.db")
	return append([]string{"-driver", "sqlite", "-dsn", dbPath}, extra...)
}

func TestRun_Success(t *testing.T) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	args := sqliteArgs(t, "-email", "Alice@Example.com", "-name", "Alice", "-password", "secret1")
	err := run(args, new(bytes.Buffer), stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "User alice@example.com created successfully")
}

func TestRun_DuplicateUser(t *testing.T) {
	args := sqliteArgs(t, "-email", "alice@example.com", "-password", "secret1")

	err := run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.NoError(t, err, "first run should succeed")

	err = run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRun_PromptsForPassword(t *testing.T) {
	stdout := new(bytes.Buffer)
	stdin := strings.NewReader("secret1\n")

	err := run(sqliteArgs(t, "-email", "bob@example.com"), stdin, stdout, new(bytes.Buffer))
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Password: ")
	assert.Contains(t, stdout.String(), "User bob@example.com created successfully")
}

func TestRun_Validation(t *testing.T) {
	err := run(sqliteArgs(t), new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	assert.ErrorContains(t, err, "email")

	for _, bad := range []string{"@example.com", "bob@", "bob"} {
		err = run(sqliteArgs(t, "-email", bad, "-password", "secret1"), new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
		assert.ErrorContains(t, err, "invalid required flag: email", bad)
	}

	err = run(sqliteArgs(t, "-email", "bob@example.com", "-password", "abc"), new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	assert.ErrorContains(t, err, "at least 6 characters")

	err = run(sqliteArgs(t, "-email", "bob@example.com"), new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	assert.ErrorContains(t, err, "failed to read password")
}

func TestRun_DerivesNameFromEmail(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledgerly.db")
	args := []string{"-driver", "sqlite", "-dsn", dbPath, "-email", "carol@example.com", "-password", "secret1"}
	require.NoError(t, run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)))

	gdb, err := db.Open(&config.Config{DBDriver: config.DriverSQLite, DBName: dbPath, DBMaxOpenConns: 1, DBMaxIdleConns: 1})
	require.NoError(t, err)
	defer db.Close(gdb)

	var user domain.User
	require.NoError(t, gdb.Where("email = ?", "carol@example.com").First(&user).Error)
	assert.Equal(t, "carol", user.Name)
}

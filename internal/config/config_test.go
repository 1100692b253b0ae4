package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		AppPort:        "8080",
		DBDriver:       DriverMySQL,
		DBName:         "ledgerly",
		DBMaxOpenConns: 10,
		DBMaxIdleConns: 5,
		JWTSecret:      "secret",
		SessionTTL:     24 * time.Hour,
		RedisAddr:      "127.0.0.1:6379",
		CacheTTL:       time.Minute,
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "DB_DRIVER", "DB_URL", "DB_NAME", "DB_MAX_OPEN_CONNS", "SESSION_TTL", "CACHE_TTL"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, "ledgerly", cfg.DBName)
	assert.Equal(t, 10, cfg.DBMaxOpenConns)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_MAX_OPEN_CONNS", "3")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("IS_PROD", "true")

	cfg := LoadConfig()
	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 3, cfg.DBMaxOpenConns)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 0, cfg.RedisDB, "invalid ints fall back to the default")
	assert.True(t, cfg.IsProd)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "non numeric port", mutate: func(c *Config) { c.AppPort = "http" }, wantErr: "must be a number"},
		{name: "port out of range", mutate: func(c *Config) { c.AppPort = "70000" }, wantErr: "between 1 and 65535"},
		{name: "unknown driver", mutate: func(c *Config) { c.DBDriver = "mongo" }, wantErr: "invalid DB_DRIVER"},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET is required"},
		{name: "short prod secret", mutate: func(c *Config) { c.IsProd = true }, wantErr: "at least 32 characters"},
		{name: "empty pool", mutate: func(c *Config) { c.DBMaxOpenConns = 0; c.DBMaxIdleConns = 0 }, wantErr: "DB_MAX_OPEN_CONNS"},
		{name: "idle above open", mutate: func(c *Config) { c.DBMaxIdleConns = 20 }, wantErr: "DB_MAX_IDLE_CONNS"},
		{name: "short session", mutate: func(c *Config) { c.SessionTTL = time.Second }, wantErr: "SESSION_TTL"},
		{name: "no db name", mutate: func(c *Config) { c.DBName = "" }, wantErr: "DB_NAME is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.AppPort = "x"
	cfg.JWTSecret = ""
	cfg.RedisAddr = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, 3, strings.Count(err.Error(), "\n- "))
}

func TestDSN(t *testing.T) {
	cfg := validConfig()
	cfg.DBUser = "app"
	cfg.DBPassword = "pw"
	cfg.DBHost = "db"
	cfg.DBConnectTimeout = 10 * time.Second

	assert.Equal(t, "app:pw@tcp(db:3306)/ledgerly?parseTime=true&charset=utf8mb4&loc=UTC&timeout=10s", cfg.DSN())

	cfg.DBDriver = DriverPostgres
	assert.Equal(t, "postgres://app:pw@db:5432/ledgerly?sslmode=disable&connect_timeout=10", cfg.DSN())

	cfg.DBDriver = DriverSQLite
	cfg.DBName = ":memory:"
	assert.Equal(t, ":memory:", cfg.DSN())

	cfg.DBURL = "postgres://explicit"
	assert.Equal(t, "postgres://explicit", cfg.DSN())
}

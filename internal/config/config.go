package config

import (
	"fmt"     // Error formatting
	"net/url" // Escaping credentials in connection strings
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // Joining validation errors
	"time"    // Durations for TTLs and timeouts

	"github.com/joho/godotenv" // For loading .env files
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the application configuration
type Config struct {
	AppPort string // Application port

	DBDriver          string        // Database driver: mysql, postgres or sqlite
	DBURL             string        // Full connection string, overrides the parts below
	DBUser            string        // Database user
	DBPassword        string        // Database password
	DBHost            string        // Database host
	DBPort            string        // Database port
	DBName            string        // Database name (file path for sqlite)
	DBMaxOpenConns    int           // Upper bound of the connection pool
	DBMaxIdleConns    int           // Idle connections kept in the pool
	DBConnMaxLifetime time.Duration // Maximum lifetime of a pooled connection
	DBConnectTimeout  time.Duration // Dial timeout for the database

	JWTSecret  string        // JWT secret key
	SessionTTL time.Duration // Lifetime of a login session

	RedisAddr string        // Redis server address
	RedisPass string        // Redis password
	RedisDB   int           // Redis database number
	CacheTTL  time.Duration // TTL of cached category lists

	LogLevel string // logrus level name
	IsProd   bool   // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort: getEnv("APP_PORT", "8080"),

		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
		DBURL:             os.Getenv("DB_URL"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBHost:            getEnv("DB_HOST", "127.0.0.1"),
		DBPort:            os.Getenv("DB_PORT"),
		DBName:            getEnv("DB_NAME", "ledgerly"),
		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		DBConnectTimeout:  getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		SessionTTL: getEnvDuration("SESSION_TTL", 24*time.Hour),

		RedisAddr: getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass: os.Getenv("REDIS_PASS"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		CacheTTL:  getEnvDuration("CACHE_TTL", 60*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		IsProd:   os.Getenv("IS_PROD") == "true", // Is production environment
	}
}

// Validate reports every configuration problem at once
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.AppPort); err != nil {
		errs = append(errs, fmt.Sprintf("invalid APP_PORT '%s': must be a number", c.AppPort))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid APP_PORT %d: must be between 1 and 65535", port))
	}

	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Sprintf("invalid DB_DRIVER '%s': must be one of mysql, postgres, sqlite", c.DBDriver))
	}
	if c.DBURL == "" && c.DBName == "" {
		errs = append(errs, "DB_NAME is required when DB_URL is not set")
	}
	if c.DBMaxOpenConns < 1 {
		errs = append(errs, fmt.Sprintf("invalid DB_MAX_OPEN_CONNS %d: must be at least 1", c.DBMaxOpenConns))
	}
	if c.DBMaxIdleConns < 0 || c.DBMaxIdleConns > c.DBMaxOpenConns {
		errs = append(errs, fmt.Sprintf("invalid DB_MAX_IDLE_CONNS %d: must be between 0 and DB_MAX_OPEN_CONNS", c.DBMaxIdleConns))
	}

	if c.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	} else if c.IsProd && len(c.JWTSecret) < 32 {
		errs = append(errs, "JWT_SECRET must be at least 32 characters in production")
	}
	if c.SessionTTL < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid SESSION_TTL %v: must be at least 1 minute", c.SessionTTL))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, fmt.Sprintf("invalid CACHE_TTL %v: must be positive", c.CacheTTL))
	}
	if c.RedisAddr == "" {
		errs = append(errs, "REDIS_ADDR is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// DSN returns the driver-specific Data Source Name
func (c *Config) DSN() string {
	if c.DBURL != "" {
		return c.DBURL // Explicit connection string wins
	}
	switch c.DBDriver {
	case DriverPostgres:
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.DBUser, c.DBPassword),
			Host:     c.DBHost + ":" + port,
			Path:     "/" + c.DBName,
			RawQuery: "sslmode=disable&connect_timeout=" + strconv.Itoa(int(c.DBConnectTimeout.Seconds())),
		}
		return u.String()
	case DriverSQLite:
		return c.DBName // File path, or ":memory:"
	default:
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + port + ")/" + c.DBName +
			"?parseTime=true&charset=utf8mb4&loc=UTC&timeout=" + c.DBConnectTimeout.String()
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

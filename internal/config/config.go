package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server       ServerConfig
	Store        StoreConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	RateLimit    RateLimitConfig
	Verification VerificationConfig
	Retention    RetentionConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port                 string
	Env                  string
	ServiceName          string
	Version              string
	EnableDebugEndpoints bool
	BodyLimitBytes       int64
	CORSAllowedOrigins   []string
	// TrustedProxies lists proxy CIDRs/IPs whose X-Forwarded-For is honoured.
	// Empty means the client address is always the socket peer.
	TrustedProxies []string
	LogLevel       string
}

// IsDevelopment reports whether the server runs in development mode
func (c ServerConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// DebugEndpointsEnabled reports whether /debug routes should be mounted.
// They are only ever exposed in development.
func (c ServerConfig) DebugEndpointsEnabled() bool {
	return c.IsDevelopment() && c.EnableDebugEndpoints
}

// Store drivers
const (
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// StoreConfig selects the code store / verification log implementation
type StoreConfig struct {
	Driver            string
	SQLitePath        string
	SeedDemoCodes     bool
	MemoryLogCapacity int
}

// DatabaseConfig holds postgres configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// Rate limit backends
const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

// RateLimitConfig holds the verify route rate limit
type RateLimitConfig struct {
	Backend     string
	Window      time.Duration
	MaxRequests int
}

// VerificationConfig holds input bounds for verification requests
type VerificationConfig struct {
	MaxCodeLength     int
	MaxDeviceIDLength int
}

// RetentionConfig controls the verification log sweep
type RetentionConfig struct {
	LogRetentionDays int
	SweepInterval    time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                 getEnv("PORT", getEnv("SERVER_PORT", "3000")),
			Env:                  getEnv("SERVER_ENV", "development"),
			ServiceName:          getEnv("SERVICE_NAME", "activation-service-simple"),
			Version:              getEnv("SERVICE_VERSION", "1.0.0"),
			EnableDebugEndpoints: getEnvAsBool("ENABLE_DEBUG_ENDPOINTS", false),
			BodyLimitBytes:       int64(getEnvAsInt("BODY_LIMIT_BYTES", 1<<20)),
			CORSAllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS"),
			TrustedProxies:       getEnvAsList("TRUSTED_PROXIES"),
			LogLevel:             strings.ToLower(getEnv("LOG_LEVEL", "")),
		},
		Store: StoreConfig{
			Driver:            strings.ToLower(getEnv("STORE_DRIVER", StoreDriverSQLite)),
			SQLitePath:        getEnv("SQLITE_PATH", "data/activation.db"),
			SeedDemoCodes:     getEnvAsBool("SEED_DEMO_CODES", true),
			MemoryLogCapacity: getEnvAsInt("MEMORY_LOG_CAPACITY", 0),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "activation"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		RateLimit: RateLimitConfig{
			Backend:     strings.ToLower(getEnv("RATE_LIMIT_BACKEND", RateLimitBackendMemory)),
			Window:      getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
			MaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 30),
		},
		Verification: VerificationConfig{
			MaxCodeLength:     getEnvAsInt("VERIFY_MAX_CODE_LENGTH", 50),
			MaxDeviceIDLength: getEnvAsInt("VERIFY_MAX_DEVICE_ID_LENGTH", 200),
		},
		Retention: RetentionConfig{
			LogRetentionDays: getEnvAsInt("LOG_RETENTION_DAYS", 30),
			SweepInterval:    getEnvAsDuration("LOG_SWEEP_INTERVAL", 24*time.Hour),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

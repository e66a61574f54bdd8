package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Inventory InventoryConfig
	Alerts    AlertConfig
	Admin     AdminConfig
}

type ServerConfig struct {
	Port    string
	AppName string
}

// DatabaseConfig describes how to reach the relational store.
// Driver is "postgres" (default) or "sqlite".
type DatabaseConfig struct {
	Driver   string
	DSN      string // Full DSN, takes precedence over the discrete fields below
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
	TimeZone string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
	LogLevel        string // silent, error, warn, info
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// RedisConfig enables the POS catalog cache when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type InventoryConfig struct {
	LowStockThreshold int
}

// AlertConfig holds the cron spec of the low-stock alert job. Empty disables it.
type AlertConfig struct {
	Cron string
}

// AdminConfig is the account seeded on first start.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

// Load reads .env (if present) and the process environment into a Config.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	return Config{
		Server: ServerConfig{
			Port:    GetEnv("PORT", "3000"),
			AppName: GetEnv("APP_NAME", "Supermarket POS v1.0"),
		},
		Database: DatabaseConfig{
			Driver:          GetEnv("DB_DRIVER", "postgres"),
			DSN:             GetEnv("DATABASE_URL", ""),
			Host:            GetEnv("DB_HOST", "localhost"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", ""),
			Name:            GetEnv("DB_NAME", "supermarket_db"),
			Port:            GetEnv("DB_PORT", "5432"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			TimeZone:        GetEnv("DB_TIMEZONE", "UTC"),
			MaxIdleConns:    GetEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			SlowThreshold:   GetEnvAsDuration("DB_SLOW_THRESHOLD", time.Second),
			LogLevel:        GetEnv("DB_LOG_LEVEL", "warn"),
		},
		JWT: JWTConfig{
			Secret: GetEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
			TTL:    GetEnvAsDuration("JWT_TTL", 24*time.Hour),
			Issuer: GetEnv("JWT_ISSUER", "go-supermarket-pos"),
		},
		Redis: RedisConfig{
			Addr:     GetEnv("REDIS_ADDR", ""),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetEnvAsInt("REDIS_DB", 0),
			TTL:      GetEnvAsDuration("REDIS_CATALOG_TTL", 5*time.Minute),
		},
		Inventory: InventoryConfig{
			LowStockThreshold: GetEnvAsInt("LOW_STOCK_THRESHOLD", 5),
		},
		Alerts: AlertConfig{
			Cron: GetEnv("ALERT_CRON", "0 */15 * * * *"),
		},
		Admin: AdminConfig{
			Username: GetEnv("ADMIN_USERNAME", "admin"),
			Email:    GetEnv("ADMIN_EMAIL", "admin@example.com"),
			Password: GetEnv("ADMIN_PASSWORD", "admin123"),
		},
	}
}

// GetEnv returns the value of key, or fallback when it is unset.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func GetEnvAsInt(key string, fallback int) int {
	strValue := GetEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// GetEnvAsDuration accepts Go duration strings ("90s", "1h").
func GetEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := GetEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	TempStore TempStoreConfig
	Payment   PaymentConfig
	GenAI     GenAIConfig
	Staff     StaffConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port               string
	Env                string
	PublicBaseURL      string
	CORSAllowedOrigins []string
}

// DatabaseConfig holds database configuration
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
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// TempStoreConfig selects where unpaid form payloads are kept
type TempStoreConfig struct {
	Driver        string
	TTL           time.Duration
	EncryptionKey string
}

// PaymentConfig holds payment processor settings
type PaymentConfig struct {
	SecretKey      string
	PublishableKey string
	WebhookSecret  string
	Currency       string
	SessionExpiry  time.Duration
	ExpiryInterval time.Duration
}

// GenAIConfig holds text generation settings
type GenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// StaffConfig holds staff bearer token settings. An empty secret leaves review routes open.
type StaffConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
	Issuer      string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               getEnv("SERVER_PORT", "8080"),
			Env:                getEnv("SERVER_ENV", "development"),
			PublicBaseURL:      strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "citizen_portal"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		TempStore: TempStoreConfig{
			Driver:        getEnv("TEMP_STORE_DRIVER", "memory"),
			TTL:           getEnvAsDuration("TEMP_DATA_TTL", time.Hour),
			EncryptionKey: getEnv("TEMP_DATA_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
		},
		Payment: PaymentConfig{
			SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			WebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),
			Currency:       strings.ToLower(getEnv("PAYMENT_CURRENCY", "inr")),
			SessionExpiry:  getEnvAsDuration("PAYMENT_SESSION_EXPIRY", 24*time.Hour),
			ExpiryInterval: getEnvAsDuration("PAYMENT_EXPIRY_INTERVAL", time.Minute),
		},
		GenAI: GenAIConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			BaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Model:       getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Temperature: getEnvAsFloat("GEMINI_TEMPERATURE", 0.7),
			Timeout:     getEnvAsDuration("GEMINI_TIMEOUT", 30*time.Second),
		},
		Staff: StaffConfig{
			JWTSecret:   getEnv("STAFF_JWT_SECRET", ""),
			TokenExpiry: getEnvAsDuration("STAFF_TOKEN_EXPIRY", 12*time.Hour),
			Issuer:      getEnv("STAFF_TOKEN_ISSUER", "citizen-portal"),
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
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

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

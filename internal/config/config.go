package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	RecordStore RecordStoreConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	RateLimit   RateLimitConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string // empty selects the environment's default
	TrustProxy     bool   // honor X-Forwarded-For / X-Real-IP from a fronting proxy
	AllowedOrigins []string
}

// RecordStoreConfig points at the external catalog base
type RecordStoreConfig struct {
	APIKey          string
	BaseID          string
	BaseURL         string
	ProductsTable   string
	BrandsTable     string
	CategoriesTable string
	Timeout         time.Duration // zero means no client-side deadline
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  int // in minutes
	RefreshExpiry int // in days
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// IsDevelopment reports whether the server runs outside production
func (c *Config) IsDevelopment() bool {
	return c.Server.Env != "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("SERVER_TRUST_PROXY", false)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("RECORDSTORE_BASE_URL", "https://api.airtable.com")
	v.SetDefault("RECORDSTORE_PRODUCTS_TABLE", "Products")
	v.SetDefault("RECORDSTORE_BRANDS_TABLE", "Brands")
	v.SetDefault("RECORDSTORE_CATEGORIES_TABLE", "Categories")
	v.SetDefault("RECORDSTORE_TIMEOUT", "0s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_ACCESS_EXPIRY", 15)
	v.SetDefault("JWT_REFRESH_EXPIRY", 7)
	v.SetDefault("RATE_LIMIT_REQUESTS", 10)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
}

// Load reads configuration once from .env and the process environment
func Load() *Config {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Env:            v.GetString("SERVER_ENV"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			TrustProxy:     v.GetBool("SERVER_TRUST_PROXY"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		RecordStore: RecordStoreConfig{
			APIKey:          v.GetString("RECORDSTORE_API_KEY"),
			BaseID:          v.GetString("RECORDSTORE_BASE_ID"),
			BaseURL:         v.GetString("RECORDSTORE_BASE_URL"),
			ProductsTable:   v.GetString("RECORDSTORE_PRODUCTS_TABLE"),
			BrandsTable:     v.GetString("RECORDSTORE_BRANDS_TABLE"),
			CategoriesTable: v.GetString("RECORDSTORE_CATEGORIES_TABLE"),
			Timeout:         v.GetDuration("RECORDSTORE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_DATABASE"),
			Schema:   v.GetString("DB_SCHEMA"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Enabled:  v.GetBool("REDIS_ENABLED"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  v.GetInt("JWT_ACCESS_EXPIRY"),
			RefreshExpiry: v.GetInt("JWT_REFRESH_EXPIRY"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

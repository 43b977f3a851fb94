package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppConfig Config

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"-"`
	DB       int    `json:"db"`
}

type Config struct {
	Environment     string        `json:"environment"`
	ServerPort      string        `json:"server_port"`
	MongoURI        string        `json:"-"`
	MongoDBName     string        `json:"mongo_db_name"`
	JWTSecret       string        `json:"-"`
	AccessTokenTTL  time.Duration `json:"access_token_ttl"`
	RefreshTokenTTL time.Duration `json:"refresh_token_ttl"`
	CORSOrigins     []string      `json:"cors_origins"`
	RateLimitMax    int           `json:"rate_limit_max"`
	RateLimitWindow time.Duration `json:"rate_limit_window"`
	Redis           RedisConfig   `json:"redis"`
	SentryDSN       string        `json:"-"`
}

func init() {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()
}

func LoadConfig() error {
	AppConfig = Config{
		Environment:     getEnv("ENVIRONMENT", "development"),
		ServerPort:      getEnv("SERVER_PORT", "5000"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "collabboard"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		CORSOrigins: strings.Split(
			getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000"), ","),
		RateLimitMax:    getEnvAsInt("RATE_LIMIT_MAX", 10000),
		RateLimitWindow: 15 * time.Minute,
		Redis: RedisConfig{
			Enabled:  getEnv("REDIS_ADDRESS", "") != "",
			Address:  getEnv("REDIS_ADDRESS", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		SentryDSN: getEnv("SENTRY_DSN", ""),
	}

	if AppConfig.JWTSecret == "" {
		if AppConfig.Environment == "production" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		AppConfig.JWTSecret = "dev-only-insecure-secret"
	}

	logConfig()
	return nil
}

// IsDevelopment reports whether error details may be exposed to callers.
func IsDevelopment() bool {
	return AppConfig.Environment == "development"
}

// Helper functions
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return fallback
	}
	return value
}

func logConfig() {
	log.Println("Loaded configuration:")
	log.Printf("Environment: %s", AppConfig.Environment)
	log.Printf("Server Port: %s", AppConfig.ServerPort)
	log.Printf("Database: %s/%s", maskURI(AppConfig.MongoURI), AppConfig.MongoDBName)
	log.Printf("Rate limit: %d requests / %s", AppConfig.RateLimitMax, AppConfig.RateLimitWindow)
	log.Printf("Redis limiter storage: %t", AppConfig.Redis.Enabled)
}

func maskURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	if at == -1 {
		return uri
	}
	scheme := strings.Index(uri, "://")
	if scheme == -1 {
		return "*****" + uri[at:]
	}
	return uri[:scheme+3] + "*****" + uri[at:]
}

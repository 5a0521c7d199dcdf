package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the server configuration, loaded from the environment
type Config struct {
	MongoURI    string
	MongoDB     string
	RedisAddr   string
	HTTPPort    string
	JWTSecret   string
	CORSOrigins string
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "surveyhub"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:    getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

package config

import (
	"os"
)

type Config struct {
	Addr          string
	BasePath      string
	GinMode       string
	SessionSecret string
	StoreDriver   string
	StorePath     string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
}

func Load() *Config {
	return &Config{
		Addr:          getEnv("ADDR", ":8080"),
		BasePath:      getEnv("BASE_PATH", "/TaskTracker"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		StoreDriver:   getEnv("STORE_DRIVER", "file"),
		StorePath:     getEnv("STORE_PATH", "./data"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "tracker"),
		DBPassword:    getEnv("DB_PASSWORD", "trackerpassword"),
		DBName:        getEnv("DB_NAME", "tasktracker"),
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Engine   EngineConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// EngineConfig tunes the recommendation engine. The factor tables
// themselves live in the service package and are not configurable here.
type EngineConfig struct {
	TopN               int     // per-criterion cap after diversity reranking
	Lambda             float64 // MMR relevance/diversity trade-off
	DuplicateThreshold float64 // cosine similarity above which a candidate is a duplicate
}

func Load() (*Config, error) {
	// .env is optional; environment variables win when both are set.
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	topN, _ := strconv.Atoi(getEnv("ENGINE_TOP_N", "3"))
	lambda, _ := strconv.ParseFloat(getEnv("ENGINE_MMR_LAMBDA", "0.7"), 64)
	dupThreshold, _ := strconv.ParseFloat(getEnv("ENGINE_DUPLICATE_THRESHOLD", "0.93"), 64)

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "carbonlens"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Engine: EngineConfig{
			TopN:               topN,
			Lambda:             lambda,
			DuplicateThreshold: dupThreshold,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

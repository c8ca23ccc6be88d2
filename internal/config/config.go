package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI        string
	DBName          string
	ChunkCollection string
	Port            string
	GinMode         string
	CORSOrigins     []string

	// Gemini credentials and models. GoogleAPIKey may be empty: generative
	// features degrade to fallback values instead of blocking startup.
	GoogleAPIKey   string
	EmbeddingModel string
	GenerateModel  string
	GeminiTier     string

	// Chunking
	ChunkSize    int
	ChunkOverlap int

	// Retrieval
	TopK int

	// Upload handling
	UploadDir   string
	MaxFileSize int64

	// Redis (optional): embedding cache and rate limiting
	RedisURL      string
	RedisPassword string
	RedisDB       int

	RateLimitReqs   int
	RateLimitWindow int

	// Telemetry
	TracingEnabled bool
	OTLPEndpoint   string
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017/patent_insight"),
		DBName:          getEnv("DB_NAME", "patent_insight"),
		ChunkCollection: getEnv("CHUNK_COLLECTION", "patent_chunks"),
		Port:            getEnv("PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		CORSOrigins:     strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		GoogleAPIKey:   getEnv("GOOGLE_API_KEY", ""),
		EmbeddingModel: getEnv("GOOGLE_EMBEDDINGS_MODEL", "text-embedding-004"),
		GenerateModel:  getEnv("GOOGLE_GENERATE_MODEL", "gemini-2.0-flash"),
		GeminiTier:     getEnv("GEMINI_TIER", "free"),

		ChunkSize:    getEnvInt("CHUNK_SIZE", 500),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 80),

		TopK: getEnvInt("RETRIEVAL_TOP_K", 5),

		UploadDir:   getEnv("UPLOAD_DIR", "./uploads"),
		MaxFileSize: getEnvInt64("MAX_FILE_SIZE", 52428800), // 50MB

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", "localhost:4317"),
	}

	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Warehouse WarehouseConfig
	Keys      APIKeys
	Ai        AIConfig
	Chatbot   ChatbotConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	SessionStore       string // "memory" or "redis"
}

type DatabaseConfig struct {
	Connection string
}

// WarehouseConfig points at the MySQL statistics warehouse. Databases
// keeps a fixed order so structure scans and searches visit schemas the
// same way every run. The physical schema names differ from the logical
// keys for historical reasons, hence the explicit mapping.
type WarehouseConfig struct {
	Host      string
	Port      string
	User      string
	Password  string
	Databases []WarehouseDatabase
}

type WarehouseDatabase struct {
	Key  string
	Name string
}

type APIKeys struct {
	Groq   string
	OpenAI string
}

type AIConfig struct {
	PrimaryProvider  string // "groq"
	FallbackProvider string // "openai", empty disables the fallback
	PrimaryModel     string
	FallbackModel    string
	RequestTimeout   time.Duration
}

// ChatbotConfig holds the tuning knobs of the routing pipeline. The
// similarity thresholds and scoring weights are empirical production
// values; they are exposed here instead of being hardcoded.
type ChatbotConfig struct {
	MenuFilePath        string
	ReadThreshold       float64 // minimum similarity to serve a cached answer
	WriteThreshold      float64 // similarity at which learning updates instead of inserting
	ContentWeight       float64
	SequenceWeight      float64
	KeyTermBonus        float64
	DefaultQuality      float64
	SessionTTL          time.Duration
	SessionPurgeEvery   time.Duration
	MinLearnableLength  int
	MaxRelatedOptions   int
	MemoryCandidateSize int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/chatbot.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			SessionStore:       getEnv("SESSION_STORE", "memory"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Warehouse: WarehouseConfig{
			Host:     getEnv("WAREHOUSE_HOST", "localhost"),
			Port:     getEnv("WAREHOUSE_PORT", "3307"),
			User:     getEnv("WAREHOUSE_USER", "root"),
			Password: getEnv("WAREHOUSE_PASSWORD", ""),
			Databases: []WarehouseDatabase{
				{Key: "datalake_economico", Name: getEnv("WAREHOUSE_DB_DATALAKE_ECONOMICO", "datalake-economico")},
				{Key: "dwh_economico", Name: getEnv("WAREHOUSE_DB_DWH_ECONOMICO", "dhw_economico")},
				{Key: "dwh_socio", Name: getEnv("WAREHOUSE_DB_DWH_SOCIO", "dhw_sociodemografico")},
			},
		},
		Keys: APIKeys{
			Groq:   getEnv("GROQ_API_KEY", ""),
			OpenAI: getEnv("OPENAI_API_KEY", ""),
		},
		Ai: AIConfig{
			PrimaryProvider:  getEnv("LLM_PROVIDER", "groq"),
			FallbackProvider: getEnv("LLM_FALLBACK_PROVIDER", "openai"),
			PrimaryModel:     getEnv("LLM_MODEL", "openai/gpt-oss-20b"),
			FallbackModel:    getEnv("LLM_FALLBACK_MODEL", "gpt-4o-mini"),
			RequestTimeout:   getEnvAsDuration("LLM_REQUEST_TIMEOUT", 30*time.Second),
		},
		Chatbot: ChatbotConfig{
			MenuFilePath:        getEnv("MENU_FILE_PATH", "menu_tree.json"),
			ReadThreshold:       getEnvAsFloat("MEMORY_READ_THRESHOLD", 0.80),
			WriteThreshold:      getEnvAsFloat("MEMORY_WRITE_THRESHOLD", 0.90),
			ContentWeight:       getEnvAsFloat("MEMORY_CONTENT_WEIGHT", 0.5),
			SequenceWeight:      getEnvAsFloat("MEMORY_SEQUENCE_WEIGHT", 0.2),
			KeyTermBonus:        getEnvAsFloat("MEMORY_KEYTERM_BONUS", 0.3),
			DefaultQuality:      getEnvAsFloat("MEMORY_DEFAULT_QUALITY", 0.8),
			SessionTTL:          getEnvAsDuration("SESSION_TTL", 1*time.Hour),
			SessionPurgeEvery:   getEnvAsDuration("SESSION_PURGE_INTERVAL", 10*time.Minute),
			MinLearnableLength:  getEnvAsInt("MEMORY_MIN_RESPONSE_LENGTH", 100),
			MaxRelatedOptions:   getEnvAsInt("RELATED_MAX_OPTIONS", 5),
			MemoryCandidateSize: getEnvAsInt("MEMORY_CANDIDATE_LIMIT", 50),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

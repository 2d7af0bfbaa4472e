package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
	Pipeline PipelineConfig
	Tools    ToolsConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	PipelineLogPath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	GoogleGemini  string
	OpenAI        string
	EmbedJobTopic string
	FinishedTopic string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini", "ollama" or "openai"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama" or "openai"
	LLMModel          string
	OpenAIBaseURL     string
	EmbeddingModel    string
}

type PipelineConfig struct {
	Threshold     float64
	TopK          int
	MaxRetries    int
	WorkerPool    int
	SweepInterval string // cron spec
	IdleMinutes   int
	BrandToken    string
	BrandFullForm string
}

type ToolsConfig struct {
	CalendarEndpoint     string
	CalendarTokenURL     string
	CalendarClientID     string
	CalendarClientSecret string
	CRMEndpoint          string
	CRMAPIKey            string
	SearchEndpoint       string
	SearchAPIKey         string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			PipelineLogPath:    getEnv("PIPELINE_LOG_PATH", "logs/pipeline.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Support Assistant"),
		},
		Keys: APIKeys{
			GoogleGemini:  getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OpenAI:        getEnv("OPENAI_API_KEY", ""),
			EmbedJobTopic: getEnv("EMBED_DOCUMENT_TOPIC_NAME", "EMBED_DOCUMENT_CHUNKS"),
			FinishedTopic: getEnv("CONVERSATION_FINISHED_TOPIC_NAME", "CONVERSATION_FINISHED"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		},
		Pipeline: PipelineConfig{
			Threshold:     getEnvAsFloat("PIPELINE_THRESHOLD", 0.50),
			TopK:          getEnvAsInt("PIPELINE_TOP_K", 5),
			MaxRetries:    getEnvAsInt("PIPELINE_MAX_RETRIES", 2),
			WorkerPool:    getEnvAsInt("PIPELINE_WORKER_POOL", 4),
			SweepInterval: getEnv("SWEEP_CRON", "*/10 * * * *"),
			IdleMinutes:   getEnvAsInt("SWEEP_IDLE_MINUTES", 30),
			BrandToken:    getEnv("BRAND_TOKEN", ""),
			BrandFullForm: getEnv("BRAND_FULL_FORM", ""),
		},
		Tools: ToolsConfig{
			CalendarEndpoint:     getEnv("CALENDAR_ENDPOINT", ""),
			CalendarTokenURL:     getEnv("CALENDAR_TOKEN_URL", ""),
			CalendarClientID:     getEnv("CALENDAR_CLIENT_ID", ""),
			CalendarClientSecret: getEnv("CALENDAR_CLIENT_SECRET", ""),
			CRMEndpoint:          getEnv("CRM_ENDPOINT", ""),
			CRMAPIKey:            getEnv("CRM_API_KEY", ""),
			SearchEndpoint:       getEnv("SEARCH_ENDPOINT", ""),
			SearchAPIKey:         getEnv("SEARCH_API_KEY", ""),
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

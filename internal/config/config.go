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
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	RequestLogPath     string
	CorsAllowedOrigins string
	JWTSecret          string
	NatsURL            string
	NatsEnabled        bool
	RedisURL           string
	RedisEnabled       bool
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

type AIConfig struct {
	LLMProvider          string // "gigachat" or "ollama"
	LLMModel             string // e.g. "GigaChat", "llama3"
	OllamaBaseURL        string
	GigaChatClientID     string
	GigaChatClientSecret string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			RequestLogPath:     getEnv("REQUEST_LOG_PATH", "requests_log.json"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			NatsEnabled:        getEnvAsBool("NATS_ENABLED", false),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			RedisEnabled:       getEnvAsBool("REDIS_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "StudyBot"),
		},
		Ai: AIConfig{
			LLMProvider:          getEnv("LLM_PROVIDER", "gigachat"),
			LLMModel:             getEnv("LLM_MODEL", "GigaChat"),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			GigaChatClientID:     getEnv("GIGACHAT_CLIENT_ID", ""),
			GigaChatClientSecret: getEnv("GIGACHAT_CLIENT_SECRET", ""),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

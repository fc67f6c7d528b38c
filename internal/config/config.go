package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Supabase  SupabaseConfig
	Ai        AIConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port                string
	BaseURL             string
	Environment         string
	LogFilePath         string
	CorsAllowedOrigins  string
	SessionCookieName   string
	SessionCookieSecure bool
	SessionTTL          time.Duration
	SessionStore        string // "memory" or "redis"
	RedisURL            string
}

type SupabaseConfig struct {
	URL             string
	AnonKey         string
	JWTSecret       string
	DataStoreDriver string // "rest" or "postgres"
	DBConnection    string
	CandidateTable  string
	PingProcedure   string
}

type AIConfig struct {
	LLMProvider      string // "gemini" or "ollama"
	GeminiAPIKey     string
	GeminiBaseURL    string
	GeminiAPIVersion string
	LLMModel         string
	OllamaBaseURL    string
	OllamaModel      string
}

type TelemetryConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                getEnv("APP_PORT", "3000"),
			BaseURL:             getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:         getEnv("GO_ENV", "development"),
			LogFilePath:         getEnv("LOG_FILE_PATH", "logs/petmatch.log"),
			CorsAllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			SessionCookieName:   getEnv("SESSION_COOKIE_NAME", "petmatch_sid"),
			SessionCookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", false),
			SessionTTL:          time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24)) * time.Hour,
			SessionStore:        getEnv("SESSION_STORE", "memory"),
			RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Supabase: SupabaseConfig{
			URL:             getEnv("SUPABASE_URL", ""),
			AnonKey:         getEnv("SUPABASE_ANON_KEY", ""),
			JWTSecret:       getEnv("SUPABASE_JWT_SECRET", ""),
			DataStoreDriver: getEnv("DATA_STORE_DRIVER", "rest"),
			DBConnection:    getEnv("DB_CONNECTION_STRING", ""),
			CandidateTable:  getEnv("CANDIDATE_TABLE", "dogs"),
			PingProcedure:   getEnv("PING_PROCEDURE", "pg_tables_list"),
		},
		Ai: AIConfig{
			LLMProvider:      getEnv("LLM_PROVIDER", "gemini"),
			GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
			GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			GeminiAPIVersion: getEnv("GEMINI_API_VERSION", "v1"),
			LLMModel:         getEnv("LLM_MODEL", "models/gemma-3-12b-it"),
			OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:      getEnv("OLLAMA_MODEL", "gemma3:12b"),
		},
		Telemetry: TelemetryConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "petmatch"),
		},
	}
}

// Validate reports configuration the process cannot start without.
// A missing generation key is not fatal: the actions that need it report it.
func (c *Config) Validate() error {
	if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
		return errors.New("missing Supabase configuration: set SUPABASE_URL and SUPABASE_ANON_KEY")
	}
	if c.Supabase.DataStoreDriver == "postgres" && c.Supabase.DBConnection == "" {
		return errors.New("DATA_STORE_DRIVER=postgres requires DB_CONNECTION_STRING")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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

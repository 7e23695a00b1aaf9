package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Draft store backends.
const (
	DraftStoreRedis    = "redis"
	DraftStorePostgres = "postgres"
	DraftStoreMemory   = "memory"
)

// LLM providers.
const (
	LLMProviderGemini = "gemini"
	LLMProviderFake   = "fake"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	Session    SessionConfig
	CORS       CORSConfig
	Log        LogConfig
	Drafts     DraftConfig
	LLM        LLMConfig
	Generation GenerationConfig
	Exports    ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig configures the signed profile tokens handed to clients.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DraftConfig selects the draft backend and tunes auto-save.
type DraftConfig struct {
	Store             string
	KeyPrefix         string
	Debounce          time.Duration
	WorkspaceCapacity int
}

// LLMConfig selects and tunes the text generation provider.
type LLMConfig struct {
	Provider              string
	APIKey                string
	ModuleModel           string
	SuggestionModel       string
	ThinkingBudget        int
	SuggestionTemperature float64
}

// GenerationConfig sizes the background generation workers.
type GenerationConfig struct {
	Workers    int
	BufferSize int
}

// ExportsConfig controls rendered export storage and download links.
type ExportsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	CleanupInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Session = SessionConfig{
		Secret: v.GetString("SESSION_SECRET"),
		TTL:    parseDuration(v.GetString("SESSION_TTL"), 30*24*time.Hour),
		Issuer: v.GetString("SESSION_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Drafts = DraftConfig{
		Store:             strings.ToLower(strings.TrimSpace(v.GetString("DRAFT_STORE"))),
		KeyPrefix:         v.GetString("DRAFT_KEY_PREFIX"),
		Debounce:          parseDuration(v.GetString("DRAFT_DEBOUNCE"), 800*time.Millisecond),
		WorkspaceCapacity: v.GetInt("WORKSPACE_CAPACITY"),
	}

	cfg.LLM = LLMConfig{
		Provider:              strings.ToLower(strings.TrimSpace(v.GetString("LLM_PROVIDER"))),
		APIKey:                v.GetString("GEMINI_API_KEY"),
		ModuleModel:           v.GetString("GEMINI_MODULE_MODEL"),
		SuggestionModel:       v.GetString("GEMINI_SUGGESTION_MODEL"),
		ThinkingBudget:        v.GetInt("GEMINI_THINKING_BUDGET"),
		SuggestionTemperature: v.GetFloat64("GEMINI_SUGGESTION_TEMPERATURE"),
	}

	cfg.Generation = GenerationConfig{
		Workers:    v.GetInt("GENERATION_WORKERS"),
		BufferSize: v.GetInt("GENERATION_BUFFER_SIZE"),
	}

	cfg.Exports = ExportsConfig{
		StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), time.Hour),
		CleanupInterval: parseDuration(v.GetString("EXPORTS_CLEANUP_INTERVAL"), 30*time.Minute),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "modul_ajar")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SESSION_SECRET", "dev_session_secret")
	v.SetDefault("SESSION_TTL", "720h")
	v.SetDefault("SESSION_ISSUER", "modul-ajar-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DRAFT_STORE", DraftStoreRedis)
	v.SetDefault("DRAFT_KEY_PREFIX", "deep_learning_module_draft")
	v.SetDefault("DRAFT_DEBOUNCE", "800ms")
	v.SetDefault("WORKSPACE_CAPACITY", 1024)

	v.SetDefault("LLM_PROVIDER", LLMProviderGemini)
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODULE_MODEL", "gemini-3-pro-preview")
	v.SetDefault("GEMINI_SUGGESTION_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_THINKING_BUDGET", 4096)
	v.SetDefault("GEMINI_SUGGESTION_TEMPERATURE", 0.8)

	v.SetDefault("GENERATION_WORKERS", 2)
	v.SetDefault("GENERATION_BUFFER_SIZE", 16)

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "1h")
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "30m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Everything comes from environment
// variables (optionally via a .env file) with sensible local defaults.
type Config struct {
	Port   string
	AppEnv string

	// Directories
	UploadDir string // transient per-request upload scopes
	ReviewDir string // annotated copies and combined reports (TTL-bounded)
	DataDir   string // reference corpus for the indexer
	IndexPath string // serialized reference index

	// Gemini API
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string
	EmbedModel    string

	// Timeouts and limits
	AnalysisTimeout time.Duration // per-file cap on the analysis call
	LLMTimeout      time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	BodyLimit       int
	ResultTTL       time.Duration // how long reviewed copies stay downloadable
	RetrievalTopK   int

	// Feature toggles
	EnableCORS        bool
	EnableRequestLogs bool
	EnableHealthCheck bool

	LogLevel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:   getEnv("PORT", "4000"),
		AppEnv: getEnv("APP_ENV", "development"),

		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
		ReviewDir: getEnv("REVIEW_DIR", "./reviewed"),
		DataDir:   getEnv("DATA_DIR", "./data"),
		IndexPath: getEnv("INDEX_PATH", "./reference.index"),

		GeminiAPIKey:  getEnv("GOOGLE_API_KEY", ""),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		EmbedModel:    getEnv("EMBED_MODEL", "text-embedding-004"),

		AnalysisTimeout: getDuration("ANALYSIS_TIMEOUT", 2*time.Minute),
		LLMTimeout:      getDuration("LLM_TIMEOUT", 90*time.Second),
		ReadTimeout:     getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 30*time.Second),
		BodyLimit:       getInt("BODY_LIMIT", 50*1024*1024),
		ResultTTL:       getDuration("RESULT_TTL", 30*time.Minute),
		RetrievalTopK:   getInt("RETRIEVAL_TOP_K", 5),

		EnableCORS:        getBool("ENABLE_CORS", true),
		EnableRequestLogs: getBool("ENABLE_REQUEST_LOGS", true),
		EnableHealthCheck: getBool("ENABLE_HEALTH_CHECK", true),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

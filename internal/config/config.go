// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv            string        `env:"APP_ENV" envDefault:"dev"`
	Port              int           `env:"PORT" envDefault:"8080"`
	ServiceName       string        `env:"SERVICE_NAME" envDefault:"ai-mock-interviewer"`
	DBPath            string        `env:"DB_PATH" envDefault:"interviews.db"`
	OpenRouterAPIKey  string        `env:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string        `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	// ScoringModel evaluates answers and generates JD/follow-up questions.
	ScoringModel string `env:"SCORING_MODEL" envDefault:"openai/gpt-4o-mini"`
	// AnalysisModel produces the structured profile for uploaded documents.
	AnalysisModel string `env:"ANALYSIS_MODEL" envDefault:"google/gemini-2.0-flash-001"`
	// AIRequestTimeout bounds every reasoning-service call; a timeout is
	// treated the same as any other service failure.
	AIRequestTimeout time.Duration `env:"AI_REQUEST_TIMEOUT" envDefault:"30s"`
	TranscribeURL    string        `env:"TRANSCRIBE_URL" envDefault:"http://localhost:9000"`
	MaxUploadMB      int64         `env:"MAX_UPLOAD_MB" envDefault:"10"`
	// PersistMaxElapsed caps the retry window of the asynchronous
	// best-effort mirror writes to the durable store.
	PersistMaxElapsed     time.Duration `env:"PERSIST_MAX_ELAPSED" envDefault:"10s"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
}

// Load parses environment variables into a Config. A local .env file is
// applied first when present (dev convenience, never required).
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

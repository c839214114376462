// Package config loads the assistant's startup configuration from the
// environment (plus an optional .env file) and turns it into an immutable
// Config passed into constructors. Nothing in the runtime core reads the
// environment directly.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Session store backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

var (
	// ErrInvalidBackend is returned for an unrecognized SESSION_BACKEND.
	ErrInvalidBackend = errors.New("invalid session backend")

	// ErrMissingSetting is returned when a backend is selected without its
	// required connection settings.
	ErrMissingSetting = errors.New("missing required setting")
)

// Config holds everything needed to build the assistant at startup.
type Config struct {
	// LLM
	OpenAIModel    string
	EmbeddingModel string

	// Vector store
	ChromaURL       string
	ChromaNamespace string
	TopK            int

	// Reference document used by ingestion and the fallback answerer.
	SourceDocumentPath string

	// Persona
	AssistantName string
	SubjectName   string
	SubjectRole   string

	// HTTP server
	Addr string

	// Session storage
	SessionBackend string
	SessionTTL     time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	PostgresURL    string
	SQLitePath     string

	LogLevel string
}

// Load reads configuration from a .env file (if present) and the
// environment, then validates it.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIModel:        envStr("OPENAI_MODEL", "gpt-4o-mini"),
		EmbeddingModel:     envStr("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		ChromaURL:          envStr("CHROMA_URL", "http://localhost:8000"),
		ChromaNamespace:    envStr("CHROMA_NAMESPACE", "saj_assistant"),
		TopK:               envInt("RETRIEVER_TOP_K", 4),
		SourceDocumentPath: envStr("SOURCE_DATA_PATH", "data/source.md"),
		AssistantName:      envStr("ASSISTANT_NAME", "Saj"),
		SubjectName:        envStr("SUBJECT_NAME", "Sajal Sharma"),
		SubjectRole:        envStr("SUBJECT_ROLE", "an AI Engineer"),
		Addr:               envStr("HTTP_ADDR", ":8080"),
		SessionBackend:     envStr("SESSION_BACKEND", BackendMemory),
		SessionTTL:         envDuration("SESSION_TTL", 0),
		RedisAddr:          envStr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      envStr("REDIS_PASSWORD", ""),
		RedisDB:            envInt("REDIS_DB", 0),
		PostgresURL:        envStr("DATABASE_URL", ""),
		SQLitePath:         envStr("SQLITE_PATH", "data/sessions.db"),
		LogLevel:           envStr("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TopK < 1 {
		return fmt.Errorf("%w: RETRIEVER_TOP_K must be at least 1", ErrMissingSetting)
	}

	switch c.SessionBackend {
	case BackendMemory, BackendRedis, BackendSQLite:
	case BackendPostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for the postgres session backend", ErrMissingSetting)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.SessionBackend)
	}
	return nil
}

// SourceDocument reads the full reference document. A missing or unreadable
// document is a startup-fatal condition; the process must not serve without
// it.
func (c *Config) SourceDocument() (string, error) {
	data, err := os.ReadFile(c.SourceDocumentPath)
	if err != nil {
		return "", fmt.Errorf("reference document %s: %w", c.SourceDocumentPath, err)
	}
	return string(data), nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"georag/internal/retrieval"
)

// NER providers.
const (
	NERProviderHTTP      = "http"
	NERProviderGazetteer = "gazetteer"
)

// Config holds all configuration for the application.
type Config struct {
	Neo4jURI      string
	Neo4jUsername string
	Neo4jPassword string
	Neo4jDatabase string

	QdrantURL        string
	QdrantCollection string
	QdrantVectorSize int

	EmbeddingBaseURL   string
	EmbeddingModelName string
	LLMBaseURL         string
	LLMModelName       string
	LLMAPIKey          string

	NERProvider string
	NERBaseURL  string
	NERLabels   []string

	DBPath     string
	CorpusPath string

	RetrievalK  int
	RRFMode     retrieval.RRFMode
	RRFConstant int
	FusionKey   retrieval.KeyMode

	LogLevel  slog.Level
	LogFormat string
	APIPort   string
}

// Load reads configuration from environment variables and returns a Config struct.
// A .env file in the current directory or one of its parents is loaded first;
// variables already set in the environment take precedence.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		Neo4jURI:           getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUsername:      getEnv("NEO4J_USERNAME", "neo4j"),
		Neo4jPassword:      getEnv("NEO4J_PASSWORD", ""),
		Neo4jDatabase:      getEnv("NEO4J_DATABASE", "neo4j"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "georag_corpus"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "all-MiniLM-L6-v2"),
		LLMBaseURL:         getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName:       getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:          getEnv("LLM_API_KEY", ""),
		NERProvider:        strings.ToLower(getEnv("NER_PROVIDER", NERProviderGazetteer)),
		NERBaseURL:         getEnv("NER_BASE_URL", ""),
		NERLabels:          splitList(getEnv("NER_LABELS", "")),
		DBPath:             getEnv("DB_PATH", "./data/georag.db"),
		CorpusPath:         getEnv("CORPUS_PATH", ""),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		APIPort:            getEnv("API_PORT", "9000"),
	}

	// Must match the output size of the embeddings model; changing it means
	// recreating the Qdrant collection.
	vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	cfg.QdrantVectorSize = vectorSize

	if cfg.RetrievalK, err = getPositiveInt("RETRIEVAL_K", retrieval.DefaultK); err != nil {
		return nil, err
	}
	if cfg.RRFConstant, err = getPositiveInt("RRF_CONSTANT", retrieval.DefaultRRFConstant); err != nil {
		return nil, err
	}
	if cfg.RRFMode, err = retrieval.ParseRRFMode(getEnv("RRF_MODE", "")); err != nil {
		return nil, fmt.Errorf("RRF_MODE: %w", err)
	}
	if cfg.FusionKey, err = retrieval.ParseKeyMode(getEnv("FUSION_KEY", "")); err != nil {
		return nil, fmt.Errorf("FUSION_KEY: %w", err)
	}

	switch cfg.NERProvider {
	case NERProviderGazetteer:
	case NERProviderHTTP:
		if cfg.NERBaseURL == "" {
			return nil, fmt.Errorf("NER_BASE_URL is required when NER_PROVIDER is %s", NERProviderHTTP)
		}
	default:
		return nil, fmt.Errorf("NER_PROVIDER must be %s or %s, got %q", NERProviderHTTP, NERProviderGazetteer, cfg.NERProvider)
	}

	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads the first .env found walking up from the working directory.
func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 6; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getPositiveInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return n, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Vector store connection
	VectorStoreURL    string
	VectorStoreAPIKey string

	// Auth
	DocpinAPIKey string

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentStore int

	// Upload limits
	MaxUploadBytes int64

	// Chunking defaults
	DefaultChunkSize     int
	DefaultContextRadius int
	MinChunkSize         int
	MaxChunkSize         int

	// Citation matching
	CitationThreshold float64
	MinMatchLength    int

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		VectorStoreURL:    envOr("VECTORSTORE_URL", "http://localhost:8080"),
		VectorStoreAPIKey: os.Getenv("VECTORSTORE_API_KEY"),

		DocpinAPIKey: os.Getenv("DOCPIN_API_KEY"),

		WorkerCount:        envInt("WORKER_COUNT", 4),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentStore: envInt("MAX_CONCURRENT_STORE", 10),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		DefaultChunkSize:     envInt("DEFAULT_CHUNK_SIZE", 800),
		DefaultContextRadius: envInt("DEFAULT_CONTEXT_RADIUS", 300),
		MinChunkSize:         envInt("MIN_CHUNK_SIZE", 100),
		MaxChunkSize:         envInt("MAX_CHUNK_SIZE", 1200),

		CitationThreshold: envFloat("CITATION_THRESHOLD", 0.3),
		MinMatchLength:    envInt("MIN_MATCH_LENGTH", 20),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentStore <= 0 {
		cfg.MaxConcurrentStore = 10
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.DefaultChunkSize <= 0 {
		cfg.DefaultChunkSize = 800
	}
	if cfg.DefaultContextRadius <= 0 {
		cfg.DefaultContextRadius = 300
	}
	if cfg.MinChunkSize <= 0 {
		cfg.MinChunkSize = 100
	}
	if cfg.MaxChunkSize < cfg.DefaultChunkSize {
		cfg.MaxChunkSize = cfg.DefaultChunkSize + cfg.DefaultChunkSize/2
	}
	if cfg.CitationThreshold <= 0 || cfg.CitationThreshold >= 1 {
		cfg.CitationThreshold = 0.3
	}
	if cfg.MinMatchLength <= 0 {
		cfg.MinMatchLength = 20
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.VectorStoreAPIKey == "" {
		return fmt.Errorf("VECTORSTORE_API_KEY is required")
	}
	if c.DocpinAPIKey == "" {
		return fmt.Errorf("DOCPIN_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
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

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// HistoryBackend selects where analysis records are stored.
type HistoryBackend string

const (
	HistoryMemory   HistoryBackend = "memory"   // In-process ring, lost on restart
	HistoryRedis    HistoryBackend = "redis"    // Redis list, shared between instances
	HistoryPostgres HistoryBackend = "postgres" // Postgres table, durable
	HistoryJSONL    HistoryBackend = "jsonl"    // Append-only JSONL file
)

// Enhancer selects the optional learned-model stage that can replace
// the local blend. "none" means the deterministic local pipeline is the
// final answer; every other value degrades back to it on any failure.
type Enhancer string

const (
	EnhancerNone     Enhancer = "none"     // Local heuristic+linear blend only (default)
	EnhancerHugot    Enhancer = "hugot"    // Local ONNX text classifier
	EnhancerRemote   Enhancer = "remote"   // Remote scoring endpoint
	EnhancerSemantic Enhancer = "semantic" // Embedding similarity against known lures
)

// Config holds global settings for the PhishGuard scorer and its
// service surface. Everything can be set via environment variables.
type Config struct {
	// === HTTP Server ===
	Host string // Bind address (default: "0.0.0.0")
	Port string // Listen port (default: "8090")

	// === Scoring ===
	TablesFile string // Optional YAML file overriding the scoring tables
	MaxTextLen int    // Longest accepted input in bytes (default: 100000)

	// === History ===
	HistoryBackend HistoryBackend // "memory", "redis", "postgres", "jsonl"
	RedisURL       string         // redis:// URL for the redis backend
	PostgresDSN    string         // DSN for the postgres backend
	HistoryFile    string         // Path for the jsonl backend
	HistoryLimit   int            // Records kept by the memory backend (default: 1000)
	RecentLimit    int            // Analyses shown in the dashboard's recent feed (default: 20)

	// === Enhancer (optional learned model) ===
	Enhancer          Enhancer // "none", "hugot", "remote", "semantic"
	ModelPath         string   // Directory holding the ONNX model for "hugot"
	OnnxLibPath       string   // Directory holding libonnxruntime, empty = pure Go inference
	RemoteURL         string   // Scoring endpoint for "remote"
	RemoteAPIKey      string   // Bearer token for the remote endpoint (optional in dev)
	RemoteModel       string   // Model identifier sent to the remote endpoint
	RemoteTimeoutMs   int      // Remote call timeout in milliseconds (default: 8000)
	SemanticThreshold float64  // Similarity floor for the semantic enhancer (default: 0.7)

	// === Logging ===
	LogLevel string // "debug", "info", "warn", "error" (default: "info")
	LogFile  string // Rotated log file, empty = stdout only
}

// NewDefaultConfig creates a Config from environment variables with
// sensible defaults for a fully local deployment.
func NewDefaultConfig() *Config {
	return &Config{
		// Server
		Host: GetEnv("PHISHGUARD_HOST", "0.0.0.0"),
		Port: GetEnv("PHISHGUARD_PORT", "8090"),

		// Scoring
		TablesFile: GetEnv("PHISHGUARD_TABLES_FILE", ""),
		MaxTextLen: clampInt(GetEnvInt("PHISHGUARD_MAX_TEXT_LEN", 100000), 1, 10_000_000),

		// History
		HistoryBackend: HistoryBackend(GetEnv("PHISHGUARD_HISTORY_BACKEND", "memory")),
		RedisURL:       GetEnv("PHISHGUARD_REDIS_URL", ""),
		PostgresDSN:    GetEnv("PHISHGUARD_POSTGRES_DSN", ""),
		HistoryFile:    GetEnv("PHISHGUARD_HISTORY_FILE", "phishguard_history.jsonl"),
		HistoryLimit:   clampInt(GetEnvInt("PHISHGUARD_HISTORY_LIMIT", 1000), 1, 100000),
		RecentLimit:    clampInt(GetEnvInt("PHISHGUARD_RECENT_LIMIT", 20), 1, 1000),

		// Enhancer
		Enhancer:          detectEnhancer(),
		ModelPath:         GetEnv("PHISHGUARD_MODEL_PATH", ""),
		OnnxLibPath:       GetEnv("PHISHGUARD_ONNX_LIB", ""),
		RemoteURL:         GetEnv("PHISHGUARD_REMOTE_URL", ""),
		RemoteAPIKey:      GetEnv("PHISHGUARD_REMOTE_API_KEY", ""),
		RemoteModel:       GetEnv("PHISHGUARD_REMOTE_MODEL", "phishguard-v1"),
		RemoteTimeoutMs:   GetEnvInt("PHISHGUARD_REMOTE_TIMEOUT_MS", 8000),
		SemanticThreshold: GetEnvFloat("PHISHGUARD_SEMANTIC_THRESHOLD", 0.7),

		// Logging
		LogLevel: GetEnv("PHISHGUARD_LOG_LEVEL", "info"),
		LogFile:  GetEnv("PHISHGUARD_LOG_FILE", ""),
	}
}

// NewOfflineConfig creates a Config for air-gapped operation: memory
// history, no enhancer, nothing that could touch the network.
func NewOfflineConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.HistoryBackend = HistoryMemory
	cfg.Enhancer = EnhancerNone
	cfg.RemoteURL = ""
	cfg.RemoteAPIKey = ""
	return cfg
}

// detectEnhancer picks the enhancer from the environment. An explicit
// PHISHGUARD_ENHANCER always wins; otherwise a configured remote URL
// implies "remote", and the default is the local pipeline alone.
func detectEnhancer() Enhancer {
	if e := os.Getenv("PHISHGUARD_ENHANCER"); e != "" {
		return Enhancer(e)
	}
	if os.Getenv("PHISHGUARD_REMOTE_URL") != "" {
		return EnhancerRemote
	}
	return EnhancerNone
}

// clampInt ensures a value is within bounds
func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Helper functions for environment variable parsing

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvBool returns the boolean value of an environment variable or a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

// GetEnvFloat returns the float64 value of an environment variable or a default value.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

// GetEnvInt returns the integer value of an environment variable or a default value.
func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

// Validate checks that the configuration is internally consistent:
// enum fields hold known values and every selected backend has the
// settings it needs. Production mode additionally requires an API key
// on the remote enhancer.
func (c *Config) Validate() error {
	isProduction := strings.ToLower(os.Getenv("PHISHGUARD_ENV")) == "production" ||
		strings.ToLower(os.Getenv("PHISHGUARD_ENV")) == "prod"

	var problems []string

	switch c.HistoryBackend {
	case HistoryMemory, HistoryJSONL:
	case HistoryRedis:
		if c.RedisURL == "" {
			problems = append(problems, "PHISHGUARD_REDIS_URL is required for the redis history backend")
		}
	case HistoryPostgres:
		if c.PostgresDSN == "" {
			problems = append(problems, "PHISHGUARD_POSTGRES_DSN is required for the postgres history backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown history backend %q", c.HistoryBackend))
	}

	switch c.Enhancer {
	case EnhancerNone, EnhancerSemantic:
	case EnhancerHugot:
		if c.ModelPath == "" {
			log.Printf("[STARTUP] Warning: hugot enhancer selected without PHISHGUARD_MODEL_PATH; it stays disabled until a model is found")
		}
	case EnhancerRemote:
		if c.RemoteURL == "" {
			problems = append(problems, "PHISHGUARD_REMOTE_URL is required for the remote enhancer")
		}
		if isProduction && c.RemoteAPIKey == "" {
			problems = append(problems, "PHISHGUARD_REMOTE_API_KEY is required in production for the remote enhancer")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown enhancer %q", c.Enhancer))
	}

	if c.HistoryBackend == HistoryJSONL && c.HistoryFile == "" {
		problems = append(problems, "PHISHGUARD_HISTORY_FILE is required for the jsonl history backend")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q", c.Port))
	}
	if c.RemoteTimeoutMs <= 0 {
		problems = append(problems, "PHISHGUARD_REMOTE_TIMEOUT_MS must be positive")
	}
	if c.SemanticThreshold < 0 || c.SemanticThreshold > 1 {
		problems = append(problems, "PHISHGUARD_SEMANTIC_THRESHOLD must be in [0,1]")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// MustValidate calls Validate and fatally exits if validation fails.
// Call this at startup before starting the server.
func (c *Config) MustValidate() {
	if err := c.Validate(); err != nil {
		log.Fatalf("[STARTUP] FATAL: Configuration validation failed: %v", err)
	}
	log.Println("[STARTUP] Configuration validated successfully")
}

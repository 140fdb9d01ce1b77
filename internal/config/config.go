package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

const (
	LLMOpenAI = "openai"
	LLMVertex = "vertex"
	LLMNone   = "none"

	StorageMemory    = "memory"
	StorageFirestore = "firestore"
	StorageRedis     = "redis"
)

// DelayRange is the window a canned reply waits before it is returned.
type DelayRange struct {
	Min time.Duration
	Max time.Duration
}

type Config struct {
	Mode Mode

	Port     string
	LogLevel string

	LLMProvider   string // "openai", "vertex" or "none"
	OpenAIAPIKey  string
	OpenAIBaseURL string

	GCPProjectID string
	GCPLocation  string
	VertexModel  string

	StorageBackend string // "memory", "firestore" or "redis"
	RedisURL       string
	LocalStorePath string

	JWTSecret string
	DevUserID string

	ThinkingDelay DelayRange
	HistoryLimit  int
	SessionTTL    time.Duration

	// MessageRate is the sustained POST /messages rate per user, in requests per second.
	MessageRate  float64
	MessageBurst int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getFloatEnv(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// ParseDelayRange parses "min-max" in milliseconds, e.g. "1000-2000".
// A single number means a fixed delay.
func ParseDelayRange(s string) (DelayRange, error) {
	s = strings.TrimSpace(s)
	lo, hi, found := strings.Cut(s, "-")
	if !found {
		hi = lo
	}
	minMS, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return DelayRange{}, fmt.Errorf("thinking delay %q: %w", s, err)
	}
	maxMS, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return DelayRange{}, fmt.Errorf("thinking delay %q: %w", s, err)
	}
	r := DelayRange{
		Min: time.Duration(minMS) * time.Millisecond,
		Max: time.Duration(maxMS) * time.Millisecond,
	}
	if r.Min < 0 || r.Max < r.Min {
		return DelayRange{}, fmt.Errorf("thinking delay %q: need 0 <= min <= max", s)
	}
	return r, nil
}

// Load reads an optional .env file and all env vars and builds the config
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	modeStr := getEnv("INNERGUIDE_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	delay, err := ParseDelayRange(getEnv("INNERGUIDE_THINKING_DELAY_MS", "1000-2000"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Mode: mode,

		Port:     getEnv("INNERGUIDE_PORT", "8080"),
		LogLevel: getEnv("INNERGUIDE_LOG_LEVEL", "info"),

		LLMProvider:   strings.ToLower(getEnv("INNERGUIDE_LLM_PROVIDER", LLMOpenAI)),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("INNERGUIDE_OPENAI_BASE_URL", ""),

		GCPProjectID: getEnv("INNERGUIDE_GCP_PROJECT", ""),
		GCPLocation:  getEnv("INNERGUIDE_GCP_LOCATION", "us-central1"),
		VertexModel:  getEnv("INNERGUIDE_VERTEX_MODEL", "gemini-2.5-flash"),

		StorageBackend: strings.ToLower(getEnv("INNERGUIDE_STORAGE_BACKEND", StorageMemory)),
		RedisURL:       getEnv("INNERGUIDE_REDIS_URL", "redis://localhost:6379"),
		LocalStorePath: getEnv("INNERGUIDE_LOCAL_STORE", "innerguide.db"),

		JWTSecret: getEnv("INNERGUIDE_JWT_SECRET", ""),
		DevUserID: getEnv("INNERGUIDE_DEV_USER", "dev-user"),

		ThinkingDelay: delay,
		HistoryLimit:  getIntEnv("INNERGUIDE_HISTORY_LIMIT", 50),
		SessionTTL:    getDurationEnv("INNERGUIDE_SESSION_TTL", 30*time.Minute),

		MessageRate:  getFloatEnv("INNERGUIDE_MESSAGE_RATE", 1),
		MessageBurst: getIntEnv("INNERGUIDE_MESSAGE_BURST", 5),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CompletionConfigured reports whether a completion credential is present.
// Without one, replies always come from the canned responder.
func (c *Config) CompletionConfigured() bool {
	switch c.LLMProvider {
	case LLMOpenAI:
		return c.OpenAIAPIKey != ""
	case LLMVertex:
		return c.GCPProjectID != ""
	default:
		return false
	}
}

func (c *Config) Validate() error {
	switch c.LLMProvider {
	case LLMOpenAI, LLMVertex, LLMNone:
	default:
		return fmt.Errorf("unknown INNERGUIDE_LLM_PROVIDER %q", c.LLMProvider)
	}

	switch c.StorageBackend {
	case StorageMemory, StorageRedis:
	case StorageFirestore:
		if c.GCPProjectID == "" {
			return errors.New("INNERGUIDE_GCP_PROJECT is required for firestore storage")
		}
	default:
		return fmt.Errorf("unknown INNERGUIDE_STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.Mode == ModeGCP && c.GCPProjectID == "" {
		return errors.New("INNERGUIDE_GCP_PROJECT must be set in gcp mode")
	}
	if c.LocalStorePath == "" {
		return errors.New("INNERGUIDE_LOCAL_STORE must not be empty")
	}
	if c.HistoryLimit <= 0 {
		return errors.New("INNERGUIDE_HISTORY_LIMIT must be > 0")
	}
	if c.MessageRate <= 0 || c.MessageBurst <= 0 {
		return errors.New("message rate and burst must be > 0")
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lukman83/baydeals/internal/kvstore"
	"github.com/lukman83/baydeals/internal/llm"
	"github.com/lukman83/baydeals/internal/stealth"
	"github.com/lukman83/baydeals/internal/textparse"
)

// Cache backends.
const (
	CacheFile   = "file"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// LLM backend names accepted in DEALS_LLM_BACKENDS.
const (
	BackendGemini  = "gemini"
	BackendOpenAI  = "openai"
	BackendCommand = "command"
)

// Page fetchers.
const (
	FetcherBrowser = "browser"
	FetcherHTTP    = "http"
)

// Config holds all application configuration.
type Config struct {
	// Storage
	CatalogPath  string
	CacheDir     string
	CacheBackend string // "file", "memory", "redis"
	Redis        kvstore.RedisConfig

	// Translation and OCR backends, tried in order
	LLMBackends   []string
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	LLMCommand    string
	LLMRatePerSec float64
	LLMRateBurst  int
	// CI forces the identity translation and empty OCR fallbacks.
	CI bool

	// Fetching
	Fetcher           string // "browser" or "http"
	DelayProfile      string // "cautious", "normal", "aggressive", "off"
	RespectRobots     bool
	ProxyFile         string
	BrowserBin        string
	NavigationTimeout time.Duration
	MaxConcurrent     int
	HMartOCR          bool
	Ranch99OCRWorkers int

	// Pricing conventions
	HotThreshold   float64
	Markup         float64
	SaveMultiplier float64

	// HTTP server
	HTTPPort    string
	APIKey      string
	CORSOrigins []string

	// Logging
	LogLevel string
	LogFile  string
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	rules := textparse.DefaultRules()
	return &Config{
		CatalogPath:       "data/deals.json",
		CacheDir:          "data/cache",
		CacheBackend:      CacheFile,
		Redis:             kvstore.RedisConfig{Addr: "localhost:6379"},
		LLMBackends:       []string{BackendGemini, BackendOpenAI, BackendCommand},
		GeminiModel:       llm.DefaultGeminiModel,
		OpenAIModel:       llm.DefaultOpenAIModel,
		LLMCommand:        llm.DefaultCommand,
		LLMRatePerSec:     1.0,
		LLMRateBurst:      1,
		Fetcher:           FetcherBrowser,
		DelayProfile:      string(stealth.ProfileNormal),
		RespectRobots:     true,
		NavigationTimeout: 60 * time.Second,
		MaxConcurrent:     1,
		Ranch99OCRWorkers: 1,
		HotThreshold:      5,
		Markup:            rules.Markup,
		SaveMultiplier:    rules.SaveMultiplier,
		HTTPPort:          "8080",
		CORSOrigins:       []string{"*"},
		LogLevel:          "info",
	}
}

// LoadFromEnv loads .env file (if present) then overrides config from environment variables.
func (c *Config) LoadFromEnv() {
	// Auto-load .env file; silently ignored if missing
	_ = godotenv.Load()

	c.CatalogPath = getEnv("DEALS_CATALOG", c.CatalogPath)
	c.CacheDir = getEnv("DEALS_CACHE_DIR", c.CacheDir)
	c.CacheBackend = getEnv("DEALS_CACHE_BACKEND", c.CacheBackend)
	c.Redis.Addr = getEnv("DEALS_REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("DEALS_REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("DEALS_REDIS_DB", c.Redis.DB)

	if v := os.Getenv("DEALS_LLM_BACKENDS"); v != "" {
		c.LLMBackends = parseCommaSeparated(v)
	}
	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiModel = getEnv("DEALS_GEMINI_MODEL", c.GeminiModel)
	c.OpenAIAPIKey = getEnv("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.OpenAIModel = getEnv("DEALS_OPENAI_MODEL", c.OpenAIModel)
	c.LLMCommand = getEnv("DEALS_LLM_COMMAND", c.LLMCommand)
	c.LLMRatePerSec = getEnvFloat("DEALS_LLM_RATE_PER_SECOND", c.LLMRatePerSec)
	c.LLMRateBurst = getEnvInt("DEALS_LLM_RATE_BURST", c.LLMRateBurst)
	c.CI = getEnvBool("CI", c.CI)

	c.Fetcher = getEnv("DEALS_FETCHER", c.Fetcher)
	c.DelayProfile = getEnv("DEALS_DELAY_PROFILE", c.DelayProfile)
	c.RespectRobots = getEnvBool("DEALS_RESPECT_ROBOTS", c.RespectRobots)
	c.ProxyFile = getEnv("DEALS_PROXIES", c.ProxyFile)
	c.BrowserBin = getEnv("DEALS_BROWSER_BIN", c.BrowserBin)
	c.NavigationTimeout = time.Duration(getEnvInt("DEALS_NAVIGATION_TIMEOUT_SECONDS", int(c.NavigationTimeout/time.Second))) * time.Second
	c.MaxConcurrent = getEnvInt("DEALS_MAX_CONCURRENT", c.MaxConcurrent)
	c.HMartOCR = getEnvBool("DEALS_HMART_OCR", c.HMartOCR)
	c.Ranch99OCRWorkers = getEnvInt("DEALS_RANCH99_OCR_WORKERS", c.Ranch99OCRWorkers)

	c.HotThreshold = getEnvFloat("DEALS_HOT_THRESHOLD", c.HotThreshold)
	c.Markup = getEnvFloat("DEALS_MARKUP", c.Markup)
	c.SaveMultiplier = getEnvFloat("DEALS_SAVE_MULTIPLIER", c.SaveMultiplier)

	c.HTTPPort = getEnv("PORT", c.HTTPPort)
	c.APIKey = getEnv("DEALS_API_KEY", c.APIKey)
	if v := os.Getenv("DEALS_CORS_ORIGINS"); v != "" {
		c.CORSOrigins = parseCommaSeparated(v)
	}

	c.LogLevel = getEnv("DEALS_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("DEALS_LOG_FILE", c.LogFile)
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if c.CatalogPath == "" {
		return fmt.Errorf("DEALS_CATALOG is required")
	}
	switch c.CacheBackend {
	case CacheFile:
		if c.CacheDir == "" {
			return fmt.Errorf("DEALS_CACHE_DIR is required for the file cache")
		}
	case CacheMemory:
	case CacheRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("DEALS_REDIS_ADDR is required for the redis cache")
		}
	default:
		return fmt.Errorf("unknown cache backend %q (want file, memory or redis)", c.CacheBackend)
	}
	for _, b := range c.LLMBackends {
		switch b {
		case BackendGemini, BackendOpenAI, BackendCommand:
		default:
			return fmt.Errorf("unknown LLM backend %q", b)
		}
	}
	if c.Fetcher != FetcherBrowser && c.Fetcher != FetcherHTTP {
		return fmt.Errorf("unknown fetcher %q (want browser or http)", c.Fetcher)
	}
	if _, err := stealth.ParseDelayProfile(c.DelayProfile); err != nil {
		return err
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("DEALS_MAX_CONCURRENT must be at least 1")
	}
	if c.HotThreshold <= 0 {
		return fmt.Errorf("DEALS_HOT_THRESHOLD must be positive")
	}
	if c.Markup <= 1 {
		return fmt.Errorf("DEALS_MARKUP must be greater than 1")
	}
	if c.SaveMultiplier <= 0 {
		return fmt.Errorf("DEALS_SAVE_MULTIPLIER must be positive")
	}
	return nil
}

// Rules returns the pricing conventions the store scrapers apply.
func (c *Config) Rules() textparse.Rules {
	return textparse.Rules{Markup: c.Markup, SaveMultiplier: c.SaveMultiplier}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

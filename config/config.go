package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default listen ports per service.
const (
	PortRecipes       = 8000
	PortRecipeScraper = 8010
	PortAIRecipes     = 8020
	PortHue           = 8030
)

// Config holds all application configuration. Every binary loads the whole
// tree and uses the sections it needs.
type Config struct {
	Server    ServerConfig
	Scraper   ScraperConfig
	Browser   BrowserConfig
	Store     StoreConfig
	Upstream  UpstreamConfig
	LLM       LLMConfig
	Hue       HueConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: per service
	Mode string // "debug", "release", "test"; default: "release"

	// StaticDir is served for every unmatched route. Empty disables it.
	StaticDir string // default: "public"
}

// ScraperConfig controls recipe page fetching.
type ScraperConfig struct {
	// Timeout is the fetch deadline when the request does not set one.
	Timeout time.Duration // default: 20s

	// MaxTimeout caps the per-request timeout.
	MaxTimeout time.Duration // default: 120s

	// UserAgent is sent with every fetch.
	UserAgent string // default: "Mozilla/5.0 (compatible; RecipeScraper/1.0)"

	// FetchMode selects the engine: "http" or "browser".
	FetchMode string // default: "http"

	// MaxBodyBytes bounds the response body read by the HTTP engine.
	MaxBodyBytes int64 // default: 10 MiB

	// BlockedResourceTypes lists resource types the browser engine blocks.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string
}

// BrowserConfig controls the Rod browser used when FetchMode is "browser".
type BrowserConfig struct {
	Headless     bool   // default: true
	NoSandbox    bool   // default: false; needed in Docker
	BrowserBin   string // overrides the Chromium binary path
	DefaultProxy string
	Stealth      bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 4
}

// StoreConfig controls the SQLite recipe store.
type StoreConfig struct {
	Path string // default: "data/recipes.db"
}

// UpstreamConfig points the recipes service at its sibling services.
type UpstreamConfig struct {
	// ScraperURL is the recipe-scraper base URL. Empty scrapes in-process.
	ScraperURL     string
	ScraperTimeout time.Duration // default: 25s

	AIURL     string        // default: "http://ai-recipes:8020"
	AITimeout time.Duration // default: 30s
}

// LLMConfig controls the OpenAI-compatible chat completions client.
type LLMConfig struct {
	APIKey  string
	Model   string        // default: "gpt-4.1-mini"
	BaseURL string        // default: "https://api.openai.com/v1"
	Timeout time.Duration // default: 30s

	// MaxPromptTokens bounds the recipe list sent with a suggestion prompt.
	MaxPromptTokens int // default: 6000
}

// HueConfig locates the Hue bridge.
type HueConfig struct {
	BridgeIP string
	Username string
	Timeout  time.Duration // default: 6s
}

// Validate reports missing bridge credentials.
func (c HueConfig) Validate() error {
	if c.BridgeIP == "" || c.Username == "" {
		return errors.New("HUE_BRIDGE_IP and HUE_USERNAME must be set")
	}
	return nil
}

// RateLimitConfig controls per-client rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client IP. 0 disables it.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per client IP.
	Burst int // default: 10
}

// CacheConfig controls the scrape result cache.
type CacheConfig struct {
	// TTL is the hard lifetime of an entry, whatever max_age a request asks for.
	TTL time.Duration // default: 1h

	CleanupInterval time.Duration // default: 10m
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
// defaultPort is the service's listen port unless PORT is set.
func Load(defaultPort int) *Config {
	return &Config{
		Server: ServerConfig{
			Host:      envOr("HOST", "0.0.0.0"),
			Port:      envIntOr("PORT", defaultPort),
			Mode:      envOr("GIN_MODE", "release"),
			StaticDir: envOr("STATIC_DIR", "public"),
		},
		Scraper: ScraperConfig{
			Timeout:      envDurationOr("SCRAPER_TIMEOUT", 20*time.Second),
			MaxTimeout:   envDurationOr("SCRAPER_MAX_TIMEOUT", 120*time.Second),
			UserAgent:    envOr("SCRAPER_USER_AGENT", "Mozilla/5.0 (compatible; RecipeScraper/1.0)"),
			FetchMode:    envOr("SCRAPER_FETCH_MODE", "http"),
			MaxBodyBytes: int64(envIntOr("SCRAPER_MAX_BODY_BYTES", 10<<20)),
			BlockedResourceTypes: envSliceOr("SCRAPER_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
		},
		Browser: BrowserConfig{
			Headless:     envBoolOr("BROWSER_HEADLESS", true),
			NoSandbox:    envBoolOr("BROWSER_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("BROWSER_BIN"),
			DefaultProxy: os.Getenv("BROWSER_PROXY"),
			Stealth:      envBoolOr("BROWSER_STEALTH", true),
			MaxPages:     envIntOr("BROWSER_MAX_PAGES", 4),
		},
		Store: StoreConfig{
			Path: envOr("RECIPES_DB_PATH", "data/recipes.db"),
		},
		Upstream: UpstreamConfig{
			ScraperURL:     strings.TrimRight(os.Getenv("RECIPE_SCRAPER_URL"), "/"),
			ScraperTimeout: envDurationOr("RECIPE_SCRAPER_TIMEOUT", 25*time.Second),
			AIURL:          strings.TrimRight(envOr("AI_RECIPES_URL", "http://ai-recipes:8020"), "/"),
			AITimeout:      envDurationOr("AI_RECIPES_TIMEOUT", 30*time.Second),
		},
		LLM: LLMConfig{
			APIKey:          os.Getenv("OPENAI_API_KEY"),
			Model:           envOr("OPENAI_MODEL", "gpt-4.1-mini"),
			BaseURL:         strings.TrimRight(envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
			Timeout:         envDurationOr("OPENAI_TIMEOUT", 30*time.Second),
			MaxPromptTokens: envIntOr("OPENAI_MAX_PROMPT_TOKENS", 6000),
		},
		Hue: HueConfig{
			BridgeIP: os.Getenv("HUE_BRIDGE_IP"),
			Username: os.Getenv("HUE_USERNAME"),
			Timeout:  envDurationOr("HUE_TIMEOUT", 6*time.Second),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("RATE_LIMIT_RPS", 5.0),
			Burst:             envIntOr("RATE_LIMIT_BURST", 10),
		},
		Cache: CacheConfig{
			TTL:             envDurationOr("CACHE_TTL", time.Hour),
			CleanupInterval: envDurationOr("CACHE_CLEANUP_INTERVAL", 10*time.Minute),
		},
		Log: LogConfig{
			Level:  envOr("LOG_LEVEL", "info"),
			Format: envOr("LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}

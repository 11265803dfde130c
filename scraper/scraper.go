package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/DDDesignDev/homelab/cache"
	"github.com/DDDesignDev/homelab/config"
	"github.com/DDDesignDev/homelab/engine"
	"github.com/DDDesignDev/homelab/models"
	"github.com/DDDesignDev/homelab/sites"
)

// Scraper turns recipe page URLs into normalized recipes. It holds no
// per-request state and is safe for concurrent use.
type Scraper struct {
	engine   engine.Engine
	registry *sites.Registry
	cache    *cache.Cache // nil disables max_age lookups

	userAgent      string
	defaultTimeout time.Duration
	maxTimeout     time.Duration
}

// New creates a Scraper. c may be nil.
func New(eng engine.Engine, registry *sites.Registry, c *cache.Cache, cfg config.ScraperConfig) *Scraper {
	return &Scraper{
		engine:         eng,
		registry:       registry,
		cache:          c,
		userAgent:      cfg.UserAgent,
		defaultTimeout: cfg.Timeout,
		maxTimeout:     cfg.MaxTimeout,
	}
}

// Scrape serves a ScrapeRequest, answering from the cache when the request
// allows a result of that age.
func (s *Scraper) Scrape(ctx context.Context, req *models.ScrapeRequest) (*models.NormalizedRecipe, error) {
	maxAge := time.Duration(req.MaxAge) * time.Second
	key := cache.Key(req.URL)

	if s.cache != nil {
		if recipe, ok := s.cache.Get(key, maxAge); ok {
			slog.Debug("scrape served from cache", "url", req.URL)
			return recipe, nil
		}
	}

	recipe, err := s.ScrapeRecipe(ctx, req.URL, time.Duration(req.Timeout)*time.Second)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, recipe)
	}
	return recipe, nil
}

// ScrapeRecipe fetches url and assembles a recipe from the page.
//
// Only the fetch can fail: a transport error or non-2xx status returns a
// *models.FetchError and no recipe. A page that yields little or nothing is
// still a successful scrape with empty fields.
func (s *Scraper) ScrapeRecipe(ctx context.Context, url string, timeout time.Duration) (*models.NormalizedRecipe, error) {
	// ── 1. Fetch ──────────────────────────────────────────────────────
	result, err := s.engine.Fetch(ctx, &engine.FetchRequest{
		URL:       url,
		UserAgent: s.userAgent,
		Timeout:   s.clampTimeout(timeout),
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("recipe page fetched",
		"url", url, "engine", result.EngineName, "status", result.StatusCode,
		"title", result.Title, "bytes", len(result.HTML),
	)

	// ── 2. Extract ────────────────────────────────────────────────────
	return Assemble(url, result.HTML, s.registry), nil
}

// ScrapeURL scrapes url with the default timeout and no cache lookup.
func (s *Scraper) ScrapeURL(ctx context.Context, url string) (*models.NormalizedRecipe, error) {
	return s.ScrapeRecipe(ctx, url, 0)
}

func (s *Scraper) clampTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		d = s.defaultTimeout
	}
	if d <= 0 {
		d = 20 * time.Second
	}
	if s.maxTimeout > 0 && d > s.maxTimeout {
		d = s.maxTimeout
	}
	return d
}
